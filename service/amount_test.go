package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWagerAmount_PlainNumbers(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		available int64
		expected  int64
	}{
		{"simple integer", "100", 1000, 100},
		{"with commas", "1,000", 5000, 1000},
		{"with underscores", "1_500", 5000, 1500},
		{"k suffix", "2k", 5000, 2000},
		{"fractional k suffix", "2.5k", 5000, 2500},
		{"m suffix", "1m", 2000000, 1000000},
		{"rounds fractional input", "99.6", 1000, 100},
		{"exceeds balance still parses", "5000", 100, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ParseWagerAmount(tt.raw, tt.available)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, amount)
		})
	}
}

func TestParseWagerAmount_Shorthands(t *testing.T) {
	amount, err := ParseWagerAmount("all", 750)
	assert.NoError(t, err)
	assert.Equal(t, int64(750), amount)

	amount, err = ParseWagerAmount("MAX", 750)
	assert.NoError(t, err)
	assert.Equal(t, int64(750), amount)

	amount, err = ParseWagerAmount("half", 751)
	assert.NoError(t, err)
	assert.Equal(t, int64(375), amount)

	amount, err = ParseWagerAmount("25%", 1000)
	assert.NoError(t, err)
	assert.Equal(t, int64(250), amount)

	amount, err = ParseWagerAmount("100%", 333)
	assert.NoError(t, err)
	assert.Equal(t, int64(333), amount)
}

func TestParseWagerAmount_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		available int64
	}{
		{"empty", "", 1000},
		{"whitespace only", "   ", 1000},
		{"not a number", "abc", 1000},
		{"negative", "-50", 1000},
		{"zero", "0", 1000},
		{"zero percent", "0%", 1000},
		{"over 100 percent", "150%", 1000},
		{"all with empty balance", "all", 0},
		{"half of a single unit", "half", 1},
		{"overflow", "99999999999m", 1000},
		{"nan", "nan", 1000},
		{"bare suffix", "k", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWagerAmount(tt.raw, tt.available)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAmount))
		})
	}
}
