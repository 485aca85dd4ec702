package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxWagerAmount guards against overflow from absurd suffix combinations
const maxWagerAmount = int64(1) << 50

// ParseWagerAmount parses a raw wager string against an available balance.
// "all"/"max" resolve to the full balance, "half" to half of it; a trailing
// "%" takes a percentage; "k" and "m" suffixes scale by 1e3 and 1e6 before
// validation.
func ParseWagerAmount(raw string, available int64) (int64, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")

	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}

	switch s {
	case "all", "max":
		if available <= 0 {
			return 0, fmt.Errorf("%w: nothing to wager", ErrInvalidAmount)
		}
		return available, nil
	case "half":
		if available/2 <= 0 {
			return 0, fmt.Errorf("%w: nothing to wager", ErrInvalidAmount)
		}
		return available / 2, nil
	}

	if strings.HasSuffix(s, "%") {
		percent, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || percent <= 0 || percent > 100 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
		amount := int64(float64(available) * percent / 100)
		if amount <= 0 {
			return 0, fmt.Errorf("%w: nothing to wager", ErrInvalidAmount)
		}
		return amount, nil
	}

	scale := 1.0
	if strings.HasSuffix(s, "k") {
		scale = 1e3
		s = strings.TrimSuffix(s, "k")
	} else if strings.HasSuffix(s, "m") {
		scale = 1e6
		s = strings.TrimSuffix(s, "m")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	value *= scale
	if value <= 0 || value > float64(maxWagerAmount) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	amount := int64(math.Round(value))
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return amount, nil
}
