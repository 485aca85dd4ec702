package service

import (
	"errors"
	"testing"

	"croupier/models"

	"github.com/stretchr/testify/assert"
)

func TestAllocateStake_TokensPreferred(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 500, Credits: 500}

	stake, err := AllocateStake(account, 300, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Tokens: 300}, stake)
}

func TestAllocateStake_CreditsWhenTokensShort(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 50, Credits: 500}

	stake, err := AllocateStake(account, 300, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Credits: 300}, stake)
}

func TestAllocateStake_SplitsAcrossCurrencies(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 30, Credits: 100}

	stake, err := AllocateStake(account, 110, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Tokens: 30, Credits: 80}, stake)
	assert.Equal(t, int64(110), stake.Total())
}

func TestAllocateStake_ExactCombinedBalance(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 30, Credits: 80}

	stake, err := AllocateStake(account, 110, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Tokens: 30, Credits: 80}, stake)
}

func TestAllocateStake_InsufficientCombined(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 30, Credits: 40}

	_, err := AllocateStake(account, 100, nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
}

func TestAllocateStake_CurrencyHint(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 50, Credits: 500}

	credits := models.CurrencyCredits
	stake, err := AllocateStake(account, 300, &credits)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Credits: 300}, stake)

	tokens := models.CurrencyTokens
	stake, err = AllocateStake(account, 50, &tokens)
	assert.NoError(t, err)
	assert.Equal(t, models.Stake{Tokens: 50}, stake)
}

func TestAllocateStake_HintMustBeCoveredBySingleBalance(t *testing.T) {
	// 300 is affordable combined but not from tokens alone; a hinted wager
	// never falls back to the other currency
	account := &models.Account{AccountID: 1, Tokens: 100, Credits: 500}

	tokens := models.CurrencyTokens
	_, err := AllocateStake(account, 300, &tokens)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
}

func TestAllocateStake_NonPositiveAmount(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 100, Credits: 100}

	_, err := AllocateStake(account, 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = AllocateStake(account, -10, nil)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestAvailableFor(t *testing.T) {
	account := &models.Account{AccountID: 1, Tokens: 30, Credits: 80}

	assert.Equal(t, int64(110), availableFor(account, nil))

	tokens := models.CurrencyTokens
	assert.Equal(t, int64(30), availableFor(account, &tokens))

	credits := models.CurrencyCredits
	assert.Equal(t, int64(80), availableFor(account, &credits))
}
