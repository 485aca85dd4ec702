package testutil

import (
	"time"

	"croupier/models"
)

// CreateTestAccount creates a test account with default balances
func CreateTestAccount(accountID int64, username string) *models.Account {
	now := time.Now()
	return &models.Account{
		AccountID: accountID,
		Username:  username,
		Tokens:    1000,
		Credits:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAccountWithBalances creates a test account with specific balances
func CreateTestAccountWithBalances(accountID int64, username string, tokens, credits int64) *models.Account {
	account := CreateTestAccount(accountID, username)
	account.Tokens = tokens
	account.Credits = credits
	return account
}

// CreateTestHistoryEntry creates a test history entry
func CreateTestHistoryEntry(accountID int64, entryType models.EntryType) *models.HistoryEntry {
	multiplier := 1.95
	return &models.HistoryEntry{
		AccountID:  accountID,
		Type:       entryType,
		Game:       models.GameCoinflip,
		BetAmount:  100,
		Amount:     195,
		Multiplier: &multiplier,
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestHistoryEntryWithAmounts creates a test history entry with specific amounts
func CreateTestHistoryEntryWithAmounts(accountID int64, entryType models.EntryType, betAmount, amount int64) *models.HistoryEntry {
	entry := CreateTestHistoryEntry(accountID, entryType)
	entry.BetAmount = betAmount
	entry.Amount = amount
	return entry
}
