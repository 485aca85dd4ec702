package models

import (
	"time"
)

// Currency identifies one of the two balances an account holds. Tokens are
// the staking currency; credits are the payout/withdrawal currency.
type Currency string

const (
	CurrencyTokens  Currency = "tokens"
	CurrencyCredits Currency = "credits"
)

// Account represents a player with dual-currency balances and cumulative stats
type Account struct {
	AccountID           int64     `db:"account_id"`
	Username            string    `db:"username"`
	Tokens              int64     `db:"tokens"`
	Credits             int64     `db:"credits"`
	TotalPlayed         int64     `db:"total_played"`
	TotalWon            int64     `db:"total_won"`
	TotalLost           int64     `db:"total_lost"`
	TotalSpent          int64     `db:"total_spent"`
	TotalEarned         int64     `db:"total_earned"`
	TotalDepositAmount  int64     `db:"total_deposit_amount"`
	TotalWithdrawAmount int64     `db:"total_withdraw_amount"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// TotalBalance returns the combined spendable balance across both currencies
func (a *Account) TotalBalance() int64 {
	return a.Tokens + a.Credits
}

// Balance returns the balance held in a single currency
func (a *Account) Balance(c Currency) int64 {
	if c == CurrencyCredits {
		return a.Credits
	}
	return a.Tokens
}

// CounterDeltas describes increments to an account's cumulative counters.
// Zero fields are skipped; negative deltas reverse a prior increment.
type CounterDeltas struct {
	TotalPlayed         int64
	TotalWon            int64
	TotalLost           int64
	TotalSpent          int64
	TotalEarned         int64
	TotalDepositAmount  int64
	TotalWithdrawAmount int64
}

// IsZero reports whether no counter would change
func (d CounterDeltas) IsZero() bool {
	return d == CounterDeltas{}
}
