package service

import (
	"fmt"

	"croupier/models"
)

// AllocateStake decides how much of each currency a wager consumes. Tokens
// are preferred in full; credits alone are used when tokens fall short but
// credits cover the amount; otherwise all tokens are consumed and the
// remainder comes from credits. A fixed currency hint must be covered by that
// single balance.
func AllocateStake(account *models.Account, amount int64, hint *models.Currency) (models.Stake, error) {
	if amount <= 0 {
		return models.Stake{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	if hint != nil {
		if account.Balance(*hint) < amount {
			return models.Stake{}, fmt.Errorf("%w: %s", ErrInsufficientFunds, *hint)
		}
		if *hint == models.CurrencyCredits {
			return models.Stake{Credits: amount}, nil
		}
		return models.Stake{Tokens: amount}, nil
	}

	switch {
	case account.Tokens >= amount:
		return models.Stake{Tokens: amount}, nil
	case account.Credits >= amount:
		return models.Stake{Credits: amount}, nil
	case account.TotalBalance() >= amount:
		return models.Stake{Tokens: account.Tokens, Credits: amount - account.Tokens}, nil
	default:
		return models.Stake{}, fmt.Errorf("%w: have %d combined, need %d",
			ErrInsufficientFunds, account.TotalBalance(), amount)
	}
}

// availableFor returns the balance a shorthand amount ("all", "half", ...)
// resolves against: the hinted currency's balance, or the combined total
func availableFor(account *models.Account, hint *models.Currency) int64 {
	if hint != nil {
		return account.Balance(*hint)
	}
	return account.TotalBalance()
}
