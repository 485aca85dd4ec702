package service

import (
	"errors"
)

// Boundary errors surfaced to the user as rejections, before any balance
// mutation takes place.
var (
	// ErrInvalidAmount reports a non-numeric or non-positive wager amount
	ErrInvalidAmount = errors.New("invalid wager amount")

	// ErrInsufficientFunds reports that the requested stake is not covered
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyActive reports a session registry collision
	ErrAlreadyActive = errors.New("a game session is already active for this account")

	// ErrAccountNotFound reports a missing account (pre-registration race)
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoActiveSession reports an action with no live session to act on
	ErrNoActiveSession = errors.New("no active game session")
)

// ErrSettlementFailure is the only fatal class: the stake is already
// reserved, so settlement is retried and permanent failures are surfaced for
// manual reconciliation rather than dropped.
var ErrSettlementFailure = errors.New("settlement failure")
