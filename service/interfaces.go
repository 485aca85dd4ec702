package service

import (
	"context"

	"croupier/events"
	"croupier/models"
)

// AccountRepository defines the ledger's account-facing data access. All
// balance mutations are atomic single-row updates keyed by account id.
type AccountRepository interface {
	// GetByID retrieves an account by id, returning nil when absent
	GetByID(ctx context.Context, accountID int64) (*models.Account, error)

	// Create creates a new account with the given starting token balance
	Create(ctx context.Context, accountID int64, username string, startingTokens int64) (*models.Account, error)

	// DebitStake atomically removes both legs of a stake, failing with
	// ErrInsufficientFunds unless both balances cover their leg
	DebitStake(ctx context.Context, accountID int64, stake models.Stake) error

	// Credit adds to one of the account's balances atomically
	Credit(ctx context.Context, accountID int64, currency models.Currency, amount int64) error

	// IncrementCounters applies deltas to the cumulative counters
	IncrementCounters(ctx context.Context, accountID int64, deltas models.CounterDeltas) error

	// GetTop returns accounts ordered by combined balance
	GetTop(ctx context.Context, limit int) ([]*models.Account, error)
}

// HistoryRepository defines the ledger's append-only history access
type HistoryRepository interface {
	// Append records an entry and truncates the account's history to the
	// most recent models.HistoryLimit entries
	Append(ctx context.Context, entry *models.HistoryEntry) error

	// GetByAccount returns the most recent entries, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.HistoryEntry, error)

	// CountByAccount returns the number of retained entries
	CountByAccount(ctx context.Context, accountID int64) (int, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	HistoryRepository() HistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AccountService defines account lifecycle and transfer operations
type AccountService interface {
	// GetOrCreateAccount retrieves an account or auto-registers a new one
	GetOrCreateAccount(ctx context.Context, accountID int64, username string) (*models.Account, error)

	// Tip transfers an amount between two accounts in one currency
	Tip(ctx context.Context, fromID, toID int64, currency models.Currency, amount int64) error

	// AdminGrant credits an account outside of normal play
	AdminGrant(ctx context.Context, accountID int64, currency models.Currency, amount int64) error

	// GetHistory returns an account's recent history entries
	GetHistory(ctx context.Context, accountID int64, limit int) ([]*models.HistoryEntry, error)

	// GetTopAccounts returns the richest accounts for the scoreboard
	GetTopAccounts(ctx context.Context, limit int) ([]*models.Account, error)
}

// WagerRequest is a parsed wager command from the presentation layer
type WagerRequest struct {
	AccountID    int64
	Kind         models.GameKind
	RawAmount    string
	CurrencyHint *models.Currency
	Params       models.GameParams
}

// PlayReceipt is returned when a wager is accepted. Instant games settle
// synchronously and carry their result; interactive games report through
// session events.
type PlayReceipt struct {
	SessionID string
	Stake     models.Stake
	Snapshot  models.SessionSnapshot
	Result    *models.SettlementResult
}

// CasinoService defines the wagering session engine's surface
type CasinoService interface {
	// Play validates and reserves a stake, admits a session and starts it
	Play(ctx context.Context, req WagerRequest) (*PlayReceipt, error)

	// SubmitAction delivers a player action to the account's live session.
	// Actions arriving after the session left its active phase are ignored.
	SubmitAction(accountID int64, action PlayerAction) error

	// ActiveSession returns a snapshot of the account's live session
	ActiveSession(accountID int64) (*models.SessionSnapshot, bool)
}
