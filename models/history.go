package models

import (
	"time"
)

// EntryType represents the type of history entry
type EntryType string

const (
	EntryTypeWin         EntryType = "win"
	EntryTypeLoss        EntryType = "loss"
	EntryTypeAdminAdd    EntryType = "admin_add"
	EntryTypeTipSent     EntryType = "tip_sent"
	EntryTypeTipReceived EntryType = "tip_received"
	EntryTypeDeposit     EntryType = "deposit"
	EntryTypeWithdraw    EntryType = "withdraw"
)

// HistoryLimit is the number of entries retained per account. Older entries
// are evicted on append, oldest first.
const HistoryLimit = 100

// HistoryEntry is an immutable record of a balance-affecting event. Entries
// are append-only and never edited or reordered.
type HistoryEntry struct {
	ID         int64          `db:"id"`
	AccountID  int64          `db:"account_id"`
	Type       EntryType      `db:"entry_type"`
	Game       GameKind       `db:"game"`
	BetAmount  int64          `db:"bet_amount"`
	Amount     int64          `db:"amount"`
	Multiplier *float64       `db:"multiplier"`
	Metadata   map[string]any `db:"metadata"`
	CreatedAt  time.Time      `db:"created_at"`
}
