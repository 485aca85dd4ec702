package events

import (
	"context"
	"sync"

	"croupier/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAccountCreated EventType = "account_created"
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeSessionStarted EventType = "session_started"
	EventTypeSessionTick    EventType = "session_tick"
	EventTypeSessionSettled EventType = "session_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AccountCreatedEvent represents a new account auto-registration
type AccountCreatedEvent struct {
	AccountID      int64
	Username       string
	StartingTokens int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// BalanceChangeEvent represents a balance mutation that occurred
type BalanceChangeEvent struct {
	AccountID    int64
	Currency     models.Currency
	ChangeAmount int64
	EntryType    models.EntryType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// SessionStartedEvent signals that a game session was admitted and is live
type SessionStartedEvent struct {
	SessionID string
	AccountID int64
	Kind      models.GameKind
	Stake     models.Stake
}

func (e SessionStartedEvent) Type() EventType {
	return EventTypeSessionStarted
}

// SessionTickEvent carries a state snapshot of a live session. The engine
// emits these for the presentation layer to render; it never formats output
// itself.
type SessionTickEvent struct {
	SessionID string
	AccountID int64
	Snapshot  models.SessionSnapshot
}

func (e SessionTickEvent) Type() EventType {
	return EventTypeSessionTick
}

// SessionSettledEvent signals that a session reached a terminal state and
// settlement has been applied to the ledger
type SessionSettledEvent struct {
	SessionID string
	AccountID int64
	Result    models.SettlementResult
}

func (e SessionSettledEvent) Type() EventType {
	return EventTypeSessionSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the session run loop
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission so handlers outlive the
	// transaction context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
