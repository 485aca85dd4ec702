package service

import (
	"sync"
)

// SessionRegistry enforces at most one active game session per account. The
// per-account slot is the only in-memory shared mutable state in the engine.
type SessionRegistry struct {
	mu     sync.Mutex
	active map[int64]*GameSession
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		active: make(map[int64]*GameSession),
	}
}

// Admit registers a session for an account. Concurrent admissions for the
// same account are serialized; the second deterministically fails with
// ErrAlreadyActive and never overwrites the first.
func (r *SessionRegistry) Admit(accountID int64, session *GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[accountID]; exists {
		return ErrAlreadyActive
	}
	r.active[accountID] = session
	return nil
}

// Release removes an account's session slot. Releasing an account with no
// active session is a no-op so duplicate cleanup paths stay harmless.
func (r *SessionRegistry) Release(accountID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, accountID)
}

// Get returns the account's active session, if any
func (r *SessionRegistry) Get(accountID int64) (*GameSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.active[accountID]
	return session, ok
}

// Count returns the number of live sessions across all accounts
func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.active)
}
