package service

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"croupier/models"
)

// Session phases. A session leaves phaseActive exactly once, through the
// terminal latch, and reaches phaseDone exactly once, through the settlement
// guard.
const (
	phaseActive int32 = iota
	phaseSettling
	phaseDone
)

// ActionKind identifies a player action submitted to a live session
type ActionKind string

const (
	ActionCashOut ActionKind = "cashout"
	ActionPick    ActionKind = "pick"
	ActionGuess   ActionKind = "guess"
)

// PlayerAction is a message from the presentation layer to a session's run
// loop. Actions are delivered over the session's channel, never invoked as
// callbacks into game logic.
type PlayerAction struct {
	Kind ActionKind
	// Pick: the tile index to reveal
	Tile int
	// Guess: the called coin side ("heads"/"tails")
	Guess string
}

// GameSession is one live, time-bounded game run. It owns its outcome and its
// stake, accepts at most one terminating trigger, and is settled exactly once.
type GameSession struct {
	ID        string
	AccountID int64
	Kind      models.GameKind
	Stake     models.Stake
	CreatedAt time.Time
	Deadline  time.Time

	phase   atomic.Int32
	actions chan PlayerAction
	done    chan struct{}

	rng    *rand.Rand
	params models.GameParams

	// game state, guarded by mu; the run loop is the only writer
	mu         sync.Mutex
	multiplier float64
	crashPoint float64
	crashed    bool
	mineCount  int
	mines      map[int]bool
	revealed   map[int]bool
	round      int
}

func newGameSession(id string, accountID int64, kind models.GameKind, stake models.Stake, params models.GameParams, deadline time.Duration, rng *rand.Rand) *GameSession {
	now := time.Now()
	return &GameSession{
		ID:         id,
		AccountID:  accountID,
		Kind:       kind,
		Stake:      stake,
		CreatedAt:  now,
		Deadline:   now.Add(deadline),
		actions:    make(chan PlayerAction, 8),
		done:       make(chan struct{}),
		rng:        rng,
		params:     params,
		multiplier: 1.0,
	}
}

// beginSettle is the terminal latch: a single check-and-set deciding which of
// the racing triggers (player action, timeout, terminal outcome) wins. All
// later triggers observe false and become no-ops.
func (s *GameSession) beginSettle() bool {
	return s.phase.CompareAndSwap(phaseActive, phaseSettling)
}

// markSettled is the idempotent settlement guard. Only the first caller may
// apply ledger mutations.
func (s *GameSession) markSettled() bool {
	return s.phase.CompareAndSwap(phaseSettling, phaseDone)
}

// IsActive reports whether the session still accepts player actions
func (s *GameSession) IsActive() bool {
	return s.phase.Load() == phaseActive
}

// Done is closed once settlement has completed
func (s *GameSession) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the presentation-facing view of the session state. Mine
// positions are withheld while the session is still active.
func (s *GameSession) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.SessionSnapshot{
		SessionID:  s.ID,
		AccountID:  s.AccountID,
		Kind:       s.Kind,
		Stake:      s.Stake,
		Multiplier: s.multiplier,
		Crashed:    s.crashed,
		Revealed:   len(s.revealed),
		MineCount:  s.mineCount,
		Round:      s.round,
	}

	for pos := range s.revealed {
		snap.RevealedTiles = append(snap.RevealedTiles, pos)
	}
	sort.Ints(snap.RevealedTiles)

	if s.phase.Load() != phaseActive {
		snap.CrashPoint = s.crashPoint
		for pos := range s.mines {
			snap.Mines = append(snap.Mines, pos)
		}
		sort.Ints(snap.Mines)
	}

	return snap
}

// setMultiplier updates the live multiplier under the state lock
func (s *GameSession) setMultiplier(m float64) {
	s.mu.Lock()
	s.multiplier = m
	s.mu.Unlock()
}

// currentMultiplier reads the live multiplier under the state lock
func (s *GameSession) currentMultiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multiplier
}
