package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"croupier/config"
	"croupier/events"
	"croupier/games"
	"croupier/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultMineCount = 3

type casinoService struct {
	uowFactory UnitOfWorkFactory
	registry   *SessionRegistry
	eventBus   *events.Bus
	cfg        *config.Config

	// newRNG is swappable so tests can run deterministic outcomes
	newRNG func() *rand.Rand
}

// NewCasinoService creates the wagering session engine
func NewCasinoService(uowFactory UnitOfWorkFactory, registry *SessionRegistry, eventBus *events.Bus, cfg *config.Config) CasinoService {
	return &casinoService{
		uowFactory: uowFactory,
		registry:   registry,
		eventBus:   eventBus,
		cfg:        cfg,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Play validates a wager, atomically reserves the stake and admits a session.
// The debit and the registry admission form one logical unit: an admission
// collision rolls the debit back before anything is visible.
func (s *casinoService) Play(ctx context.Context, req WagerRequest) (*PlayReceipt, error) {
	params, err := normalizeParams(req.Kind, req.Params)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	amount, err := ParseWagerAmount(req.RawAmount, availableFor(account, req.CurrencyHint))
	if err != nil {
		return nil, err
	}

	stake, err := AllocateStake(account, amount, req.CurrencyHint)
	if err != nil {
		return nil, err
	}

	if err := uow.AccountRepository().DebitStake(ctx, req.AccountID, stake); err != nil {
		return nil, err
	}

	// Stats move with the debit so downstream consumers see the wager even
	// before the outcome is known
	deltas := models.CounterDeltas{TotalPlayed: 1, TotalSpent: stake.Total()}
	if err := uow.AccountRepository().IncrementCounters(ctx, req.AccountID, deltas); err != nil {
		return nil, fmt.Errorf("failed to update counters: %w", err)
	}

	publishStakeDebit(uow.EventBus(), req.AccountID, stake)

	session := newGameSession(uuid.NewString(), req.AccountID, req.Kind, stake, params, s.deadlineFor(req.Kind), s.newRNG())
	s.prepareOutcome(session)

	if err := s.registry.Admit(req.AccountID, session); err != nil {
		// deferred rollback undoes the debit
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		s.registry.Release(req.AccountID)
		return nil, fmt.Errorf("failed to commit wager: %w", err)
	}

	s.eventBus.Emit(ctx, events.SessionStartedEvent{
		SessionID: session.ID,
		AccountID: session.AccountID,
		Kind:      session.Kind,
		Stake:     session.Stake,
	})

	receipt := &PlayReceipt{
		SessionID: session.ID,
		Stake:     stake,
		Snapshot:  session.Snapshot(),
	}

	switch req.Kind {
	case models.GameCrash:
		go s.runCrash(session)
	case models.GameMines:
		go s.runMines(session)
	case models.GameStreak:
		go s.runStreak(session)
	default:
		result := s.playInstant(session)
		receipt.Result = &result
		receipt.Snapshot = session.Snapshot()
	}

	return receipt, nil
}

// SubmitAction delivers a player action to the account's live session. Late
// actions, arriving once the terminal latch has fired, are dropped rather
// than queued.
func (s *casinoService) SubmitAction(accountID int64, action PlayerAction) error {
	session, ok := s.registry.Get(accountID)
	if !ok {
		return ErrNoActiveSession
	}
	if !session.IsActive() {
		return ErrNoActiveSession
	}

	select {
	case session.actions <- action:
		return nil
	default:
		// channel full means a terminal trigger is racing ahead; the
		// action loses deterministically
		return nil
	}
}

// ActiveSession returns a snapshot of the account's live session
func (s *casinoService) ActiveSession(accountID int64) (*models.SessionSnapshot, bool) {
	session, ok := s.registry.Get(accountID)
	if !ok {
		return nil, false
	}
	snap := session.Snapshot()
	return &snap, true
}

func (s *casinoService) deadlineFor(kind models.GameKind) time.Duration {
	if kind == models.GameCrash {
		return s.cfg.CrashDeadline
	}
	return s.cfg.InteractiveDeadline
}

// prepareOutcome fixes the session's randomized outcome up front. Generation
// failures degrade to the conservative fallback so the session can still
// terminate and settle.
func (s *casinoService) prepareOutcome(session *GameSession) {
	switch session.Kind {
	case models.GameCrash:
		point, err := games.SafeCrashPoint(session.rng)
		if err != nil {
			log.WithFields(log.Fields{
				"sessionID": session.ID,
				"accountID": session.AccountID,
			}).WithError(err).Warn("Crash point generation failed, using fallback")
		}
		session.crashPoint = point
	case models.GameMines:
		session.mineCount = session.params.MineCount
		layout, err := games.SafePlaceMines(session.rng, session.mineCount)
		if err != nil {
			log.WithFields(log.Fields{
				"sessionID": session.ID,
				"accountID": session.AccountID,
			}).WithError(err).Warn("Mine placement failed, using fallback layout")
		}
		session.mines = make(map[int]bool, len(layout))
		for _, pos := range layout {
			session.mines[pos] = true
		}
		session.revealed = make(map[int]bool)
	}
}

func normalizeParams(kind models.GameKind, params models.GameParams) (models.GameParams, error) {
	switch kind {
	case models.GameCoinflip:
		side := strings.ToLower(strings.TrimSpace(params.CoinSide))
		if side != string(games.Heads) && side != string(games.Tails) {
			return params, fmt.Errorf("coin side must be heads or tails")
		}
		params.CoinSide = side
	case models.GameMines:
		if params.MineCount == 0 {
			params.MineCount = defaultMineCount
		}
		if params.MineCount < 1 || params.MineCount > games.MinesMaxCount {
			return params, fmt.Errorf("mine count must be between 1 and %d", games.MinesMaxCount)
		}
	case models.GamePenalty:
		dir := games.Direction(strings.ToLower(strings.TrimSpace(params.ShotDirection)))
		if dir != games.DirectionLeft && dir != games.DirectionMiddle && dir != games.DirectionRight {
			return params, fmt.Errorf("shot direction must be left, middle or right")
		}
		params.ShotDirection = string(dir)
	case models.GameDice, models.GameCrash, models.GameWheel, models.GamePlinko, models.GameStreak:
	default:
		return params, fmt.Errorf("unsupported game kind %q", kind)
	}
	return params, nil
}

// playInstant resolves the single-draw games synchronously. A panic anywhere
// in resolution refunds the stake.
func (s *casinoService) playInstant(session *GameSession) (result models.SettlementResult) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"sessionID": session.ID,
				"accountID": session.AccountID,
				"panic":     r,
			}).Error("Instant game resolution panicked, refunding stake")
			if session.beginSettle() {
				result = s.settle(session, models.DispositionRefund, 0)
			}
		}
	}()

	var won bool
	var multiplier float64

	switch session.Kind {
	case models.GameCoinflip:
		side := games.FlipCoin(session.rng)
		won = string(side) == session.params.CoinSide
		multiplier = games.CoinflipMultiplier
	case models.GameDice:
		roll := games.RollDice(session.rng)
		won = roll.PlayerWins()
		multiplier = games.DiceMultiplier
	case models.GameWheel:
		_, mult := games.SpinWheel(session.rng)
		won = mult > 0
		multiplier = mult
	case models.GamePenalty:
		_, goal := games.PenaltyShot(session.rng, games.Direction(session.params.ShotDirection))
		won = goal
		multiplier = games.PenaltyMultiplier
	case models.GamePlinko:
		_, _, mult := games.DropBall(session.rng)
		won = mult > 0
		multiplier = mult
	}

	if !session.beginSettle() {
		return models.SettlementResult{}
	}

	if won {
		session.setMultiplier(multiplier)
		return s.settle(session, models.DispositionWin, multiplier)
	}
	return s.settle(session, models.DispositionLoss, 0)
}

// runCrash drives the crash multiplier upward on a timer. Each tick checks
// the pending cash-out before advancing, so a cash-out registered ahead of a
// crash tick always wins the race.
func (s *casinoService) runCrash(session *GameSession) {
	defer s.recoverToRefund(session)

	ticker := time.NewTicker(s.cfg.CrashTickInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(time.Until(session.Deadline))
	defer deadline.Stop()

	for {
		select {
		case action := <-session.actions:
			if action.Kind != ActionCashOut {
				continue
			}
			if session.beginSettle() {
				s.settle(session, models.DispositionWin, round2(session.currentMultiplier()))
			}
			return

		case <-ticker.C:
			// cash-outs registered before this tick take precedence
			// over the crash check
			select {
			case action := <-session.actions:
				if action.Kind == ActionCashOut {
					if session.beginSettle() {
						s.settle(session, models.DispositionWin, round2(session.currentMultiplier()))
					}
					return
				}
			default:
			}

			next := round2(session.currentMultiplier() + s.cfg.CrashMultiplierStep)
			if next >= session.crashPoint {
				session.mu.Lock()
				session.multiplier = session.crashPoint
				session.crashed = true
				session.mu.Unlock()
				if session.beginSettle() {
					s.settle(session, models.DispositionLoss, session.crashPoint)
				}
				return
			}

			session.setMultiplier(next)
			s.emitTick(session)

		case <-deadline.C:
			// an unattended crash session forfeits like a crash
			if session.beginSettle() {
				s.settle(session, s.timeoutDisposition(false), 0)
			}
			return
		}
	}
}

// runMines waits for tile picks until a mine is hit, the board is cleared,
// the player cashes out or the deadline passes
func (s *casinoService) runMines(session *GameSession) {
	defer s.recoverToRefund(session)

	deadline := time.NewTimer(time.Until(session.Deadline))
	defer deadline.Stop()

	safeCells := games.MinesGridSize - session.mineCount

	for {
		select {
		case action := <-session.actions:
			switch action.Kind {
			case ActionPick:
				if action.Tile < 0 || action.Tile >= games.MinesGridSize {
					continue
				}
				session.mu.Lock()
				alreadyRevealed := session.revealed[action.Tile]
				session.mu.Unlock()
				if alreadyRevealed {
					continue
				}

				if session.mines[action.Tile] {
					if session.beginSettle() {
						s.settle(session, models.DispositionLoss, 0)
					}
					return
				}

				session.mu.Lock()
				session.revealed[action.Tile] = true
				revealed := len(session.revealed)
				session.multiplier = games.MinesMultiplier(revealed, session.mineCount)
				session.mu.Unlock()

				if revealed == safeCells {
					// full clear
					if session.beginSettle() {
						s.settle(session, models.DispositionWin, session.currentMultiplier())
					}
					return
				}
				s.emitTick(session)

			case ActionCashOut:
				session.mu.Lock()
				revealed := len(session.revealed)
				session.mu.Unlock()
				if revealed == 0 {
					// cash-out is only legal once a tile is revealed
					continue
				}
				if session.beginSettle() {
					s.settle(session, models.DispositionWin, session.currentMultiplier())
				}
				return
			}

		case <-deadline.C:
			session.mu.Lock()
			revealed := len(session.revealed)
			session.mu.Unlock()
			if revealed > 0 {
				// partial progress auto-cashes-out at the accrued multiplier
				if session.beginSettle() {
					s.settle(session, models.DispositionWin, session.currentMultiplier())
				}
			} else if session.beginSettle() {
				s.settle(session, s.timeoutDisposition(false), 0)
			}
			return
		}
	}
}

// runStreak plays progressive coinflip: each correct guess multiplies the
// accrued payout by 1.96 until the player cashes out, guesses wrong or hits
// the round cap, which forces a win at the accrued multiplier
func (s *casinoService) runStreak(session *GameSession) {
	defer s.recoverToRefund(session)

	deadline := time.NewTimer(time.Until(session.Deadline))
	defer deadline.Stop()

	for {
		select {
		case action := <-session.actions:
			switch action.Kind {
			case ActionGuess:
				guess := strings.ToLower(strings.TrimSpace(action.Guess))
				if guess != string(games.Heads) && guess != string(games.Tails) {
					continue
				}

				side := games.FlipCoin(session.rng)
				if string(side) != guess {
					if session.beginSettle() {
						s.settle(session, models.DispositionLoss, 0)
					}
					return
				}

				session.mu.Lock()
				session.round++
				round := session.round
				session.multiplier = games.StreakPayout(round)
				session.mu.Unlock()

				if round >= games.StreakMaxRounds {
					if session.beginSettle() {
						s.settle(session, models.DispositionWin, session.currentMultiplier())
					}
					return
				}
				s.emitTick(session)

			case ActionCashOut:
				session.mu.Lock()
				round := session.round
				session.mu.Unlock()
				if round == 0 {
					continue
				}
				if session.beginSettle() {
					s.settle(session, models.DispositionWin, session.currentMultiplier())
				}
				return
			}

		case <-deadline.C:
			session.mu.Lock()
			round := session.round
			session.mu.Unlock()
			if round > 0 {
				if session.beginSettle() {
					s.settle(session, models.DispositionWin, session.currentMultiplier())
				}
			} else if session.beginSettle() {
				s.settle(session, s.timeoutDisposition(false), 0)
			}
			return
		}
	}
}

// timeoutDisposition resolves the configured policy for sessions that time
// out without progress
func (s *casinoService) timeoutDisposition(hasProgress bool) models.Disposition {
	if hasProgress || s.cfg.TimeoutForfeitsStake {
		return models.DispositionLoss
	}
	return models.DispositionRefund
}

// recoverToRefund converts a run-loop panic into the unconditional refund
// path: the stake goes back uncounted and unrecorded
func (s *casinoService) recoverToRefund(session *GameSession) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"sessionID": session.ID,
			"accountID": session.AccountID,
			"kind":      session.Kind,
			"panic":     r,
		}).Error("Session run loop panicked, refunding stake")
		if session.beginSettle() {
			s.settle(session, models.DispositionRefund, 0)
			return
		}
		// the latch already fired; make sure the slot is not leaked
		s.registry.Release(session.AccountID)
	}
}

func (s *casinoService) emitTick(session *GameSession) {
	s.eventBus.Emit(context.Background(), events.SessionTickEvent{
		SessionID: session.ID,
		AccountID: session.AccountID,
		Snapshot:  session.Snapshot(),
	})
}

func publishStakeDebit(bus EventPublisher, accountID int64, stake models.Stake) {
	if stake.Tokens > 0 {
		bus.Publish(events.BalanceChangeEvent{
			AccountID:    accountID,
			Currency:     models.CurrencyTokens,
			ChangeAmount: -stake.Tokens,
		})
	}
	if stake.Credits > 0 {
		bus.Publish(events.BalanceChangeEvent{
			AccountID:    accountID,
			Currency:     models.CurrencyCredits,
			ChangeAmount: -stake.Credits,
		})
	}
}
