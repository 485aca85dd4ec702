package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"croupier/events"
	"croupier/models"

	log "github.com/sirupsen/logrus"
)

const (
	settleAttempts       = 3
	settleAttemptTimeout = 10 * time.Second
)

// settle applies a session's terminal outcome to the ledger exactly once.
// Wins are always credited to credits regardless of the stake composition;
// refunds restore the exact stake legs and reverse the wager counters without
// leaving a history entry. The registry slot is released and the settled
// event emitted no matter how the ledger write goes.
func (s *casinoService) settle(session *GameSession, disposition models.Disposition, multiplier float64) models.SettlementResult {
	result := models.SettlementResult{
		SessionID:   session.ID,
		AccountID:   session.AccountID,
		Kind:        session.Kind,
		Disposition: disposition,
		Stake:       session.Stake,
		Multiplier:  multiplier,
	}

	if !session.markSettled() {
		return result
	}

	switch disposition {
	case models.DispositionWin:
		result.Payout = int64(math.Round(float64(session.Stake.Total()) * multiplier))
	case models.DispositionRefund:
		result.Payout = session.Stake.Total()
	}

	defer func() {
		s.registry.Release(session.AccountID)
		close(session.done)
		s.eventBus.Emit(context.Background(), events.SessionSettledEvent{
			SessionID: session.ID,
			AccountID: session.AccountID,
			Result:    result,
		})
	}()

	var lastErr error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), settleAttemptTimeout)
		lastErr = s.applySettlement(ctx, session, &result)
		cancel()
		if lastErr == nil {
			return result
		}

		log.WithFields(log.Fields{
			"sessionID":   session.ID,
			"accountID":   session.AccountID,
			"disposition": disposition,
			"attempt":     attempt,
		}).WithError(lastErr).Warn("Settlement attempt failed")
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}

	// The outcome is latched but the ledger write never landed. Surface it
	// loudly for manual reconciliation instead of silently dropping funds.
	log.WithFields(log.Fields{
		"sessionID":   session.ID,
		"accountID":   session.AccountID,
		"kind":        session.Kind,
		"disposition": disposition,
		"stake":       session.Stake.Total(),
		"payout":      result.Payout,
	}).WithError(fmt.Errorf("%w: %v", ErrSettlementFailure, lastErr)).
		Error("Settlement failed permanently, manual reconciliation required")

	return result
}

// applySettlement performs the single transactional ledger write for a
// terminal disposition
func (s *casinoService) applySettlement(ctx context.Context, session *GameSession, result *models.SettlementResult) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	accountID := session.AccountID
	stakeTotal := session.Stake.Total()

	switch result.Disposition {
	case models.DispositionWin:
		if err := uow.AccountRepository().Credit(ctx, accountID, models.CurrencyCredits, result.Payout); err != nil {
			return fmt.Errorf("failed to credit payout: %w", err)
		}

		multiplier := result.Multiplier
		entry := &models.HistoryEntry{
			AccountID:  accountID,
			Type:       models.EntryTypeWin,
			Game:       session.Kind,
			BetAmount:  stakeTotal,
			Amount:     result.Payout,
			Multiplier: &multiplier,
		}
		if err := uow.HistoryRepository().Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}

		deltas := models.CounterDeltas{TotalWon: 1, TotalEarned: result.Payout}
		if err := uow.AccountRepository().IncrementCounters(ctx, accountID, deltas); err != nil {
			return fmt.Errorf("failed to update counters: %w", err)
		}

		uow.EventBus().Publish(events.BalanceChangeEvent{
			AccountID:    accountID,
			Currency:     models.CurrencyCredits,
			ChangeAmount: result.Payout,
			EntryType:    models.EntryTypeWin,
		})

	case models.DispositionLoss:
		entry := &models.HistoryEntry{
			AccountID: accountID,
			Type:      models.EntryTypeLoss,
			Game:      session.Kind,
			BetAmount: stakeTotal,
			Amount:    stakeTotal,
		}
		if err := uow.HistoryRepository().Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}

		if err := uow.AccountRepository().IncrementCounters(ctx, accountID, models.CounterDeltas{TotalLost: 1}); err != nil {
			return fmt.Errorf("failed to update counters: %w", err)
		}

	case models.DispositionRefund:
		// Restore the exact composition that was debited. A refund leaves
		// no history entry and reverses the wager counters, as if the
		// session had never run.
		if session.Stake.Tokens > 0 {
			if err := uow.AccountRepository().Credit(ctx, accountID, models.CurrencyTokens, session.Stake.Tokens); err != nil {
				return fmt.Errorf("failed to refund tokens: %w", err)
			}
			uow.EventBus().Publish(events.BalanceChangeEvent{
				AccountID:    accountID,
				Currency:     models.CurrencyTokens,
				ChangeAmount: session.Stake.Tokens,
			})
		}
		if session.Stake.Credits > 0 {
			if err := uow.AccountRepository().Credit(ctx, accountID, models.CurrencyCredits, session.Stake.Credits); err != nil {
				return fmt.Errorf("failed to refund credits: %w", err)
			}
			uow.EventBus().Publish(events.BalanceChangeEvent{
				AccountID:    accountID,
				Currency:     models.CurrencyCredits,
				ChangeAmount: session.Stake.Credits,
			})
		}

		deltas := models.CounterDeltas{TotalPlayed: -1, TotalSpent: -stakeTotal}
		if err := uow.AccountRepository().IncrementCounters(ctx, accountID, deltas); err != nil {
			return fmt.Errorf("failed to update counters: %w", err)
		}

	default:
		return fmt.Errorf("unknown disposition %q", result.Disposition)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}
