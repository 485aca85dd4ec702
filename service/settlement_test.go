package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"croupier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettle_WinCreditsPayout(t *testing.T) {
	mockFactory, mockUoW, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, registry := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameCoinflip,
		models.Stake{Tokens: 100}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))
	require.NoError(t, registry.Admit(42, session))

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// wins land in credits even though the stake was tokens
	mockAccountRepo.On("Credit", mock.Anything, int64(42), models.CurrencyCredits, int64(195)).Return(nil)
	mockHistoryRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *models.HistoryEntry) bool {
		return e.AccountID == 42 &&
			e.Type == models.EntryTypeWin &&
			e.Game == models.GameCoinflip &&
			e.BetAmount == 100 &&
			e.Amount == 195 &&
			e.Multiplier != nil && *e.Multiplier == 1.95
	})).Return(nil)
	mockAccountRepo.On("IncrementCounters", mock.Anything, int64(42),
		models.CounterDeltas{TotalWon: 1, TotalEarned: 195}).Return(nil)

	require.True(t, session.beginSettle())
	result := svc.settle(session, models.DispositionWin, 1.95)

	assert.Equal(t, models.DispositionWin, result.Disposition)
	assert.Equal(t, int64(195), result.Payout)

	_, ok := registry.Get(42)
	assert.False(t, ok, "registry slot must be released after settlement")

	select {
	case <-session.Done():
	default:
		t.Fatal("done channel not closed after settlement")
	}

	mockAccountRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestSettle_LossRecordsEntryOnly(t *testing.T) {
	mockFactory, mockUoW, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, registry := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameDice,
		models.Stake{Credits: 250}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))
	require.NoError(t, registry.Admit(42, session))

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockHistoryRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *models.HistoryEntry) bool {
		return e.Type == models.EntryTypeLoss && e.BetAmount == 250 && e.Amount == 250
	})).Return(nil)
	mockAccountRepo.On("IncrementCounters", mock.Anything, int64(42),
		models.CounterDeltas{TotalLost: 1}).Return(nil)

	require.True(t, session.beginSettle())
	result := svc.settle(session, models.DispositionLoss, 0)

	assert.Equal(t, int64(0), result.Payout)
	mockAccountRepo.AssertNumberOfCalls(t, "Credit", 0)
	mockHistoryRepo.AssertExpectations(t)
}

func TestSettle_RefundRestoresStakeComposition(t *testing.T) {
	mockFactory, mockUoW, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, registry := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameCrash,
		models.Stake{Tokens: 30, Credits: 80}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))
	require.NoError(t, registry.Admit(42, session))

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// each leg goes back to the currency it came from
	mockAccountRepo.On("Credit", mock.Anything, int64(42), models.CurrencyTokens, int64(30)).Return(nil)
	mockAccountRepo.On("Credit", mock.Anything, int64(42), models.CurrencyCredits, int64(80)).Return(nil)
	mockAccountRepo.On("IncrementCounters", mock.Anything, int64(42),
		models.CounterDeltas{TotalPlayed: -1, TotalSpent: -110}).Return(nil)

	require.True(t, session.beginSettle())
	result := svc.settle(session, models.DispositionRefund, 0)

	assert.Equal(t, int64(110), result.Payout)
	// a refund never shows up in history
	mockHistoryRepo.AssertNumberOfCalls(t, "Append", 0)
	mockAccountRepo.AssertExpectations(t)
}

func TestSettle_SecondSettleIsNoOp(t *testing.T) {
	mockFactory, mockUoW, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, registry := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameCoinflip,
		models.Stake{Tokens: 100}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))
	require.NoError(t, registry.Admit(42, session))

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockHistoryRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	mockAccountRepo.On("IncrementCounters", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.True(t, session.beginSettle())
	first := svc.settle(session, models.DispositionWin, 2.0)
	second := svc.settle(session, models.DispositionWin, 2.0)

	assert.Equal(t, int64(200), first.Payout)
	assert.Equal(t, int64(0), second.Payout)
	mockAccountRepo.AssertNumberOfCalls(t, "Credit", 1)
	mockHistoryRepo.AssertNumberOfCalls(t, "Append", 1)
}

func TestSettle_WithoutLatchIsNoOp(t *testing.T) {
	mockFactory, _, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, _ := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameCoinflip,
		models.Stake{Tokens: 100}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))

	// the latch never fired, so settlement must not touch the ledger
	result := svc.settle(session, models.DispositionWin, 2.0)

	assert.Equal(t, int64(0), result.Payout)
	mockAccountRepo.AssertNumberOfCalls(t, "Credit", 0)
	mockHistoryRepo.AssertNumberOfCalls(t, "Append", 0)
}

func TestSettle_RetriesTransientFailure(t *testing.T) {
	mockFactory, mockUoW, mockAccountRepo, mockHistoryRepo := newEngineMocks()
	svc, registry := newTestEngine(mockFactory)

	session := newGameSession("s1", 42, models.GameWheel,
		models.Stake{Tokens: 100}, models.GameParams{}, time.Minute,
		rand.New(rand.NewSource(1)))
	require.NoError(t, registry.Admit(42, session))

	mockUoW.On("Begin", mock.Anything).Return(errors.New("connection refused")).Once()
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Credit", mock.Anything, int64(42), models.CurrencyCredits, int64(200)).Return(nil)
	mockHistoryRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	mockAccountRepo.On("IncrementCounters", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.True(t, session.beginSettle())
	result := svc.settle(session, models.DispositionWin, 2.0)

	assert.Equal(t, int64(200), result.Payout)
	mockAccountRepo.AssertNumberOfCalls(t, "Credit", 1)
	mockUoW.AssertNumberOfCalls(t, "Begin", 2)
}
