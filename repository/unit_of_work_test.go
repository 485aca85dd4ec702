package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"croupier/events"
	"croupier/models"
	"croupier/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	accountRepo := NewAccountRepository(testDB.DB)
	_, err := accountRepo.Create(ctx, 100, "player", 1000)
	require.NoError(t, err)

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	require.NoError(t, uow.AccountRepository().DebitStake(ctx, 100, models.Stake{Tokens: 500}))
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    100,
		Currency:     models.CurrencyTokens,
		ChangeAmount: -500,
	})

	require.NoError(t, uow.Rollback())

	account, err := accountRepo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.Tokens, "rolled back debit must not be visible")

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, delivered, "events published inside a rolled back transaction must not fire")
	mu.Unlock()
}

func TestUnitOfWork_CommitPersistsWritesAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.BalanceChangeEvent, 1)
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			received <- e
		}
	})

	accountRepo := NewAccountRepository(testDB.DB)
	_, err := accountRepo.Create(ctx, 100, "player", 1000)
	require.NoError(t, err)

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	require.NoError(t, uow.AccountRepository().DebitStake(ctx, 100, models.Stake{Tokens: 300}))
	require.NoError(t, uow.HistoryRepository().Append(ctx, &models.HistoryEntry{
		AccountID: 100,
		Type:      models.EntryTypeLoss,
		Game:      models.GameDice,
		BetAmount: 300,
		Amount:    300,
	}))
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    100,
		Currency:     models.CurrencyTokens,
		ChangeAmount: -300,
	})

	require.NoError(t, uow.Commit())

	account, err := accountRepo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(700), account.Tokens)

	historyRepo := NewHistoryRepository(testDB.DB)
	count, err := historyRepo.CountByAccount(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	select {
	case e := <-received:
		assert.Equal(t, int64(-300), e.ChangeAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("balance change event not delivered after commit")
	}
}

func TestUnitOfWork_RepositoriesPanicBeforeBegin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	uow := factory.Create()

	assert.Panics(t, func() { uow.AccountRepository() })
	assert.Panics(t, func() { uow.HistoryRepository() })
}
