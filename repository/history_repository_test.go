package repository

import (
	"context"
	"fmt"
	"testing"

	"croupier/models"
	"croupier/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_AppendAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	accountRepo := NewAccountRepository(testDB.DB)
	historyRepo := NewHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "player", 1000)
	require.NoError(t, err)

	multiplier := 1.95
	entry := &models.HistoryEntry{
		AccountID:  100,
		Type:       models.EntryTypeWin,
		Game:       models.GameCoinflip,
		BetAmount:  100,
		Amount:     195,
		Multiplier: &multiplier,
		Metadata:   map[string]any{"side": "heads"},
	}

	err = historyRepo.Append(ctx, entry)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := historyRepo.GetByAccount(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, models.EntryTypeWin, got.Type)
	assert.Equal(t, models.GameCoinflip, got.Game)
	assert.Equal(t, int64(100), got.BetAmount)
	assert.Equal(t, int64(195), got.Amount)
	require.NotNil(t, got.Multiplier)
	assert.Equal(t, 1.95, *got.Multiplier)
	assert.Equal(t, "heads", got.Metadata["side"])
}

func TestHistoryRepository_NewestFirst(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	accountRepo := NewAccountRepository(testDB.DB)
	historyRepo := NewHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "player", 1000)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		entry := testutil.CreateTestHistoryEntryWithAmounts(100, models.EntryTypeLoss, int64(i), int64(i))
		require.NoError(t, historyRepo.Append(ctx, entry))
	}

	entries, err := historyRepo.GetByAccount(ctx, 100, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(5), entries[0].Amount)
	assert.Equal(t, int64(4), entries[1].Amount)
	assert.Equal(t, int64(3), entries[2].Amount)
}

func TestHistoryRepository_TruncatesToLimit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	accountRepo := NewAccountRepository(testDB.DB)
	historyRepo := NewHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "player", 1000)
	require.NoError(t, err)
	// a second account's history must be untouched by truncation
	_, err = accountRepo.Create(ctx, 200, "bystander", 1000)
	require.NoError(t, err)
	require.NoError(t, historyRepo.Append(ctx, testutil.CreateTestHistoryEntry(200, models.EntryTypeWin)))

	// seed in a single transaction to keep the test fast
	total := models.HistoryLimit + 5
	err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newHistoryRepositoryWithTx(tx)
		for i := 1; i <= total; i++ {
			entry := &models.HistoryEntry{
				AccountID: 100,
				Type:      models.EntryTypeLoss,
				Game:      models.GameDice,
				BetAmount: int64(i),
				Amount:    int64(i),
				Metadata:  map[string]any{"seq": fmt.Sprintf("%d", i)},
			}
			if err := txRepo.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	count, err := historyRepo.CountByAccount(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, models.HistoryLimit, count)

	entries, err := historyRepo.GetByAccount(ctx, 100, models.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, entries, models.HistoryLimit)

	// the newest survives, the oldest five are gone
	assert.Equal(t, int64(total), entries[0].Amount)
	assert.Equal(t, int64(6), entries[len(entries)-1].Amount)

	otherCount, err := historyRepo.CountByAccount(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, otherCount)
}
