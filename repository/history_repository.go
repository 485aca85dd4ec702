package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"croupier/database"
	"croupier/models"
)

// HistoryRepository implements the HistoryRepository interface
type HistoryRepository struct {
	q queryable
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{q: db.Pool}
}

// newHistoryRepositoryWithTx creates a new history repository with a transaction
func newHistoryRepositoryWithTx(tx queryable) *HistoryRepository {
	return &HistoryRepository{q: tx}
}

// Append inserts a history entry and evicts anything beyond the most recent
// HistoryLimit entries for the account, oldest first
func (r *HistoryRepository) Append(ctx context.Context, entry *models.HistoryEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	query := `
		INSERT INTO history (account_id, entry_type, game, bet_amount, amount, multiplier, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Type,
		entry.Game,
		entry.BetAmount,
		entry.Amount,
		entry.Multiplier,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	truncate := `
		DELETE FROM history
		WHERE account_id = $1
		  AND id NOT IN (
			SELECT id FROM history
			WHERE account_id = $1
			ORDER BY id DESC
			LIMIT $2
		  )
	`

	if _, err := r.q.Exec(ctx, truncate, entry.AccountID, models.HistoryLimit); err != nil {
		return fmt.Errorf("failed to truncate history for account %d: %w", entry.AccountID, err)
	}

	return nil
}

// GetByAccount returns the most recent history entries for an account, newest
// first
func (r *HistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.HistoryEntry, error) {
	query := `
		SELECT id, account_id, entry_type, game, bet_amount, amount, multiplier, metadata, created_at
		FROM history
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Type,
			&entry.Game,
			&entry.BetAmount,
			&entry.Amount,
			&entry.Multiplier,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entry metadata: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history entries: %w", err)
	}

	return entries, nil
}

// CountByAccount returns the number of retained history entries for an account
func (r *HistoryRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM history WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history for account %d: %w", accountID, err)
	}
	return count, nil
}
