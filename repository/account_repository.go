package repository

import (
	"context"
	"fmt"

	"croupier/database"
	"croupier/models"
	"croupier/service"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `
	account_id, username, tokens, credits,
	total_played, total_won, total_lost, total_spent, total_earned,
	total_deposit_amount, total_withdraw_amount,
	created_at, updated_at
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.AccountID,
		&account.Username,
		&account.Tokens,
		&account.Credits,
		&account.TotalPlayed,
		&account.TotalWon,
		&account.TotalLost,
		&account.TotalSpent,
		&account.TotalEarned,
		&account.TotalDepositAmount,
		&account.TotalWithdrawAmount,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its id, returning nil when absent
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}

	return account, nil
}

// Create creates a new account with the given starting token balance
func (r *AccountRepository) Create(ctx context.Context, accountID int64, username string, startingTokens int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (account_id, username, tokens)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID, username, startingTokens))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %d: %w", accountID, err)
	}

	return account, nil
}

// DebitStake atomically removes both legs of a stake from an account. The
// single UPDATE is guarded by both balance predicates so there is no window
// between reading a balance and writing it back.
func (r *AccountRepository) DebitStake(ctx context.Context, accountID int64, stake models.Stake) error {
	if stake.Tokens < 0 || stake.Credits < 0 || stake.Total() <= 0 {
		return fmt.Errorf("stake legs must be non-negative and sum positive")
	}

	query := `
		UPDATE accounts
		SET tokens = tokens - $1, credits = credits - $2, updated_at = NOW()
		WHERE account_id = $3
		  AND tokens >= $1
		  AND credits >= $2
	`

	result, err := r.q.Exec(ctx, query, stake.Tokens, stake.Credits, accountID)
	if err != nil {
		return fmt.Errorf("failed to debit stake for account %d: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		account, err := r.GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return service.ErrAccountNotFound
		}
		return fmt.Errorf("%w: have %d tokens / %d credits, need %d / %d",
			service.ErrInsufficientFunds, account.Tokens, account.Credits, stake.Tokens, stake.Credits)
	}

	return nil
}

// Credit adds to one of an account's balances atomically
func (r *AccountRepository) Credit(ctx context.Context, accountID int64, currency models.Currency, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	column := "tokens"
	if currency == models.CurrencyCredits {
		column = "credits"
	}

	query := fmt.Sprintf(`
		UPDATE accounts
		SET %s = %s + $1, updated_at = NOW()
		WHERE account_id = $2
	`, column, column)

	result, err := r.q.Exec(ctx, query, amount, accountID)
	if err != nil {
		return fmt.Errorf("failed to credit %s for account %d: %w", currency, accountID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}

	return nil
}

// IncrementCounters applies the given deltas to an account's cumulative
// counters in one statement
func (r *AccountRepository) IncrementCounters(ctx context.Context, accountID int64, deltas models.CounterDeltas) error {
	if deltas.IsZero() {
		return nil
	}

	query := `
		UPDATE accounts
		SET total_played = total_played + $1,
		    total_won = total_won + $2,
		    total_lost = total_lost + $3,
		    total_spent = total_spent + $4,
		    total_earned = total_earned + $5,
		    total_deposit_amount = total_deposit_amount + $6,
		    total_withdraw_amount = total_withdraw_amount + $7,
		    updated_at = NOW()
		WHERE account_id = $8
	`

	result, err := r.q.Exec(ctx, query,
		deltas.TotalPlayed,
		deltas.TotalWon,
		deltas.TotalLost,
		deltas.TotalSpent,
		deltas.TotalEarned,
		deltas.TotalDepositAmount,
		deltas.TotalWithdrawAmount,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment counters for account %d: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}

	return nil
}

// GetTop returns the accounts with the highest combined balances
func (r *AccountRepository) GetTop(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY tokens + credits DESC LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
