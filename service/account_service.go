package service

import (
	"context"
	"fmt"

	"croupier/events"
	"croupier/models"
)

type accountService struct {
	uowFactory     UnitOfWorkFactory
	startingTokens int64
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, startingTokens int64) AccountService {
	return &accountService{
		uowFactory:     uowFactory,
		startingTokens: startingTokens,
	}
}

// GetOrCreateAccount retrieves an account, auto-registering it with the
// starting token grant on first contact
func (s *accountService) GetOrCreateAccount(ctx context.Context, accountID int64, username string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account == nil {
		account, err = uow.AccountRepository().Create(ctx, accountID, username, s.startingTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}

		uow.EventBus().Publish(events.AccountCreatedEvent{
			AccountID:      accountID,
			Username:       username,
			StartingTokens: s.startingTokens,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// Tip moves an amount of a single currency from one account to another.
// Both legs happen in one transaction; the debit's balance guard makes an
// overdraw roll the whole transfer back.
func (s *accountService) Tip(ctx context.Context, fromID, toID int64, currency models.Currency, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if fromID == toID {
		return fmt.Errorf("%w: cannot tip yourself", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	recipient, err := uow.AccountRepository().GetByID(ctx, toID)
	if err != nil {
		return fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return ErrAccountNotFound
	}

	debit := models.Stake{}
	if currency == models.CurrencyCredits {
		debit.Credits = amount
	} else {
		debit.Tokens = amount
	}
	if err := uow.AccountRepository().DebitStake(ctx, fromID, debit); err != nil {
		return err
	}

	if err := uow.AccountRepository().Credit(ctx, toID, currency, amount); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	sent := &models.HistoryEntry{
		AccountID: fromID,
		Type:      models.EntryTypeTipSent,
		Amount:    amount,
		Metadata:  map[string]any{"recipient_id": toID, "currency": string(currency)},
	}
	if err := uow.HistoryRepository().Append(ctx, sent); err != nil {
		return fmt.Errorf("failed to append sender history: %w", err)
	}

	received := &models.HistoryEntry{
		AccountID: toID,
		Type:      models.EntryTypeTipReceived,
		Amount:    amount,
		Metadata:  map[string]any{"sender_id": fromID, "currency": string(currency)},
	}
	if err := uow.HistoryRepository().Append(ctx, received); err != nil {
		return fmt.Errorf("failed to append recipient history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    fromID,
		Currency:     currency,
		ChangeAmount: -amount,
		EntryType:    models.EntryTypeTipSent,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    toID,
		Currency:     currency,
		ChangeAmount: amount,
		EntryType:    models.EntryTypeTipReceived,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AdminGrant credits an account outside of normal play and records it
func (s *accountService) AdminGrant(ctx context.Context, accountID int64, currency models.Currency, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if err := uow.AccountRepository().Credit(ctx, accountID, currency, amount); err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	entry := &models.HistoryEntry{
		AccountID: accountID,
		Type:      models.EntryTypeAdminAdd,
		Amount:    amount,
		Metadata:  map[string]any{"currency": string(currency)},
	}
	if err := uow.HistoryRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		Currency:     currency,
		ChangeAmount: amount,
		EntryType:    models.EntryTypeAdminAdd,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHistory returns an account's recent entries, newest first
func (s *accountService) GetHistory(ctx context.Context, accountID int64, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 || limit > models.HistoryLimit {
		limit = models.HistoryLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.HistoryRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entries, nil
}

// GetTopAccounts returns the richest accounts by combined balance
func (s *accountService) GetTopAccounts(ctx context.Context, limit int) ([]*models.Account, error) {
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return accounts, nil
}
