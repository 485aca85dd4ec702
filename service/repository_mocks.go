package service

import (
	"context"

	"croupier/events"
	"croupier/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, accountID int64, username string, startingTokens int64) (*models.Account, error) {
	args := m.Called(ctx, accountID, username, startingTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) DebitStake(ctx context.Context, accountID int64, stake models.Stake) error {
	args := m.Called(ctx, accountID, stake)
	return args.Error(0)
}

func (m *MockAccountRepository) Credit(ctx context.Context, accountID int64, currency models.Currency, amount int64) error {
	args := m.Called(ctx, accountID, currency, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementCounters(ctx context.Context, accountID int64, deltas models.CounterDeltas) error {
	args := m.Called(ctx, accountID, deltas)
	return args.Error(0)
}

func (m *MockAccountRepository) GetTop(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *models.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.HistoryEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher discards events; used when a test does not configure a
// publisher on the mock unit of work
type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields set via SetRepositories so getters work without expectations.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo AccountRepository
	historyRepo HistoryRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, historyRepo HistoryRepository, eventBus EventPublisher) {
	m.accountRepo = accountRepo
	m.historyRepo = historyRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) HistoryRepository() HistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
