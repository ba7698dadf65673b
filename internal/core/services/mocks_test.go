package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	"github.com/chapterfin/chapterledger/internal/dto"
)

// MockTransactionRepository is a mock for TransactionRepositoryFacade.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionsByAccountUpTo(ctx context.Context, bankAccountID string, cutoff time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, bankAccountID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindDuesMemberIDsByYear(ctx context.Context, year int, status domain.TransactionStatus) ([]string, error) {
	args := m.Called(ctx, year, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) FindMembershipTransactionsByYear(ctx context.Context, year int) ([]domain.Transaction, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatuses(ctx context.Context, transactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionIDs, status, updatedBy, updatedAt)
	return args.Error(0)
}

// MockSplitRepository is a mock for SplitRepositoryFacade.
type MockSplitRepository struct {
	mock.Mock
}

func (m *MockSplitRepository) FindSplitByID(ctx context.Context, splitID string) (*domain.TransactionSplit, error) {
	args := m.Called(ctx, splitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionSplit), args.Error(1)
}

func (m *MockSplitRepository) FindSplitsByParentID(ctx context.Context, parentTransactionID string) ([]domain.TransactionSplit, error) {
	args := m.Called(ctx, parentTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionSplit), args.Error(1)
}

func (m *MockSplitRepository) FindSplitsByParentIDs(ctx context.Context, parentTransactionIDs []string) (map[string][]domain.TransactionSplit, error) {
	args := m.Called(ctx, parentTransactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.TransactionSplit), args.Error(1)
}

func (m *MockSplitRepository) SaveSplit(ctx context.Context, split domain.TransactionSplit) error {
	args := m.Called(ctx, split)
	return args.Error(0)
}

func (m *MockSplitRepository) UpdateSplit(ctx context.Context, split domain.TransactionSplit) error {
	args := m.Called(ctx, split)
	return args.Error(0)
}

func (m *MockSplitRepository) DeleteSplit(ctx context.Context, splitID string) error {
	args := m.Called(ctx, splitID)
	return args.Error(0)
}

func (m *MockSplitRepository) UpdateSplitStatusesByParentIDs(ctx context.Context, parentTransactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, parentTransactionIDs, status, updatedBy, updatedAt)
	return args.Error(0)
}

// MockBankAccountRepository is a mock for BankAccountRepositoryFacade.
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockReconciliationRepository is a mock for ReconciliationRepositoryFacade.
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveReconciliationRecord(ctx context.Context, record domain.ReconciliationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReconciliationRepository) ListReconciliationRecordsByAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRecord), args.Error(1)
}

// MockInventoryRepository is a mock for InventoryRepositoryFacade.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindMovementByReferenceID(ctx context.Context, referenceID string) (*domain.StockMovement, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockInventoryRepository) FindMovementsByItemID(ctx context.Context, itemID string) ([]domain.StockMovement, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockInventoryRepository) SaveMovement(ctx context.Context, movement domain.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateMovement(ctx context.Context, movement domain.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteMovement(ctx context.Context, movementID string) error {
	args := m.Called(ctx, movementID)
	return args.Error(0)
}

// MockMemberRepository is a mock for MemberRepositoryFacade.
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	args := m.Called(ctx, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, filter portsrepo.MemberFilter) ([]domain.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// MockBalanceService is a mock for BalanceSvcFacade.
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) ComputeBalance(ctx context.Context, bankAccountID string, asOf time.Time, bucketFilter *domain.Bucket) (*domain.Balance, error) {
	args := m.Called(ctx, bankAccountID, asOf, bucketFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

// MockInventoryService is a mock for InventorySvcFacade.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) SyncOnCreate(ctx context.Context, txn domain.Transaction, actor string) error {
	args := m.Called(ctx, txn, actor)
	return args.Error(0)
}

func (m *MockInventoryService) SyncOnUpdate(ctx context.Context, oldTxn, newTxn domain.Transaction, actor string) error {
	args := m.Called(ctx, oldTxn, newTxn, actor)
	return args.Error(0)
}

func (m *MockInventoryService) SyncOnDelete(ctx context.Context, txn domain.Transaction, actor string) error {
	args := m.Called(ctx, txn, actor)
	return args.Error(0)
}

func (m *MockInventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest, actor string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) AdjustStock(ctx context.Context, itemID string, req dto.AdjustStockRequest, actor string) (*domain.StockMovement, error) {
	args := m.Called(ctx, itemID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockInventoryService) GetStockCard(ctx context.Context, itemID string) (*dto.StockCard, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StockCard), args.Error(1)
}

// MockNotifier is a mock for Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDuesRenewal(ctx context.Context, member domain.Member, amount decimal.Decimal, year int) error {
	args := m.Called(ctx, member, amount, year)
	return args.Error(0)
}

func (m *MockNotifier) NotifyDuesReminder(ctx context.Context, member domain.Member, txn domain.Transaction, daysOverdue int) error {
	args := m.Called(ctx, member, txn, daysOverdue)
	return args.Error(0)
}
