package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockBankAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockSplitRepo   *MockSplitRepository
	service         portssvc.BalanceSvcFacade
	asOf            time.Time
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockBankAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockSplitRepo = new(MockSplitRepository)
	suite.service = services.NewBalanceService(suite.mockAccountRepo, suite.mockTxnRepo, suite.mockSplitRepo)
	suite.asOf = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
}

func (suite *BalanceServiceTestSuite) account(initial string) *domain.BankAccount {
	return &domain.BankAccount{
		BankAccountID:  "acc-1",
		Name:           "Chapter Checking",
		Currency:       "USD",
		InitialBalance: decimal.RequireFromString(initial),
	}
}

func txn(id string, txnType domain.TransactionType, category domain.Category, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Amount:        decimal.RequireFromString(amount),
		Type:          txnType,
		Category:      category,
		Status:        domain.StatusCleared,
		BankAccountID: "acc-1",
	}
}

func (suite *BalanceServiceTestSuite) TestComputeBalanceSumsSignedAmounts() {
	ctx := context.Background()
	txns := []domain.Transaction{
		txn("txn-1", domain.Income, domain.CategoryMembership, "500"),
		txn("txn-2", domain.Expense, domain.CategoryAdministrative, "200"),
	}
	suite.mockAccountRepo.On("FindBankAccountByID", ctx, "acc-1").Return(suite.account("1000"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByAccountUpTo", ctx, "acc-1", suite.asOf).Return(txns, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, "acc-1", suite.asOf, nil)

	suite.Require().NoError(err)
	suite.True(balance.Total.Equal(decimal.RequireFromString("1300")), "got %s", balance.Total)
	suite.True(balance.ByBucket[domain.BucketDues].Equal(decimal.RequireFromString("500")))
	suite.True(balance.ByBucket[domain.BucketOperations].Equal(decimal.RequireFromString("-200")))
	suite.True(balance.ByBucket[domain.BucketProject].IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestComputeBalanceOrderIndependent() {
	ctx := context.Background()
	forward := []domain.Transaction{
		txn("txn-1", domain.Income, domain.CategoryMembership, "500"),
		txn("txn-2", domain.Expense, domain.CategoryAdministrative, "200"),
		txn("txn-3", domain.Expense, domain.CategoryProjects, "75.50"),
	}
	reversed := []domain.Transaction{forward[2], forward[0], forward[1]}

	suite.mockAccountRepo.On("FindBankAccountByID", ctx, "acc-1").Return(suite.account("1000"), nil).Twice()
	suite.mockTxnRepo.On("FindTransactionsByAccountUpTo", ctx, "acc-1", suite.asOf).Return(forward, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByAccountUpTo", ctx, "acc-1", suite.asOf).Return(reversed, nil).Once()

	first, err := suite.service.ComputeBalance(ctx, "acc-1", suite.asOf, nil)
	suite.Require().NoError(err)
	second, err := suite.service.ComputeBalance(ctx, "acc-1", suite.asOf, nil)
	suite.Require().NoError(err)

	suite.True(first.Total.Equal(second.Total))
	for bucket, amount := range first.ByBucket {
		suite.True(amount.Equal(second.ByBucket[bucket]), "bucket %s diverged", bucket)
	}
}

func (suite *BalanceServiceTestSuite) TestComputeBalanceExpandsSplitParents() {
	ctx := context.Background()
	parent := txn("txn-split", domain.Expense, domain.CategoryUnset, "100")
	parent.IsSplit = true
	parent.SplitIDs = []string{"split-1", "split-2"}
	txns := []domain.Transaction{parent}

	splits := map[string][]domain.TransactionSplit{
		"txn-split": {
			{SplitID: "split-1", ParentTransactionID: "txn-split", Category: domain.CategoryProjects, Amount: decimal.RequireFromString("40")},
			{SplitID: "split-2", ParentTransactionID: "txn-split", Category: domain.CategoryAdministrative, Amount: decimal.RequireFromString("60")},
		},
	}

	suite.mockAccountRepo.On("FindBankAccountByID", ctx, "acc-1").Return(suite.account("0"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByAccountUpTo", ctx, "acc-1", suite.asOf).Return(txns, nil).Once()
	suite.mockSplitRepo.On("FindSplitsByParentIDs", ctx, []string{"txn-split"}).Return(splits, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, "acc-1", suite.asOf, nil)

	suite.Require().NoError(err)
	suite.True(balance.ByBucket[domain.BucketProject].Equal(decimal.RequireFromString("-40")))
	suite.True(balance.ByBucket[domain.BucketOperations].Equal(decimal.RequireFromString("-60")))
	suite.True(balance.Total.Equal(decimal.RequireFromString("-100")))
	suite.mockSplitRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestComputeBalanceBucketFilterSkipsOpeningBalance() {
	ctx := context.Background()
	txns := []domain.Transaction{
		txn("txn-1", domain.Income, domain.CategoryMembership, "500"),
		txn("txn-2", domain.Expense, domain.CategoryAdministrative, "200"),
	}
	suite.mockAccountRepo.On("FindBankAccountByID", ctx, "acc-1").Return(suite.account("1000"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByAccountUpTo", ctx, "acc-1", suite.asOf).Return(txns, nil).Once()

	bucket := domain.BucketDues
	balance, err := suite.service.ComputeBalance(ctx, "acc-1", suite.asOf, &bucket)

	suite.Require().NoError(err)
	suite.True(balance.Total.Equal(decimal.RequireFromString("500")), "got %s", balance.Total)
}

func (suite *BalanceServiceTestSuite) TestComputeBalanceAccountNotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindBankAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ComputeBalance(ctx, "missing", suite.asOf, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
