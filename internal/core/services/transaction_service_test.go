package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockSplitRepo    *MockSplitRepository
	mockInventorySvc *MockInventoryService
	service          portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockSplitRepo = new(MockSplitRepository)
	suite.mockInventorySvc = new(MockInventoryService)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockSplitRepo, suite.mockInventorySvc)
}

func createRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Date:        time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		Description: "Venue deposit",
		Amount:      decimal.RequireFromString("150"),
		Type:        domain.Expense,
		Category:    domain.CategoryProjects,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionSuccess() {
	ctx := context.Background()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusPending &&
			txn.Amount.Equal(decimal.RequireFromString("150")) &&
			txn.Category == domain.CategoryProjects &&
			txn.CreatedBy == "user-1"
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, createRequest(), "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(txn.TransactionID)
	suite.False(txn.IsSplit)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInventorySvc.AssertNotCalled(suite.T(), "SyncOnCreate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionRejectsNonPositiveAmount() {
	ctx := context.Background()
	req := createRequest()
	req.Amount = decimal.RequireFromString("-5")

	_, err := suite.service.CreateTransaction(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionRejectsUnknownType() {
	ctx := context.Background()
	req := createRequest()
	req.Type = "TRANSFER"

	_, err := suite.service.CreateTransaction(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionWithLinkageSyncsInventory() {
	ctx := context.Background()
	req := createRequest()
	req.Inventory = &dto.InventoryLinkRequest{ItemID: "item-1", Variant: "M", Quantity: 2}

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockInventorySvc.On("SyncOnCreate", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Inventory.ItemID == "item-1" && txn.Inventory.Quantity == 2
	}), "user-1").Return(nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.mockInventorySvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateCategoryLockedWhileSplit() {
	ctx := context.Background()
	splitParent := &domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.RequireFromString("100"),
		Type:          domain.Expense,
		Category:      domain.CategoryUnset,
		IsSplit:       true,
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(splitParent, nil).Once()

	category := domain.CategoryMembership
	_, err := suite.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{Category: &category}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSplitCategoryLocked)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateAmountLockedWhileSplit() {
	ctx := context.Background()
	splitParent := &domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.RequireFromString("100"),
		Type:          domain.Expense,
		IsSplit:       true,
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(splitParent, nil).Once()

	amount := decimal.RequireFromString("120")
	_, err := suite.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{Amount: &amount}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSplitAmountLocked)
}

func (suite *TransactionServiceTestSuite) TestUpdateTypeLockedWhileSplit() {
	ctx := context.Background()
	splitParent := &domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.RequireFromString("100"),
		Type:          domain.Income,
		IsSplit:       true,
		SplitIDs:      []string{"split-1", "split-2"},
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(splitParent, nil).Once()

	txnType := domain.Expense
	_, err := suite.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{Type: &txnType}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSplitTypeLocked)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything)
	suite.mockSplitRepo.AssertNotCalled(suite.T(), "UpdateSplit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateIncompleteLinkageClearsLink() {
	ctx := context.Background()
	old := &domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.RequireFromString("100"),
		Type:          domain.Income,
		Category:      domain.CategoryProjects,
		Inventory:     domain.InventoryLink{ItemID: "item-1", Variant: "M", Quantity: 2},
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(old, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return !txn.Inventory.Complete() && txn.Inventory == domain.InventoryLink{}
	})).Return(nil).Once()
	suite.mockInventorySvc.On("SyncOnUpdate", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(txn domain.Transaction) bool {
		return !txn.Inventory.Complete()
	}), "user-1").Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{
		Inventory: &dto.InventoryLinkRequest{ItemID: "item-1"},
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.InventoryLink{}, updated.Inventory)
	suite.mockInventorySvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransactionCascades() {
	ctx := context.Background()
	parent := &domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.RequireFromString("100"),
		Type:          domain.Expense,
		IsSplit:       true,
		SplitIDs:      []string{"split-1", "split-2"},
	}
	splits := []domain.TransactionSplit{
		{SplitID: "split-1", ParentTransactionID: "txn-1"},
		{SplitID: "split-2", ParentTransactionID: "txn-1"},
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(parent, nil).Once()
	suite.mockSplitRepo.On("FindSplitsByParentID", ctx, "txn-1").Return(splits, nil).Once()
	suite.mockSplitRepo.On("DeleteSplit", ctx, "split-1").Return(nil).Once()
	suite.mockSplitRepo.On("DeleteSplit", ctx, "split-2").Return(nil).Once()
	suite.mockInventorySvc.On("SyncOnDelete", ctx, *parent, "user-1").Return(nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, "txn-1").Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, "txn-1", "user-1")

	suite.Require().NoError(err)
	suite.mockSplitRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInventorySvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactionsAppliesDefaultLimit() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f portsrepo.TransactionFilter) bool {
		return f.Category == nil && f.BankAccountID == ""
	}), 20, (*string)(nil)).Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestBatchDeleteAggregatesFailures() {
	ctx := context.Background()
	ok := &domain.Transaction{TransactionID: "txn-ok", Amount: decimal.RequireFromString("10"), Type: domain.Income}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-ok").Return(ok, nil).Once()
	suite.mockInventorySvc.On("SyncOnDelete", ctx, *ok, "user-1").Return(nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, "txn-ok").Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-missing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.BatchDelete(ctx, []string{"txn-ok", "txn-missing"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Equal("txn-missing", result.Errors[0].TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestBatchRecategorizeRejectsInvalidCategoryUpfront() {
	ctx := context.Background()

	_, err := suite.service.BatchRecategorize(ctx, []string{"txn-1"}, "GROCERIES", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestBatchRecategorizeSkipsSplitParents() {
	ctx := context.Background()
	plain := &domain.Transaction{TransactionID: "txn-1", Amount: decimal.RequireFromString("10"), Type: domain.Income, Category: domain.CategoryProjects}
	splitParent := &domain.Transaction{TransactionID: "txn-2", Amount: decimal.RequireFromString("20"), Type: domain.Income, IsSplit: true}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(plain, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == "txn-1" && txn.Category == domain.CategoryMembership
	})).Return(nil).Once()
	suite.mockInventorySvc.On("SyncOnUpdate", ctx, *plain, mock.AnythingOfType("domain.Transaction"), "user-1").Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-2").Return(splitParent, nil).Once()

	result, err := suite.service.BatchRecategorize(ctx, []string{"txn-1", "txn-2"}, domain.CategoryMembership, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Equal("txn-2", result.Errors[0].TransactionID)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
