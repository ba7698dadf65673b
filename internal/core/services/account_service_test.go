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
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockBankAccountRepository
	mockBalanceSvc *MockBalanceService
	service        portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBankAccountRepository)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockBalanceSvc)
}

func (suite *AccountServiceTestSuite) TestCreateBankAccountSuccess() {
	ctx := context.Background()
	req := dto.CreateBankAccountRequest{
		Name:           "Chapter Checking",
		Currency:       "USD",
		InitialBalance: decimal.RequireFromString("1000"),
	}
	suite.mockRepo.On("SaveBankAccount", ctx, mock.MatchedBy(func(acc domain.BankAccount) bool {
		return acc.Name == "Chapter Checking" &&
			acc.InitialBalance.Equal(decimal.RequireFromString("1000")) &&
			acc.Balance.Equal(acc.InitialBalance) &&
			acc.CreatedBy == "user-1"
	})).Return(nil).Once()

	account, err := suite.service.CreateBankAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(account.BankAccountID)
	suite.WithinDuration(time.Now().UTC(), account.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateBankAccountRequiresName() {
	ctx := context.Background()

	_, err := suite.service.CreateBankAccount(ctx, dto.CreateBankAccountRequest{Currency: "USD"}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetBankAccountDerivesBalance() {
	ctx := context.Background()
	account := &domain.BankAccount{
		BankAccountID:  "acc-1",
		Name:           "Chapter Checking",
		Currency:       "USD",
		InitialBalance: decimal.RequireFromString("1000"),
		Balance:        decimal.RequireFromString("999"),
	}
	derived := &domain.Balance{Total: decimal.RequireFromString("1300")}

	suite.mockRepo.On("FindBankAccountByID", ctx, "acc-1").Return(account, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, "acc-1", mock.AnythingOfType("time.Time"), (*domain.Bucket)(nil)).Return(derived, nil).Once()

	resp, err := suite.service.GetBankAccount(ctx, "acc-1")

	suite.Require().NoError(err)
	// The stored display balance is ignored; the response carries the
	// recomputed one.
	suite.True(resp.Balance.Equal(decimal.RequireFromString("1300")))
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListBankAccountsDerivesEachBalance() {
	ctx := context.Background()
	accounts := []domain.BankAccount{
		{BankAccountID: "acc-1", Name: "Checking"},
		{BankAccountID: "acc-2", Name: "Savings"},
	}
	suite.mockRepo.On("ListBankAccounts", ctx).Return(accounts, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, "acc-1", mock.AnythingOfType("time.Time"), (*domain.Bucket)(nil)).Return(&domain.Balance{Total: decimal.NewFromInt(100)}, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, "acc-2", mock.AnythingOfType("time.Time"), (*domain.Bucket)(nil)).Return(&domain.Balance{Total: decimal.NewFromInt(200)}, nil).Once()

	responses, err := suite.service.ListBankAccounts(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(responses, 2)
	suite.True(responses[0].Balance.Equal(decimal.NewFromInt(100)))
	suite.True(responses[1].Balance.Equal(decimal.NewFromInt(200)))
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
