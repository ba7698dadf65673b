package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/handlers"
	"github.com/chapterfin/chapterledger/internal/middleware"
	"github.com/chapterfin/chapterledger/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockAccountService) GetBankAccount(ctx context.Context, bankAccountID string) (*dto.BankAccountResponse, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BankAccountResponse), args.Error(1)
}

func (m *MockAccountService) ListBankAccounts(ctx context.Context) ([]dto.BankAccountResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BankAccountResponse), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
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

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, bankAccountID string, req dto.ReconcileRequest, actor string) (*domain.ReconciliationRecord, error) {
	args := m.Called(ctx, bankAccountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationRecord), args.Error(1)
}

func (m *MockReconciliationService) DetectDiscrepancies(ctx context.Context, bankAccountID string, statementBalance decimal.Decimal, date time.Time) ([]domain.ReconciliationDiscrepancy, error) {
	args := m.Called(ctx, bankAccountID, statementBalance, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationDiscrepancy), args.Error(1)
}

func (m *MockReconciliationService) GetReconciliationHistory(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRecord), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

type AccountHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccountSvc *MockAccountService
	mockBalanceSvc *MockBalanceService
	mockReconSvc   *MockReconciliationService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockReconSvc = new(MockReconciliationService)

	container := &portssvc.ServiceContainer{
		Account:        suite.mockAccountSvc,
		Balance:        suite.mockBalanceSvc,
		Reconciliation: suite.mockReconSvc,
	}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container, nil)
}

func (suite *AccountHandlerTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, "user-1")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *AccountHandlerTestSuite) TestCreateAccountReturns201() {
	account := &domain.BankAccount{BankAccountID: "acc-1", Name: "Chapter Checking", Currency: "USD"}
	suite.mockAccountSvc.On("CreateBankAccount", mock.Anything, mock.MatchedBy(func(req dto.CreateBankAccountRequest) bool {
		return req.Name == "Chapter Checking" && req.Currency == "USD"
	}), "user-1").Return(account, nil).Once()

	rec := suite.request(http.MethodPost, "/api/v1/accounts", gin.H{
		"name":     "Chapter Checking",
		"currency": "USD",
	})

	suite.Equal(http.StatusCreated, rec.Code)
	var got domain.BankAccount
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	suite.Equal("acc-1", got.BankAccountID)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccountMissingNameReturns400() {
	rec := suite.request(http.MethodPost, "/api/v1/accounts", gin.H{"currency": "USD"})

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "CreateBankAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccountNotFoundReturns404() {
	suite.mockAccountSvc.On("GetBankAccount", mock.Anything, "missing").Return(nil, services.ErrAccountNotFound).Once()

	rec := suite.request(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *AccountHandlerTestSuite) TestGetBalanceInvalidBucketReturns400() {
	rec := suite.request(http.MethodGet, "/api/v1/accounts/acc-1/balance?bucket=snacks", nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "ComputeBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetBalanceFiltersByBucket() {
	balance := &domain.Balance{Total: decimal.NewFromInt(500)}
	suite.mockBalanceSvc.On("ComputeBalance", mock.Anything, "acc-1", mock.AnythingOfType("time.Time"), mock.MatchedBy(func(b *domain.Bucket) bool {
		return b != nil && *b == domain.BucketDues
	})).Return(balance, nil).Once()

	rec := suite.request(http.MethodGet, "/api/v1/accounts/acc-1/balance?bucket=dues", nil)

	suite.Equal(http.StatusOK, rec.Code)
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestReconcileReturnsRecord() {
	record := &domain.ReconciliationRecord{
		ReconciliationID: "rec-1",
		BankAccountID:    "acc-1",
		Status:           domain.ReconciliationCompleted,
	}
	suite.mockReconSvc.On("Reconcile", mock.Anything, "acc-1", mock.MatchedBy(func(req dto.ReconcileRequest) bool {
		return req.StatementBalance.Equal(decimal.RequireFromString("1300"))
	}), "user-1").Return(record, nil).Once()

	rec := suite.request(http.MethodPost, "/api/v1/accounts/acc-1/reconcile", gin.H{
		"statementBalance": "1300",
		"date":             "2025-03-31T00:00:00Z",
	})

	suite.Equal(http.StatusOK, rec.Code)
	var got domain.ReconciliationRecord
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	suite.Equal(domain.ReconciliationCompleted, got.Status)
	suite.mockReconSvc.AssertExpectations(suite.T())
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
