package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

// accountService manages bank accounts. Balances are always re-derived via
// the balance calculator, never read from storage.
type accountService struct {
	accountRepo portsrepo.BankAccountRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
}

// NewAccountService creates the bank account service.
func NewAccountService(accountRepo portsrepo.BankAccountRepositoryFacade, balanceSvc portssvc.BalanceSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		balanceSvc:  balanceSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateBankAccount registers a new bank account.
func (s *accountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.accountRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// GetBankAccount retrieves an account with its derived balance as of now.
func (s *accountService) GetBankAccount(ctx context.Context, bankAccountID string) (*dto.BankAccountResponse, error) {
	account, err := s.accountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}

	balance, err := s.balanceSvc.ComputeBalance(ctx, bankAccountID, time.Now().UTC(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for account %s: %w", bankAccountID, err)
	}

	resp := dto.ToBankAccountResponse(*account, balance.Total)
	return &resp, nil
}

// ListBankAccounts retrieves all accounts with derived balances.
func (s *accountService) ListBankAccounts(ctx context.Context) ([]dto.BankAccountResponse, error) {
	accounts, err := s.accountRepo.ListBankAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}

	now := time.Now().UTC()
	responses := make([]dto.BankAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		balance, err := s.balanceSvc.ComputeBalance(ctx, account.BankAccountID, now, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for account %s: %w", account.BankAccountID, err)
		}
		responses = append(responses, dto.ToBankAccountResponse(account, balance.Total))
	}
	return responses, nil
}
