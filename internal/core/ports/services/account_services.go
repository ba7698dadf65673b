package services

import (
	"context"
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/chapterfin/chapterledger/internal/dto"
)

// AccountSvcFacade manages bank accounts and exposes derived balances.
type AccountSvcFacade interface {
	// CreateBankAccount registers a new bank account.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error)

	// GetBankAccount retrieves an account with its derived balance as of now.
	GetBankAccount(ctx context.Context, bankAccountID string) (*dto.BankAccountResponse, error)

	// ListBankAccounts retrieves all accounts with derived balances.
	ListBankAccounts(ctx context.Context) ([]dto.BankAccountResponse, error)
}

// BalanceSvcFacade reconstructs account balances from the ledger. The
// computation is a pure sum: reordering the underlying transactions never
// changes the result.
type BalanceSvcFacade interface {
	// ComputeBalance reconstructs the account balance as of a date, broken
	// down by bucket. With a bucket filter the total is just that bucket's
	// sum; otherwise it is all buckets plus the opening balance.
	ComputeBalance(ctx context.Context, bankAccountID string, asOf time.Time, bucketFilter *domain.Bucket) (*domain.Balance, error)
}
