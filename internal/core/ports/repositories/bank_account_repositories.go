package repositories

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// BankAccountRepositoryFacade defines persistence operations for bank
// accounts.
type BankAccountRepositoryFacade interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// FindBankAccountByID retrieves a bank account by id.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts ordered by name.
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)

	// UpdateBankAccount overwrites an existing bank account record.
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error
}
