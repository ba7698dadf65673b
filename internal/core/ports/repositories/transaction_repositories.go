package repositories

import (
	"context"
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// TransactionFilter narrows a transaction listing. Nil/zero fields are
// ignored.
type TransactionFilter struct {
	Category      *domain.Category
	Status        *domain.TransactionStatus
	Type          *domain.TransactionType
	BankAccountID string
	ProjectID     string
	MemberID      string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a single transaction by id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated transaction list
	// ordered by date descending.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindTransactionsByAccountUpTo retrieves every transaction on the account
	// dated at or before the cutoff.
	FindTransactionsByAccountUpTo(ctx context.Context, bankAccountID string, cutoff time.Time) ([]domain.Transaction, error)

	// FindDuesMemberIDsByYear returns the distinct member ids that have an
	// Income Membership transaction with the given status dated in year.
	FindDuesMemberIDsByYear(ctx context.Context, year int, status domain.TransactionStatus) ([]string, error)

	// FindMembershipTransactionsByYear returns all Income Membership
	// transactions dated in year.
	FindMembershipTransactionsByYear(ctx context.Context, year int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction record.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction overwrites an existing transaction record.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction record.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// UpdateTransactionStatuses sets the status on every listed transaction.
	UpdateTransactionStatuses(ctx context.Context, transactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
