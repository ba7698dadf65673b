package services

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/chapterfin/chapterledger/internal/dto"
)

// TransactionSvcFacade is the transaction store consumed by handlers and by
// the other engines.
type TransactionSvcFacade interface {
	// CreateTransaction validates and persists a new ledger transaction,
	// syncing any inventory linkage.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error)

	// UpdateTransaction applies a partial update, keeping split and inventory
	// invariants intact.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error)

	// DeleteTransaction cascades: splits first, then any linked stock
	// movement is reverted, then the record is removed.
	DeleteTransaction(ctx context.Context, transactionID string, actor string) error

	// GetTransactionByID retrieves a single transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated listing.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// BatchDelete deletes many transactions, aggregating per-item failures.
	BatchDelete(ctx context.Context, transactionIDs []string, actor string) (*dto.BatchResult, error)

	// BatchRecategorize moves many transactions to a new category,
	// aggregating per-item failures.
	BatchRecategorize(ctx context.Context, transactionIDs []string, category domain.Category, actor string) (*dto.BatchResult, error)
}
