package repositories

import (
	"context"
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// SplitReader defines read operations for transaction splits.
type SplitReader interface {
	// FindSplitByID retrieves a single split by id.
	FindSplitByID(ctx context.Context, splitID string) (*domain.TransactionSplit, error)

	// FindSplitsByParentID retrieves all splits of a parent transaction,
	// ordered by creation time.
	FindSplitsByParentID(ctx context.Context, parentTransactionID string) ([]domain.TransactionSplit, error)

	// FindSplitsByParentIDs retrieves splits for multiple parents, grouped by
	// parent transaction id.
	FindSplitsByParentIDs(ctx context.Context, parentTransactionIDs []string) (map[string][]domain.TransactionSplit, error)
}

// SplitWriter defines write operations for transaction splits.
type SplitWriter interface {
	// SaveSplit persists a new split record.
	SaveSplit(ctx context.Context, split domain.TransactionSplit) error

	// UpdateSplit overwrites an existing split record.
	UpdateSplit(ctx context.Context, split domain.TransactionSplit) error

	// DeleteSplit removes a split record.
	DeleteSplit(ctx context.Context, splitID string) error

	// UpdateSplitStatusesByParentIDs sets the status on every split whose
	// parent is listed.
	UpdateSplitStatusesByParentIDs(ctx context.Context, parentTransactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error
}

// SplitRepositoryFacade combines all split repository interfaces.
type SplitRepositoryFacade interface {
	SplitReader
	SplitWriter
}
