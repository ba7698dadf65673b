package repositories

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// ReconciliationRepositoryFacade defines persistence operations for
// reconciliation records. Records are immutable once saved.
type ReconciliationRepositoryFacade interface {
	// SaveReconciliationRecord persists a reconciliation record together with
	// its discrepancies and type summaries.
	SaveReconciliationRecord(ctx context.Context, record domain.ReconciliationRecord) error

	// ListReconciliationRecordsByAccount retrieves the reconciliation history
	// of an account, newest first.
	ListReconciliationRecordsByAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error)
}
