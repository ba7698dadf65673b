package dto

import (
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileRequest asks the engine to reconcile an account against an
// externally reported statement balance as of a date.
type ReconcileRequest struct {
	StatementBalance decimal.Decimal `json:"statementBalance" binding:"required"`
	Date             time.Time       `json:"date" binding:"required"`
	Notes            string          `json:"notes"`
	Bucket           *domain.Bucket  `json:"bucket"`
}

// DetectDiscrepanciesRequest runs discrepancy detection without committing a
// reconciliation record.
type DetectDiscrepanciesRequest struct {
	StatementBalance decimal.Decimal `json:"statementBalance" binding:"required"`
	Date             time.Time       `json:"date" binding:"required"`
}
