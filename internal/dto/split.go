package dto

import (
	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitInput is one split in an upsert set. A present SplitID updates the
// existing split in place; an absent one creates a new split. Existing splits
// missing from the set are deleted.
type SplitInput struct {
	SplitID          string          `json:"splitID"`
	Category         domain.Category `json:"category" binding:"required,category"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description"`
	Purpose          string          `json:"purpose"`
	ProjectID        string          `json:"projectID"`
	MemberID         string          `json:"memberID"`
	PaymentRequestID string          `json:"paymentRequestID"`
	Year             int             `json:"year"`
}

// UpsertSplitsRequest replaces a parent transaction's split set.
type UpsertSplitsRequest struct {
	Splits []SplitInput `json:"splits" binding:"required,min=1,dive"`
}

// UpdateSplitRequest is a partial update of a single split. An amount change
// re-validates the full-parent sum invariant.
type UpdateSplitRequest struct {
	Category    *domain.Category `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Purpose     *string          `json:"purpose"`
	ProjectID   *string          `json:"projectID"`
	MemberID    *string          `json:"memberID"`
}
