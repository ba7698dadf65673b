package services

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/chapterfin/chapterledger/internal/dto"
)

// SplitSvcFacade is the split ledger: sub-allocations of one transaction's
// amount across categories, always summing to the parent amount.
type SplitSvcFacade interface {
	// UpsertSplits replaces the parent's split set: present ids update,
	// absent ids create, missing existing splits delete. The sum invariant is
	// checked before any write.
	UpsertSplits(ctx context.Context, parentTransactionID string, splits []dto.SplitInput, actor string) ([]domain.TransactionSplit, error)

	// UpdateSplit applies a partial update to one split, re-validating the
	// sum invariant when the amount changes.
	UpdateSplit(ctx context.Context, splitID string, req dto.UpdateSplitRequest, actor string) (*domain.TransactionSplit, error)

	// DeleteSplit removes one split; deleting the last split restores the
	// parent's original category.
	DeleteSplit(ctx context.Context, splitID string, actor string) error

	// GetSplits retrieves the parent's splits in creation order.
	GetSplits(ctx context.Context, parentTransactionID string) ([]domain.TransactionSplit, error)
}
