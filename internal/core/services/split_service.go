package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
	"github.com/chapterfin/chapterledger/internal/utils/balances"
)

var (
	ErrParentNotFound   = errors.New("parent transaction not found")
	ErrSplitSumMismatch = errors.New("split amounts do not sum to the parent amount")
)

// splitService owns sub-allocations of a transaction's amount across
// categories.
type splitService struct {
	splitRepo portsrepo.SplitRepositoryFacade
	txnRepo   portsrepo.TransactionRepositoryFacade
}

// NewSplitService creates the split ledger service.
func NewSplitService(splitRepo portsrepo.SplitRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade) portssvc.SplitSvcFacade {
	return &splitService{
		splitRepo: splitRepo,
		txnRepo:   txnRepo,
	}
}

var _ portssvc.SplitSvcFacade = (*splitService)(nil)

// validateSplitSet rejects a split set before anything is written: every
// category must be a real one, every amount positive, and the amounts must
// sum to the parent amount within tolerance.
func (s *splitService) validateSplitSet(parent *domain.Transaction, splits []dto.SplitInput) error {
	if len(splits) == 0 {
		return fmt.Errorf("%w: at least one split is required", apperrors.ErrValidation)
	}
	sum := decimal.Zero
	for _, in := range splits {
		if !domain.ValidCategory(in.Category) {
			return fmt.Errorf("%w: split category %q is not a valid category", apperrors.ErrValidation, in.Category)
		}
		if in.Amount.IsNegative() || in.Amount.IsZero() {
			return fmt.Errorf("%w: split amount must be positive", apperrors.ErrValidation)
		}
		sum = sum.Add(in.Amount)
	}
	if !balances.AmountsEqual(sum, parent.Amount) {
		return fmt.Errorf("%w: splits sum to %s, parent amount is %s", ErrSplitSumMismatch, sum.String(), parent.Amount.String())
	}
	return nil
}

// UpsertSplits replaces the split set of a parent transaction.
func (s *splitService) UpsertSplits(ctx context.Context, parentTransactionID string, splits []dto.SplitInput, actor string) ([]domain.TransactionSplit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parent, err := s.txnRepo.FindTransactionByID(ctx, parentTransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentTransactionID)
		}
		return nil, fmt.Errorf("failed to load parent transaction: %w", err)
	}

	// Reject the whole set before the first write.
	if err := s.validateSplitSet(parent, splits); err != nil {
		return nil, err
	}

	existing, err := s.splitRepo.FindSplitsByParentID(ctx, parentTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing splits: %w", err)
	}
	existingByID := make(map[string]domain.TransactionSplit, len(existing))
	for _, sp := range existing {
		existingByID[sp.SplitID] = sp
	}

	now := time.Now().UTC()
	result := make([]domain.TransactionSplit, 0, len(splits))
	finalIDs := make([]string, 0, len(splits))
	createdIDs := make([]string, 0, len(splits))
	keep := make(map[string]bool, len(splits))

	for _, in := range splits {
		if in.SplitID != "" {
			prev, ok := existingByID[in.SplitID]
			if !ok {
				return nil, fmt.Errorf("%w: split %s does not belong to transaction %s", apperrors.ErrValidation, in.SplitID, parentTransactionID)
			}
			updated := prev
			updated.Category = in.Category
			updated.Amount = in.Amount
			updated.Description = in.Description
			updated.Purpose = in.Purpose
			updated.ProjectID = in.ProjectID
			updated.MemberID = in.MemberID
			updated.PaymentRequestID = in.PaymentRequestID
			updated.Year = in.Year
			updated.LastUpdatedAt = now
			updated.LastUpdatedBy = actor
			if err := s.splitRepo.UpdateSplit(ctx, updated); err != nil {
				return nil, fmt.Errorf("failed to update split %s: %w", in.SplitID, err)
			}
			keep[in.SplitID] = true
			finalIDs = append(finalIDs, in.SplitID)
			result = append(result, updated)
			continue
		}

		created := domain.TransactionSplit{
			SplitID:             uuid.NewString(),
			ParentTransactionID: parentTransactionID,
			Category:            in.Category,
			Type:                parent.Type,
			Status:              parent.Status,
			Amount:              in.Amount,
			Description:         in.Description,
			Purpose:             in.Purpose,
			ProjectID:           in.ProjectID,
			MemberID:            in.MemberID,
			PaymentRequestID:    in.PaymentRequestID,
			Year:                in.Year,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		if err := s.splitRepo.SaveSplit(ctx, created); err != nil {
			s.cleanupCreated(ctx, createdIDs)
			return nil, fmt.Errorf("failed to save split: %w", err)
		}
		createdIDs = append(createdIDs, created.SplitID)
		finalIDs = append(finalIDs, created.SplitID)
		result = append(result, created)
	}

	// Existing splits absent from the new set are deleted.
	for _, prev := range existing {
		if keep[prev.SplitID] {
			continue
		}
		if err := s.splitRepo.DeleteSplit(ctx, prev.SplitID); err != nil {
			return nil, fmt.Errorf("failed to delete stale split %s: %w", prev.SplitID, err)
		}
	}

	// Patch the parent last. The original category is captured only on the
	// first split of this transaction.
	if !parent.IsSplit {
		parent.OriginalCategory = parent.Category
	}
	parent.IsSplit = true
	parent.SplitIDs = finalIDs
	parent.Category = domain.CategoryUnset
	parent.ProjectID = ""
	parent.Purpose = ""
	parent.LastUpdatedAt = now
	parent.LastUpdatedBy = actor

	if err := s.txnRepo.UpdateTransaction(ctx, *parent); err != nil {
		// Best-effort compensation: remove the splits this call created so a
		// retried upsert starts from the previous state.
		s.cleanupCreated(ctx, createdIDs)
		logger.Error("Failed to patch parent after split writes", slog.String("transaction_id", parentTransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update parent transaction: %w", err)
	}

	logger.Info("Splits upserted", slog.String("transaction_id", parentTransactionID), slog.Int("split_count", len(finalIDs)))
	return result, nil
}

// cleanupCreated deletes splits created earlier in a failed upsert. Failures
// here are logged and swallowed; the original error is what the caller needs.
func (s *splitService) cleanupCreated(ctx context.Context, splitIDs []string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, id := range splitIDs {
		if err := s.splitRepo.DeleteSplit(ctx, id); err != nil {
			logger.Warn("Failed to clean up split after aborted upsert", slog.String("split_id", id), slog.String("error", err.Error()))
		}
	}
}

// UpdateSplit applies a partial update to one split.
func (s *splitService) UpdateSplit(ctx context.Context, splitID string, req dto.UpdateSplitRequest, actor string) (*domain.TransactionSplit, error) {
	split, err := s.splitRepo.FindSplitByID(ctx, splitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find split %s: %w", splitID, err)
	}

	amountChanged := false
	if req.Amount != nil && !req.Amount.Equal(split.Amount) {
		if req.Amount.IsNegative() || req.Amount.IsZero() {
			return nil, fmt.Errorf("%w: split amount must be positive", apperrors.ErrValidation)
		}
		amountChanged = true
	}
	if req.Category != nil {
		if !domain.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: split category %q is not a valid category", apperrors.ErrValidation, *req.Category)
		}
		split.Category = *req.Category
	}

	if amountChanged {
		parent, err := s.txnRepo.FindTransactionByID(ctx, split.ParentTransactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent transaction: %w", err)
		}
		siblings, err := s.splitRepo.FindSplitsByParentID(ctx, split.ParentTransactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sibling splits: %w", err)
		}
		sum := *req.Amount
		for _, sib := range siblings {
			if sib.SplitID == splitID {
				continue
			}
			sum = sum.Add(sib.Amount)
		}
		// Fail without persisting when the new amount breaks the invariant.
		if !balances.AmountsEqual(sum, parent.Amount) {
			return nil, fmt.Errorf("%w: splits would sum to %s, parent amount is %s", ErrSplitSumMismatch, sum.String(), parent.Amount.String())
		}
		split.Amount = *req.Amount
	}

	if req.Description != nil {
		split.Description = *req.Description
	}
	if req.Purpose != nil {
		split.Purpose = *req.Purpose
	}
	if req.ProjectID != nil {
		split.ProjectID = *req.ProjectID
	}
	if req.MemberID != nil {
		split.MemberID = *req.MemberID
	}
	split.LastUpdatedAt = time.Now().UTC()
	split.LastUpdatedBy = actor

	if err := s.splitRepo.UpdateSplit(ctx, *split); err != nil {
		return nil, fmt.Errorf("failed to update split %s: %w", splitID, err)
	}
	return split, nil
}

// DeleteSplit removes one split and maintains the parent's split state,
// restoring the original category when the last split goes away.
func (s *splitService) DeleteSplit(ctx context.Context, splitID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	split, err := s.splitRepo.FindSplitByID(ctx, splitID)
	if err != nil {
		return fmt.Errorf("failed to find split %s: %w", splitID, err)
	}

	if err := s.splitRepo.DeleteSplit(ctx, splitID); err != nil {
		return fmt.Errorf("failed to delete split %s: %w", splitID, err)
	}

	parent, err := s.txnRepo.FindTransactionByID(ctx, split.ParentTransactionID)
	if err != nil {
		return fmt.Errorf("failed to load parent transaction: %w", err)
	}
	remaining, err := s.splitRepo.FindSplitsByParentID(ctx, split.ParentTransactionID)
	if err != nil {
		return fmt.Errorf("failed to load remaining splits: %w", err)
	}

	now := time.Now().UTC()
	if len(remaining) == 0 {
		// Restoring from OriginalCategory is the only legal way out of the
		// split state.
		parent.Category = parent.OriginalCategory
		parent.OriginalCategory = domain.CategoryUnset
		parent.IsSplit = false
		parent.SplitIDs = nil
	} else {
		ids := make([]string, len(remaining))
		for i, sp := range remaining {
			ids[i] = sp.SplitID
		}
		parent.SplitIDs = ids
	}
	parent.LastUpdatedAt = now
	parent.LastUpdatedBy = actor

	if err := s.txnRepo.UpdateTransaction(ctx, *parent); err != nil {
		return fmt.Errorf("failed to update parent transaction: %w", err)
	}

	logger.Info("Split deleted", slog.String("split_id", splitID), slog.String("transaction_id", parent.TransactionID), slog.Int("remaining", len(remaining)))
	return nil
}

// GetSplits retrieves the parent's splits in creation order.
func (s *splitService) GetSplits(ctx context.Context, parentTransactionID string) ([]domain.TransactionSplit, error) {
	splits, err := s.splitRepo.FindSplitsByParentID(ctx, parentTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits for transaction %s: %w", parentTransactionID, err)
	}
	return splits, nil
}
