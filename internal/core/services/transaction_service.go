package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

var (
	ErrSplitCategoryLocked = errors.New("category cannot change while the transaction is split")
	ErrSplitAmountLocked   = errors.New("amount cannot change while the transaction is split; re-upsert the splits instead")
	ErrSplitTypeLocked     = errors.New("type cannot change while the transaction is split; the splits mirror the parent type")
)

const defaultListLimit = 20

// transactionService owns the canonical ledger entries.
type transactionService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	splitRepo    portsrepo.SplitRepositoryFacade
	inventorySvc portssvc.InventorySvcFacade
}

// NewTransactionService creates the transaction store service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, splitRepo portsrepo.SplitRepositoryFacade, inventorySvc portssvc.InventorySvcFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		splitRepo:    splitRepo,
		inventorySvc: inventorySvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates and persists a new ledger transaction, then
// syncs its inventory linkage if one is present.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if !domain.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: category %q is not a valid category", apperrors.ErrValidation, req.Category)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Date:            req.Date,
		Description:     req.Description,
		Purpose:         req.Purpose,
		Amount:          req.Amount,
		Type:            req.Type,
		Category:        req.Category,
		Status:          domain.StatusPending,
		BankAccountID:   req.BankAccountID,
		ProjectID:       req.ProjectID,
		MemberID:        req.MemberID,
		ReferenceNumber: req.ReferenceNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if req.Inventory != nil {
		txn.Inventory = domain.InventoryLink{
			ItemID:   req.Inventory.ItemID,
			Variant:  req.Inventory.Variant,
			Quantity: req.Inventory.Quantity,
		}
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if txn.Inventory.Complete() {
		if err := s.inventorySvc.SyncOnCreate(ctx, txn, actor); err != nil {
			// The transaction is already persisted; the synchronizer's
			// self-healing pass will pick up the missing movement on the next
			// update touching this transaction.
			logger.Error("Inventory sync failed after create", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("transaction created but inventory sync failed: %w", err)
		}
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("category", string(txn.Category)))
	return &txn, nil
}

// UpdateTransaction applies a partial update. Category, amount and type edits
// are rejected while the transaction is split, so the split set can never be
// silently desynchronized.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	old, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	updated := *old
	if req.Category != nil && *req.Category != old.Category {
		if old.IsSplit {
			return nil, fmt.Errorf("%w: transaction %s", ErrSplitCategoryLocked, transactionID)
		}
		if !domain.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: category %q is not a valid category", apperrors.ErrValidation, *req.Category)
		}
		updated.Category = *req.Category
	}
	if req.Amount != nil && !req.Amount.Equal(old.Amount) {
		if old.IsSplit {
			return nil, fmt.Errorf("%w: transaction %s", ErrSplitAmountLocked, transactionID)
		}
		if req.Amount.IsNegative() || req.Amount.IsZero() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		updated.Amount = *req.Amount
	}
	if req.Type != nil && *req.Type != old.Type {
		if old.IsSplit {
			return nil, fmt.Errorf("%w: transaction %s", ErrSplitTypeLocked, transactionID)
		}
		if *req.Type != domain.Income && *req.Type != domain.Expense {
			return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, *req.Type)
		}
		updated.Type = *req.Type
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Purpose != nil {
		updated.Purpose = *req.Purpose
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.BankAccountID != nil {
		updated.BankAccountID = *req.BankAccountID
	}
	if req.ProjectID != nil {
		updated.ProjectID = *req.ProjectID
	}
	if req.MemberID != nil {
		updated.MemberID = *req.MemberID
	}
	if req.ReferenceNumber != nil {
		updated.ReferenceNumber = *req.ReferenceNumber
	}
	if req.Inventory != nil {
		// The request replaces the whole trio; an incomplete trio clears the
		// linkage.
		updated.Inventory = domain.InventoryLink{
			ItemID:   req.Inventory.ItemID,
			Variant:  req.Inventory.Variant,
			Quantity: req.Inventory.Quantity,
		}
		if !updated.Inventory.Complete() {
			updated.Inventory = domain.InventoryLink{}
		}
	}
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = actor

	if err := s.txnRepo.UpdateTransaction(ctx, updated); err != nil {
		logger.Error("Failed to update transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	if err := s.inventorySvc.SyncOnUpdate(ctx, *old, updated, actor); err != nil {
		logger.Error("Inventory sync failed after update", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("transaction updated but inventory sync failed: %w", err)
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

// DeleteTransaction cascades: splits first, then the linked stock movement is
// reverted, then the record itself is removed.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if txn.IsSplit {
		splits, err := s.splitRepo.FindSplitsByParentID(ctx, transactionID)
		if err != nil {
			return fmt.Errorf("failed to load splits for cascade delete: %w", err)
		}
		for _, sp := range splits {
			if err := s.splitRepo.DeleteSplit(ctx, sp.SplitID); err != nil {
				return fmt.Errorf("failed to delete split %s: %w", sp.SplitID, err)
			}
		}
	}

	if err := s.inventorySvc.SyncOnDelete(ctx, *txn, actor); err != nil {
		return fmt.Errorf("failed to revert inventory for transaction %s: %w", transactionID, err)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, paginated listing.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	filter := portsrepo.TransactionFilter{
		Category:      params.Category,
		Status:        params.Status,
		Type:          params.Type,
		BankAccountID: params.BankAccountID,
		ProjectID:     params.ProjectID,
		MemberID:      params.MemberID,
		DateFrom:      params.DateFrom,
		DateTo:        params.DateTo,
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{Transactions: txns, NextToken: nextToken}, nil
}

// BatchDelete deletes many transactions concurrently and independently. One
// item's failure never blocks or rolls back the others.
func (s *transactionService) BatchDelete(ctx context.Context, transactionIDs []string, actor string) (*dto.BatchResult, error) {
	return s.runBatch(ctx, transactionIDs, func(ctx context.Context, id string) error {
		return s.DeleteTransaction(ctx, id, actor)
	})
}

// BatchRecategorize moves many transactions to a new category concurrently
// and independently. Split parents are rejected per item.
func (s *transactionService) BatchRecategorize(ctx context.Context, transactionIDs []string, category domain.Category, actor string) (*dto.BatchResult, error) {
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: category %q is not a valid category", apperrors.ErrValidation, category)
	}
	return s.runBatch(ctx, transactionIDs, func(ctx context.Context, id string) error {
		_, err := s.UpdateTransaction(ctx, id, dto.UpdateTransactionRequest{Category: &category}, actor)
		return err
	})
}

// runBatch fans the per-item operation out and aggregates results.
func (s *transactionService) runBatch(ctx context.Context, transactionIDs []string, op func(ctx context.Context, id string) error) (*dto.BatchResult, error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result dto.BatchResult
	)
	for _, id := range transactionIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := op(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, dto.BatchItemError{TransactionID: id, Error: err.Error()})
				return
			}
			result.Updated++
		}(id)
	}
	wg.Wait()
	if result.Errors == nil {
		result.Errors = []dto.BatchItemError{}
	}
	return &result, nil
}
