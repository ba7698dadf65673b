package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

var ErrVariantNotFound = errors.New("item variant not found")

// inventoryService keeps stock quantities consistent with transaction
// inventory linkages and records every quantity change as a movement.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewInventoryService creates the inventory synchronizer.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// SyncOnCreate deducts the linked quantity and appends the transaction's
// movement. Stock is deducted for income and expense alike; a sale and a
// giveaway both leave the shelf.
func (s *inventoryService) SyncOnCreate(ctx context.Context, txn domain.Transaction, actor string) error {
	if !txn.Inventory.Complete() {
		return nil
	}
	movement, err := s.applyLink(ctx, txn.Inventory, txn.TransactionID, actor)
	if err != nil {
		return err
	}
	if err := s.inventoryRepo.SaveMovement(ctx, *movement); err != nil {
		return fmt.Errorf("failed to save stock movement for transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// SyncOnUpdate reconciles the stored movement with the transaction's new
// linkage. The movement is overwritten in place so a transaction never
// accumulates more than one movement.
func (s *inventoryService) SyncOnUpdate(ctx context.Context, oldTxn, newTxn domain.Transaction, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	oldLink := oldTxn.Inventory
	newLink := newTxn.Inventory
	if !oldLink.Complete() && !newLink.Complete() {
		return nil
	}

	movement, err := s.inventoryRepo.FindMovementByReferenceID(ctx, newTxn.TransactionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to load stock movement for transaction %s: %w", newTxn.TransactionID, err)
	}

	switch {
	case oldLink.Complete() && !newLink.Complete():
		// Linkage removed. Restore the stock and drop the movement.
		if err := s.revertLink(ctx, oldLink, actor); err != nil {
			return err
		}
		if movement != nil {
			if err := s.inventoryRepo.DeleteMovement(ctx, movement.MovementID); err != nil {
				return fmt.Errorf("failed to delete stock movement %s: %w", movement.MovementID, err)
			}
		}
		return nil

	case oldLink == newLink:
		if movement != nil {
			return nil
		}
		// A complete linkage without a movement means the first sync never
		// landed. Heal it now.
		logger.Warn("Healing missing stock movement", slog.String("transaction_id", newTxn.TransactionID))
		return s.SyncOnCreate(ctx, newTxn, actor)

	default:
		// Linkage changed (or appeared). Undo the old deduction, apply the new
		// one, and keep a single movement per reference.
		if oldLink.Complete() {
			if err := s.revertLink(ctx, oldLink, actor); err != nil {
				return err
			}
		}
		fresh, err := s.applyLink(ctx, newLink, newTxn.TransactionID, actor)
		if err != nil {
			return err
		}
		if movement == nil {
			if err := s.inventoryRepo.SaveMovement(ctx, *fresh); err != nil {
				return fmt.Errorf("failed to save stock movement for transaction %s: %w", newTxn.TransactionID, err)
			}
			return nil
		}
		fresh.MovementID = movement.MovementID
		if err := s.inventoryRepo.UpdateMovement(ctx, *fresh); err != nil {
			return fmt.Errorf("failed to overwrite stock movement %s: %w", movement.MovementID, err)
		}
		return nil
	}
}

// SyncOnDelete restores the deducted quantity and removes the transaction's
// movement before the transaction itself is deleted.
func (s *inventoryService) SyncOnDelete(ctx context.Context, txn domain.Transaction, actor string) error {
	if !txn.Inventory.Complete() {
		return nil
	}
	if err := s.revertLink(ctx, txn.Inventory, actor); err != nil {
		return err
	}
	movement, err := s.inventoryRepo.FindMovementByReferenceID(ctx, txn.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load stock movement for transaction %s: %w", txn.TransactionID, err)
	}
	if err := s.inventoryRepo.DeleteMovement(ctx, movement.MovementID); err != nil {
		return fmt.Errorf("failed to delete stock movement %s: %w", movement.MovementID, err)
	}
	return nil
}

// applyLink deducts the linked quantity from the variant and persists the
// item. The returned movement is not yet saved; the caller decides whether it
// is appended or overwrites an existing one.
func (s *inventoryService) applyLink(ctx context.Context, link domain.InventoryLink, referenceID, actor string) (*domain.StockMovement, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, link.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item %s: %w", link.ItemID, err)
	}

	idx := variantIndex(item.Variants, link.Variant)
	if idx < 0 {
		return nil, fmt.Errorf("%w: item %s has no variant %q", ErrVariantNotFound, link.ItemID, link.Variant)
	}
	previous := item.Variants[idx].Quantity
	item.Variants[idx].Quantity -= link.Quantity
	refreshItem(item)

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item %s: %w", link.ItemID, err)
	}

	return &domain.StockMovement{
		MovementID:       uuid.NewString(),
		ItemID:           link.ItemID,
		Variant:          link.Variant,
		Quantity:         -link.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      item.Variants[idx].Quantity,
		Type:             domain.MovementOut,
		Reason:           "transaction linkage",
		PerformedBy:      actor,
		ReferenceID:      referenceID,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// revertLink adds the linked quantity back. A variant deleted since the
// deduction is recreated at zero so the restore still lands; the resulting
// quantity may start negative and settle once the physical count is adjusted.
func (s *inventoryService) revertLink(ctx context.Context, link domain.InventoryLink, actor string) error {
	item, err := s.inventoryRepo.FindItemByID(ctx, link.ItemID)
	if err != nil {
		return fmt.Errorf("failed to find inventory item %s: %w", link.ItemID, err)
	}

	idx := variantIndex(item.Variants, link.Variant)
	if idx < 0 {
		item.Variants = append(item.Variants, domain.ItemVariant{Size: link.Variant})
		idx = len(item.Variants) - 1
	}
	item.Variants[idx].Quantity += link.Quantity
	refreshItem(item)
	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = actor

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		return fmt.Errorf("failed to update inventory item %s: %w", link.ItemID, err)
	}
	return nil
}

// CreateItem registers an item. Without declared variants the quantity lands
// on a single implicit variant.
func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest, actor string) (*domain.InventoryItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	variants := make([]domain.ItemVariant, 0, len(req.Variants))
	for _, v := range req.Variants {
		if v.Quantity < 0 {
			return nil, fmt.Errorf("%w: variant %q quantity must not be negative", apperrors.ErrValidation, v.Size)
		}
		variants = append(variants, domain.ItemVariant{Size: v.Size, Quantity: v.Quantity})
	}
	if len(variants) == 0 {
		if req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", apperrors.ErrValidation)
		}
		variants = append(variants, domain.ItemVariant{Size: domain.DefaultVariant, Quantity: req.Quantity})
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ItemID:   uuid.NewString(),
		Name:     req.Name,
		Variants: variants,
		Status:   domain.ItemAvailable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	refreshItem(&item)

	if err := s.inventoryRepo.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}
	logger.Info("Inventory item created", slog.String("item_id", item.ItemID), slog.String("name", item.Name))
	return &item, nil
}

// GetItem retrieves one item.
func (s *inventoryService) GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item %s: %w", itemID, err)
	}
	return item, nil
}

// ListItems retrieves every item.
func (s *inventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.inventoryRepo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

// AdjustStock applies a manual signed delta and records an adjustment
// movement. Adjustments carry no reference id; they are not tied to any
// transaction.
func (s *inventoryService) AdjustStock(ctx context.Context, itemID string, req dto.AdjustStockRequest, actor string) (*domain.StockMovement, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", apperrors.ErrValidation)
	}

	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item %s: %w", itemID, err)
	}

	variant := req.Variant
	if variant == "" {
		variant = domain.DefaultVariant
	}
	idx := variantIndex(item.Variants, variant)
	if idx < 0 {
		if req.Delta < 0 {
			return nil, fmt.Errorf("%w: item %s has no variant %q", ErrVariantNotFound, itemID, variant)
		}
		item.Variants = append(item.Variants, domain.ItemVariant{Size: variant})
		idx = len(item.Variants) - 1
	}
	previous := item.Variants[idx].Quantity
	item.Variants[idx].Quantity += req.Delta
	refreshItem(item)
	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = actor

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item %s: %w", itemID, err)
	}

	movement := domain.StockMovement{
		MovementID:       uuid.NewString(),
		ItemID:           itemID,
		Variant:          variant,
		Quantity:         req.Delta,
		PreviousQuantity: previous,
		NewQuantity:      item.Variants[idx].Quantity,
		Type:             domain.MovementAdjustment,
		Reason:           req.Reason,
		PerformedBy:      actor,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.inventoryRepo.SaveMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to save adjustment movement: %w", err)
	}
	return &movement, nil
}

// GetStockCard retrieves an item with its movement history.
func (s *inventoryService) GetStockCard(ctx context.Context, itemID string) (*dto.StockCard, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item %s: %w", itemID, err)
	}
	movements, err := s.inventoryRepo.FindMovementsByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements for item %s: %w", itemID, err)
	}
	return &dto.StockCard{Item: *item, Movements: movements}, nil
}

func variantIndex(variants []domain.ItemVariant, size string) int {
	for i, v := range variants {
		if v.Size == size {
			return i
		}
	}
	return -1
}

// refreshItem recomputes the rollup quantity and flips the availability
// status. A manually set CHECKED_OUT survives as long as stock remains.
func refreshItem(item *domain.InventoryItem) {
	item.Quantity = item.TotalQuantity()
	if item.Quantity <= 0 {
		item.Status = domain.ItemOutOfStock
		return
	}
	if item.Status == domain.ItemOutOfStock || item.Status == "" {
		item.Status = domain.ItemAvailable
	}
}
