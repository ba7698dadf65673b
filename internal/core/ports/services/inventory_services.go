package services

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/chapterfin/chapterledger/internal/dto"
)

// InventorySvcFacade keeps stock levels in lock-step with transactions that
// reference inventory, and handles manual adjustments.
//
// The sync invariant: a transaction with a complete inventory linkage trio has
// exactly one stock movement with matching reference id, and the linked
// variant quantity reflects it.
type InventorySvcFacade interface {
	// SyncOnCreate applies a freshly created transaction's inventory linkage,
	// if present.
	SyncOnCreate(ctx context.Context, txn domain.Transaction, actor string) error

	// SyncOnUpdate compares the old and new linkage and reverts/applies/
	// overwrites the movement accordingly. A missing movement for an
	// unchanged complete link is treated as first sync.
	SyncOnUpdate(ctx context.Context, oldTxn, newTxn domain.Transaction, actor string) error

	// SyncOnDelete reverts and removes the movement linked to a transaction
	// about to be deleted, if any.
	SyncOnDelete(ctx context.Context, txn domain.Transaction, actor string) error

	// CreateItem registers an inventory item.
	CreateItem(ctx context.Context, req dto.CreateItemRequest, actor string) (*domain.InventoryItem, error)

	// GetItem retrieves one item with variants.
	GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// ListItems retrieves all items.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)

	// AdjustStock applies a manual signed delta to an item variant and
	// records an adjustment movement.
	AdjustStock(ctx context.Context, itemID string, req dto.AdjustStockRequest, actor string) (*domain.StockMovement, error)

	// GetStockCard retrieves an item with its movement history.
	GetStockCard(ctx context.Context, itemID string) (*dto.StockCard, error)
}
