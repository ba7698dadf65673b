package repositories

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// InventoryItemReader defines read operations for inventory items.
type InventoryItemReader interface {
	// FindItemByID retrieves an item with its variants.
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// ListItems retrieves all items ordered by name.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
}

// InventoryItemWriter defines write operations for inventory items.
type InventoryItemWriter interface {
	// SaveItem persists a new item with its variants.
	SaveItem(ctx context.Context, item domain.InventoryItem) error

	// UpdateItem overwrites an item and its variant quantities.
	UpdateItem(ctx context.Context, item domain.InventoryItem) error
}

// StockMovementReader defines read operations for stock movements.
type StockMovementReader interface {
	// FindMovementByReferenceID retrieves the movement tied to a transaction
	// reference, if any. At most one movement exists per reference.
	FindMovementByReferenceID(ctx context.Context, referenceID string) (*domain.StockMovement, error)

	// FindMovementsByItemID retrieves an item's movements, newest first.
	FindMovementsByItemID(ctx context.Context, itemID string) ([]domain.StockMovement, error)
}

// StockMovementWriter defines write operations for stock movements.
type StockMovementWriter interface {
	// SaveMovement appends a movement record.
	SaveMovement(ctx context.Context, movement domain.StockMovement) error

	// UpdateMovement overwrites a movement record in place. Used when a
	// transaction's inventory link changes, keeping one movement per
	// reference.
	UpdateMovement(ctx context.Context, movement domain.StockMovement) error

	// DeleteMovement removes a movement record.
	DeleteMovement(ctx context.Context, movementID string) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryItemReader
	InventoryItemWriter
	StockMovementReader
	StockMovementWriter
}
