package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
)

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory items and
// stock movements.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func scanItem(row pgx.Row) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	var variants []byte
	err := row.Scan(
		&item.ItemID,
		&item.Name,
		&item.Quantity,
		&item.Status,
		&variants,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal(variants, &item.Variants); err != nil {
		return item, fmt.Errorf("failed to unmarshal variants: %w", err)
	}
	return item, nil
}

// SaveItem inserts a new inventory item. Variants are document-shaped and
// always read as a whole, so they live in a jsonb column.
func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	variants, err := json.Marshal(item.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}
	query := `
		INSERT INTO inventory_items (item_id, name, quantity, status, variants,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.Quantity,
		item.Status,
		variants,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save inventory item %s: %w", item.ItemID, err)
	}
	return nil
}

// FindItemByID retrieves an item with its variants.
func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `
		SELECT item_id, name, quantity, status, variants,
			created_at, created_by, last_updated_at, last_updated_by
		FROM inventory_items WHERE item_id = $1;
	`
	item, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item %s: %w", itemID, err)
	}
	return &item, nil
}

// ListItems retrieves all items ordered by name.
func (r *PgxInventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `
		SELECT item_id, name, quantity, status, variants,
			created_at, created_by, last_updated_at, last_updated_by
		FROM inventory_items ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InventoryItem, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory items: %w", err)
	}
	return items, nil
}

// UpdateItem overwrites an item and its variant quantities.
func (r *PgxInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	variants, err := json.Marshal(item.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}
	query := `
		UPDATE inventory_items SET
			name = $2, quantity = $3, status = $4, variants = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE item_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.Quantity,
		item.Status,
		variants,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item %s: %w", item.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const movementColumns = `movement_id, item_id, variant, quantity, previous_quantity, new_quantity,
	type, reason, performed_by, reference_id, created_at`

func scanMovement(row pgx.Row) (domain.StockMovement, error) {
	var m domain.StockMovement
	err := row.Scan(
		&m.MovementID,
		&m.ItemID,
		&m.Variant,
		&m.Quantity,
		&m.PreviousQuantity,
		&m.NewQuantity,
		&m.Type,
		&m.Reason,
		&m.PerformedBy,
		&m.ReferenceID,
		&m.CreatedAt,
	)
	return m, err
}

// SaveMovement appends a movement record.
func (r *PgxInventoryRepository) SaveMovement(ctx context.Context, movement domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		movement.MovementID,
		movement.ItemID,
		movement.Variant,
		movement.Quantity,
		movement.PreviousQuantity,
		movement.NewQuantity,
		movement.Type,
		movement.Reason,
		movement.PerformedBy,
		movement.ReferenceID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save stock movement %s: %w", movement.MovementID, err)
	}
	return nil
}

// FindMovementByReferenceID retrieves the movement tied to a transaction
// reference, if any.
func (r *PgxInventoryRepository) FindMovementByReferenceID(ctx context.Context, referenceID string) (*domain.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference_id = $1;`
	movement, err := scanMovement(r.Pool.QueryRow(ctx, query, referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock movement for reference %s: %w", referenceID, err)
	}
	return &movement, nil
}

// FindMovementsByItemID retrieves an item's movements, newest first.
func (r *PgxInventoryRepository) FindMovementsByItemID(ctx context.Context, itemID string) ([]domain.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements for item %s: %w", itemID, err)
	}
	defer rows.Close()

	movements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StockMovement, error) {
		return scanMovement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stock movements for item %s: %w", itemID, err)
	}
	return movements, nil
}

// UpdateMovement overwrites a movement record in place.
func (r *PgxInventoryRepository) UpdateMovement(ctx context.Context, movement domain.StockMovement) error {
	query := `
		UPDATE stock_movements SET
			item_id = $2, variant = $3, quantity = $4, previous_quantity = $5,
			new_quantity = $6, type = $7, reason = $8, performed_by = $9,
			reference_id = $10, created_at = $11
		WHERE movement_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		movement.MovementID,
		movement.ItemID,
		movement.Variant,
		movement.Quantity,
		movement.PreviousQuantity,
		movement.NewQuantity,
		movement.Type,
		movement.Reason,
		movement.PerformedBy,
		movement.ReferenceID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock movement %s: %w", movement.MovementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMovement removes a movement record.
func (r *PgxInventoryRepository) DeleteMovement(ctx context.Context, movementID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM stock_movements WHERE movement_id = $1;`, movementID)
	if err != nil {
		return fmt.Errorf("failed to delete stock movement %s: %w", movementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
