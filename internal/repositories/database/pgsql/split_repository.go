package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
)

type PgxSplitRepository struct {
	BaseRepository
}

// newPgxSplitRepository creates a new repository for transaction splits.
func newPgxSplitRepository(pool *pgxpool.Pool) portsrepo.SplitRepositoryFacade {
	return &PgxSplitRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SplitRepositoryFacade = (*PgxSplitRepository)(nil)

const splitColumns = `split_id, parent_transaction_id, category, type, status, amount, description,
	purpose, project_id, member_id, payment_request_id, year,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSplit(row pgx.Row) (domain.TransactionSplit, error) {
	var s domain.TransactionSplit
	err := row.Scan(
		&s.SplitID,
		&s.ParentTransactionID,
		&s.Category,
		&s.Type,
		&s.Status,
		&s.Amount,
		&s.Description,
		&s.Purpose,
		&s.ProjectID,
		&s.MemberID,
		&s.PaymentRequestID,
		&s.Year,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	return s, err
}

// SaveSplit inserts a new split record.
func (r *PgxSplitRepository) SaveSplit(ctx context.Context, split domain.TransactionSplit) error {
	query := `
		INSERT INTO transaction_splits (` + splitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		split.SplitID,
		split.ParentTransactionID,
		split.Category,
		split.Type,
		split.Status,
		split.Amount,
		split.Description,
		split.Purpose,
		split.ProjectID,
		split.MemberID,
		split.PaymentRequestID,
		split.Year,
		split.CreatedAt,
		split.CreatedBy,
		split.LastUpdatedAt,
		split.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save split %s: %w", split.SplitID, err)
	}
	return nil
}

// FindSplitByID retrieves a single split by id.
func (r *PgxSplitRepository) FindSplitByID(ctx context.Context, splitID string) (*domain.TransactionSplit, error) {
	query := `SELECT ` + splitColumns + ` FROM transaction_splits WHERE split_id = $1;`
	split, err := scanSplit(r.Pool.QueryRow(ctx, query, splitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find split %s: %w", splitID, err)
	}
	return &split, nil
}

// FindSplitsByParentID retrieves all splits of a parent transaction, ordered
// by creation time.
func (r *PgxSplitRepository) FindSplitsByParentID(ctx context.Context, parentTransactionID string) ([]domain.TransactionSplit, error) {
	query := `
		SELECT ` + splitColumns + `
		FROM transaction_splits
		WHERE parent_transaction_id = $1
		ORDER BY created_at ASC, split_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, parentTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for parent %s: %w", parentTransactionID, err)
	}
	defer rows.Close()

	splits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionSplit, error) {
		return scanSplit(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan splits for parent %s: %w", parentTransactionID, err)
	}
	return splits, nil
}

// FindSplitsByParentIDs retrieves splits for multiple parents, grouped by
// parent transaction id.
func (r *PgxSplitRepository) FindSplitsByParentIDs(ctx context.Context, parentTransactionIDs []string) (map[string][]domain.TransactionSplit, error) {
	grouped := make(map[string][]domain.TransactionSplit, len(parentTransactionIDs))
	if len(parentTransactionIDs) == 0 {
		return grouped, nil
	}
	query := `
		SELECT ` + splitColumns + `
		FROM transaction_splits
		WHERE parent_transaction_id = ANY($1)
		ORDER BY parent_transaction_id ASC, created_at ASC, split_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, parentTransactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for parents: %w", err)
	}
	defer rows.Close()

	splits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionSplit, error) {
		return scanSplit(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan splits for parents: %w", err)
	}
	for _, split := range splits {
		grouped[split.ParentTransactionID] = append(grouped[split.ParentTransactionID], split)
	}
	return grouped, nil
}

// UpdateSplit overwrites an existing split record.
func (r *PgxSplitRepository) UpdateSplit(ctx context.Context, split domain.TransactionSplit) error {
	query := `
		UPDATE transaction_splits SET
			category = $2, type = $3, status = $4, amount = $5, description = $6,
			purpose = $7, project_id = $8, member_id = $9, payment_request_id = $10,
			year = $11, last_updated_at = $12, last_updated_by = $13
		WHERE split_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		split.SplitID,
		split.Category,
		split.Type,
		split.Status,
		split.Amount,
		split.Description,
		split.Purpose,
		split.ProjectID,
		split.MemberID,
		split.PaymentRequestID,
		split.Year,
		split.LastUpdatedAt,
		split.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update split %s: %w", split.SplitID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSplit removes a split record.
func (r *PgxSplitRepository) DeleteSplit(ctx context.Context, splitID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transaction_splits WHERE split_id = $1;`, splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split %s: %w", splitID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateSplitStatusesByParentIDs sets the status on every split whose parent
// is listed.
func (r *PgxSplitRepository) UpdateSplitStatusesByParentIDs(ctx context.Context, parentTransactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	if len(parentTransactionIDs) == 0 {
		return nil
	}
	query := `
		UPDATE transaction_splits SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE parent_transaction_id = ANY($1);
	`
	if _, err := r.Pool.Exec(ctx, query, parentTransactionIDs, status, updatedAt, updatedBy); err != nil {
		return fmt.Errorf("failed to update split statuses: %w", err)
	}
	return nil
}
