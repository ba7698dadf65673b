package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	"github.com/chapterfin/chapterledger/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger
// transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, date, description, purpose, amount, type, category, status,
	bank_account_id, project_id, member_id, reference_number, is_split, split_ids, original_category,
	inventory_item_id, inventory_variant, inventory_quantity,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.Date,
		&t.Description,
		&t.Purpose,
		&t.Amount,
		&t.Type,
		&t.Category,
		&t.Status,
		&t.BankAccountID,
		&t.ProjectID,
		&t.MemberID,
		&t.ReferenceNumber,
		&t.IsSplit,
		&t.SplitIDs,
		&t.OriginalCategory,
		&t.Inventory.ItemID,
		&t.Inventory.Variant,
		&t.Inventory.Quantity,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// SaveTransaction inserts a new ledger transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.Date,
		txn.Description,
		txn.Purpose,
		txn.Amount,
		txn.Type,
		txn.Category,
		txn.Status,
		txn.BankAccountID,
		txn.ProjectID,
		txn.MemberID,
		txn.ReferenceNumber,
		txn.IsSplit,
		txn.SplitIDs,
		txn.OriginalCategory,
		txn.Inventory.ItemID,
		txn.Inventory.Variant,
		txn.Inventory.Quantity,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a single transaction by id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactions retrieves a filtered page ordered by date then creation
// time, both descending. Keyset pagination keeps pages stable under inserts.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	conditions := make([]string, 0, 8)
	args := make([]any, 0, 10)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != nil {
		conditions = append(conditions, "category = "+arg(*filter.Category))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = "+arg(*filter.Type))
	}
	if filter.BankAccountID != "" {
		conditions = append(conditions, "bank_account_id = "+arg(filter.BankAccountID))
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, "project_id = "+arg(filter.ProjectID))
	}
	if filter.MemberID != "" {
		conditions = append(conditions, "member_id = "+arg(filter.MemberID))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "date >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "date <= "+arg(*filter.DateTo))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		conditions = append(conditions, fmt.Sprintf("(date, created_at) < (%s, %s)", arg(lastDate), arg(lastCreated)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC LIMIT " + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}
	return txns, token, nil
}

// FindTransactionsByAccountUpTo retrieves every transaction on the account
// dated at or before the cutoff, oldest first.
func (r *PgxTransactionRepository) FindTransactionsByAccountUpTo(ctx context.Context, bankAccountID string, cutoff time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE bank_account_id = $1 AND date <= $2
		ORDER BY date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, bankAccountID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for account %s: %w", bankAccountID, err)
	}
	return txns, nil
}

// FindDuesMemberIDsByYear returns the distinct member ids with an Income
// Membership transaction of the given status dated in year.
func (r *PgxTransactionRepository) FindDuesMemberIDsByYear(ctx context.Context, year int, status domain.TransactionStatus) ([]string, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := `
		SELECT DISTINCT member_id
		FROM transactions
		WHERE type = $1 AND category = $2 AND status = $3
			AND member_id <> '' AND date >= $4 AND date < $5
		ORDER BY member_id;
	`
	rows, err := r.Pool.Query(ctx, query, domain.Income, domain.CategoryMembership, status, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query dues member ids for %d: %w", year, err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dues member ids for %d: %w", year, err)
	}
	return ids, nil
}

// FindMembershipTransactionsByYear returns all Income Membership transactions
// dated in year.
func (r *PgxTransactionRepository) FindMembershipTransactionsByYear(ctx context.Context, year int) ([]domain.Transaction, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1 AND category = $2 AND date >= $3 AND date < $4
		ORDER BY date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, domain.Income, domain.CategoryMembership, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query dues transactions for %d: %w", year, err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dues transactions for %d: %w", year, err)
	}
	return txns, nil
}

// UpdateTransaction overwrites an existing transaction record.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions SET
			date = $2, description = $3, purpose = $4, amount = $5, type = $6,
			category = $7, status = $8, bank_account_id = $9, project_id = $10,
			member_id = $11, reference_number = $12, is_split = $13, split_ids = $14,
			original_category = $15, inventory_item_id = $16, inventory_variant = $17,
			inventory_quantity = $18, last_updated_at = $19, last_updated_by = $20
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.Date,
		txn.Description,
		txn.Purpose,
		txn.Amount,
		txn.Type,
		txn.Category,
		txn.Status,
		txn.BankAccountID,
		txn.ProjectID,
		txn.MemberID,
		txn.ReferenceNumber,
		txn.IsSplit,
		txn.SplitIDs,
		txn.OriginalCategory,
		txn.Inventory.ItemID,
		txn.Inventory.Variant,
		txn.Inventory.Quantity,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction record.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateTransactionStatuses sets the status on every listed transaction.
func (r *PgxTransactionRepository) UpdateTransactionStatuses(ctx context.Context, transactionIDs []string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	query := `
		UPDATE transactions SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = ANY($1);
	`
	if _, err := r.Pool.Exec(ctx, query, transactionIDs, status, updatedAt, updatedBy); err != nil {
		return fmt.Errorf("failed to update transaction statuses: %w", err)
	}
	return nil
}
