package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation
// records.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// SaveReconciliationRecord persists a reconciliation record. Discrepancies
// and type summaries are document-shaped and never queried field-wise, so
// they live in jsonb columns.
func (r *PgxReconciliationRepository) SaveReconciliationRecord(ctx context.Context, record domain.ReconciliationRecord) error {
	discrepancies, err := json.Marshal(record.Discrepancies)
	if err != nil {
		return fmt.Errorf("failed to marshal discrepancies: %w", err)
	}
	summaries, err := json.Marshal(record.TypeSummaries)
	if err != nil {
		return fmt.Errorf("failed to marshal type summaries: %w", err)
	}

	query := `
		INSERT INTO reconciliations (reconciliation_id, bank_account_id, reconciliation_date,
			statement_balance, system_balance, status, notes, discrepancies, type_summaries,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.Pool.Exec(ctx, query,
		record.ReconciliationID,
		record.BankAccountID,
		record.ReconciliationDate,
		record.StatementBalance,
		record.SystemBalance,
		record.Status,
		record.Notes,
		discrepancies,
		summaries,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation record %s: %w", record.ReconciliationID, err)
	}
	return nil
}

// ListReconciliationRecordsByAccount retrieves an account's reconciliation
// history, newest first.
func (r *PgxReconciliationRepository) ListReconciliationRecordsByAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error) {
	query := `
		SELECT reconciliation_id, bank_account_id, reconciliation_date, statement_balance,
			system_balance, status, notes, discrepancies, type_summaries,
			created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliations
		WHERE bank_account_id = $1
		ORDER BY reconciliation_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation records for account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ReconciliationRecord, error) {
		var rec domain.ReconciliationRecord
		var discrepancies, summaries []byte
		err := row.Scan(
			&rec.ReconciliationID,
			&rec.BankAccountID,
			&rec.ReconciliationDate,
			&rec.StatementBalance,
			&rec.SystemBalance,
			&rec.Status,
			&rec.Notes,
			&discrepancies,
			&summaries,
			&rec.CreatedAt,
			&rec.CreatedBy,
			&rec.LastUpdatedAt,
			&rec.LastUpdatedBy,
		)
		if err != nil {
			return rec, err
		}
		if err := json.Unmarshal(discrepancies, &rec.Discrepancies); err != nil {
			return rec, fmt.Errorf("failed to unmarshal discrepancies: %w", err)
		}
		if err := json.Unmarshal(summaries, &rec.TypeSummaries); err != nil {
			return rec, fmt.Errorf("failed to unmarshal type summaries: %w", err)
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reconciliation records for account %s: %w", bankAccountID, err)
	}
	return records, nil
}
