package services

import (
	"context"
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/shopspring/decimal"
)

// ReconciliationSvcFacade compares computed balances to statement balances
// and commits immutable reconciliation records.
type ReconciliationSvcFacade interface {
	// Reconcile runs detection, persists a record (completed when clean,
	// in_progress otherwise) and, only on a clean run, sweeps qualifying
	// transactions to Reconciled.
	Reconcile(ctx context.Context, bankAccountID string, req dto.ReconcileRequest, actor string) (*domain.ReconciliationRecord, error)

	// DetectDiscrepancies runs detection without committing anything.
	DetectDiscrepancies(ctx context.Context, bankAccountID string, statementBalance decimal.Decimal, date time.Time) ([]domain.ReconciliationDiscrepancy, error)

	// GetReconciliationHistory lists an account's past reconciliation
	// records, newest first.
	GetReconciliationHistory(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error)
}
