package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
	"github.com/chapterfin/chapterledger/internal/utils/balances"
)

// reconciliationService compares calculator balances against statement
// balances and commits immutable reconciliation records.
type reconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	accountRepo portsrepo.BankAccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	splitRepo   portsrepo.SplitRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
}

// NewReconciliationService creates the reconciliation engine.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	accountRepo portsrepo.BankAccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	splitRepo portsrepo.SplitRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:   reconRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		splitRepo:   splitRepo,
		balanceSvc:  balanceSvc,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile runs detection, commits a record, advances the account's
// lastReconciled date and, only on a clean run, sweeps qualifying
// transactions to Reconciled.
func (s *reconciliationService) Reconcile(ctx context.Context, bankAccountID string, req dto.ReconcileRequest, actor string) (*domain.ReconciliationRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}

	systemBalance, err := s.balanceSvc.ComputeBalance(ctx, bankAccountID, req.Date, req.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to compute system balance: %w", err)
	}

	txns, err := s.txnRepo.FindTransactionsByAccountUpTo(ctx, bankAccountID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for reconciliation: %w", err)
	}

	discrepancies := s.detect(systemBalance.Total, req.StatementBalance, txns)
	summaries := s.summarize(txns)

	now := time.Now().UTC()
	status := domain.ReconciliationCompleted
	if len(discrepancies) > 0 {
		status = domain.ReconciliationInProgress
	}

	record := domain.ReconciliationRecord{
		ReconciliationID:   uuid.NewString(),
		BankAccountID:      bankAccountID,
		ReconciliationDate: req.Date,
		StatementBalance:   req.StatementBalance,
		SystemBalance:      systemBalance.Total,
		Status:             status,
		Notes:              req.Notes,
		Discrepancies:      discrepancies,
		TypeSummaries:      summaries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.reconRepo.SaveReconciliationRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save reconciliation record: %w", err)
	}

	// The account's display balance trusts the statement, discrepancies or
	// not. Balance reconstruction never reads this field back.
	account.Balance = req.StatementBalance
	account.LastReconciled = &req.Date
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor
	if err := s.accountRepo.UpdateBankAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update bank account after reconciliation: %w", err)
	}

	if len(discrepancies) == 0 {
		if err := s.sweepToReconciled(ctx, txns, actor, now); err != nil {
			return nil, err
		}
		logger.Info("Reconciliation completed", slog.String("bank_account_id", bankAccountID), slog.String("reconciliation_id", record.ReconciliationID))
	} else {
		// No transaction status changes; the record stays in_progress for
		// manual resolution.
		logger.Warn("Reconciliation has discrepancies", slog.String("bank_account_id", bankAccountID), slog.Int("discrepancies", len(discrepancies)))
	}

	return &record, nil
}

// sweepToReconciled flips every not-yet-reconciled transaction at or before
// the cutoff to Reconciled and propagates the status to their splits.
func (s *reconciliationService) sweepToReconciled(ctx context.Context, txns []domain.Transaction, actor string, now time.Time) error {
	ids := make([]string, 0, len(txns))
	splitParentIDs := make([]string, 0)
	for _, txn := range txns {
		if txn.Status == domain.StatusReconciled {
			continue
		}
		ids = append(ids, txn.TransactionID)
		if txn.IsSplit {
			splitParentIDs = append(splitParentIDs, txn.TransactionID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.txnRepo.UpdateTransactionStatuses(ctx, ids, domain.StatusReconciled, actor, now); err != nil {
		return fmt.Errorf("failed to mark transactions reconciled: %w", err)
	}
	if len(splitParentIDs) > 0 {
		if err := s.splitRepo.UpdateSplitStatusesByParentIDs(ctx, splitParentIDs, domain.StatusReconciled, actor, now); err != nil {
			return fmt.Errorf("failed to propagate reconciled status to splits: %w", err)
		}
	}
	return nil
}

// DetectDiscrepancies runs detection without committing anything.
func (s *reconciliationService) DetectDiscrepancies(ctx context.Context, bankAccountID string, statementBalance decimal.Decimal, date time.Time) ([]domain.ReconciliationDiscrepancy, error) {
	systemBalance, err := s.balanceSvc.ComputeBalance(ctx, bankAccountID, date, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute system balance: %w", err)
	}
	txns, err := s.txnRepo.FindTransactionsByAccountUpTo(ctx, bankAccountID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for discrepancy detection: %w", err)
	}
	return s.detect(systemBalance.Total, statementBalance, txns), nil
}

// detect builds the discrepancy list: a single amount_mismatch when the
// balances disagree beyond tolerance, and one duplicate entry per member of
// every (date, amount, description) group with two or more not-yet-reconciled
// transactions.
func (s *reconciliationService) detect(systemTotal, statementBalance decimal.Decimal, txns []domain.Transaction) []domain.ReconciliationDiscrepancy {
	discrepancies := make([]domain.ReconciliationDiscrepancy, 0)

	if !balances.AmountsEqual(systemTotal, statementBalance) {
		discrepancies = append(discrepancies, domain.ReconciliationDiscrepancy{
			DiscrepancyID:  uuid.NewString(),
			Type:           domain.DiscrepancyAmountMismatch,
			ExpectedAmount: statementBalance,
			ActualAmount:   systemTotal,
			Description:    fmt.Sprintf("statement balance %s does not match system balance %s", statementBalance.String(), systemTotal.String()),
		})
	}

	groups := make(map[string][]domain.Transaction)
	for _, txn := range txns {
		if txn.Status == domain.StatusReconciled {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s", txn.Date.Format("2006-01-02"), txn.Amount.String(), txn.Description)
		groups[key] = append(groups[key], txn)
	}
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for _, txn := range group {
			discrepancies = append(discrepancies, domain.ReconciliationDiscrepancy{
				DiscrepancyID:  uuid.NewString(),
				TransactionID:  txn.TransactionID,
				Type:           domain.DiscrepancyDuplicate,
				ExpectedAmount: txn.Amount,
				ActualAmount:   txn.Amount,
				Description:    fmt.Sprintf("possible duplicate of %d transaction(s) dated %s with amount %s", len(group)-1, txn.Date.Format("2006-01-02"), txn.Amount.String()),
			})
		}
	}

	return discrepancies
}

// summarize breaks the cutoff window down by bucket and direction. Split
// parents are expanded bucket-wise by their own transaction category being
// unset, so they are attributed to operations; detailed split attribution
// lives in the balance calculator.
func (s *reconciliationService) summarize(txns []domain.Transaction) []domain.TypeSummary {
	income := balances.NewBucketTotals()
	expense := balances.NewBucketTotals()
	for _, txn := range txns {
		bucket := balances.BucketFor(txn.Category)
		if txn.Type == domain.Income {
			income[bucket] = income[bucket].Add(txn.Amount)
		} else {
			expense[bucket] = expense[bucket].Add(txn.Amount)
		}
	}
	summaries := make([]domain.TypeSummary, 0, len(domain.AllBuckets))
	for _, bucket := range domain.AllBuckets {
		summaries = append(summaries, domain.TypeSummary{
			Bucket:  bucket,
			Income:  income[bucket],
			Expense: expense[bucket],
		})
	}
	return summaries
}

// GetReconciliationHistory lists an account's reconciliation records, newest
// first.
func (s *reconciliationService) GetReconciliationHistory(ctx context.Context, bankAccountID string) ([]domain.ReconciliationRecord, error) {
	records, err := s.reconRepo.ListReconciliationRecordsByAccount(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciliation history for account %s: %w", bankAccountID, err)
	}
	return records, nil
}
