package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/utils/balances"
)

const reportPageSize = 500

// reportingService produces read-side aggregations. Split parents are
// expanded the same way the balance calculator expands them, so reports and
// balances always agree.
type reportingService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	splitRepo   portsrepo.SplitRepositoryFacade
	accountRepo portsrepo.BankAccountRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
}

// NewReportingService creates the reporting service.
func NewReportingService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	splitRepo portsrepo.SplitRepositoryFacade,
	accountRepo portsrepo.BankAccountRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		txnRepo:     txnRepo,
		splitRepo:   splitRepo,
		accountRepo: accountRepo,
		balanceSvc:  balanceSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GenerateFinancialReport aggregates income and expense per bucket over a
// period.
func (s *reportingService) GenerateFinancialReport(ctx context.Context, from, to time.Time) (*dto.FinancialReport, error) {
	buckets, err := s.bucketBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report := dto.FinancialReport{From: from, To: to, Buckets: buckets}
	for _, b := range buckets {
		report.TotalIncome = report.TotalIncome.Add(b.Income)
		report.TotalExpense = report.TotalExpense.Add(b.Expense)
	}
	report.NetResult = report.TotalIncome.Sub(report.TotalExpense)
	return &report, nil
}

// GenerateIncomeStatement aggregates a calendar year.
func (s *reportingService) GenerateIncomeStatement(ctx context.Context, year int) (*dto.IncomeStatement, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	buckets, err := s.bucketBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	statement := dto.IncomeStatement{Year: year, Buckets: buckets}
	for _, b := range buckets {
		statement.TotalIncome = statement.TotalIncome.Add(b.Income)
		statement.TotalExpense = statement.TotalExpense.Add(b.Expense)
	}
	statement.NetIncome = statement.TotalIncome.Sub(statement.TotalExpense)
	return &statement, nil
}

// GenerateBalanceSheet lists every account's derived balance as of a date.
func (s *reportingService) GenerateBalanceSheet(ctx context.Context, asOf time.Time) (*dto.BalanceSheet, error) {
	accounts, err := s.accountRepo.ListBankAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}

	sheet := dto.BalanceSheet{AsOf: asOf, Accounts: make([]dto.AccountBalanceLine, 0, len(accounts))}
	for _, account := range accounts {
		balance, err := s.balanceSvc.ComputeBalance(ctx, account.BankAccountID, asOf, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for account %s: %w", account.BankAccountID, err)
		}
		sheet.Accounts = append(sheet.Accounts, dto.AccountBalanceLine{
			BankAccountID: account.BankAccountID,
			Name:          account.Name,
			Balance:       balance.Total,
		})
		sheet.TotalAssets = sheet.TotalAssets.Add(balance.Total)
	}
	return &sheet, nil
}

// GenerateCashFlowStatement sums cash in and out across all accounts for a
// period. Direction comes from the transaction type, so split expansion is
// unnecessary here.
func (s *reportingService) GenerateCashFlowStatement(ctx context.Context, from, to time.Time) (*dto.CashFlowStatement, error) {
	txns, err := s.collectTransactions(ctx, from, to)
	if err != nil {
		return nil, err
	}

	statement := dto.CashFlowStatement{From: from, To: to}
	for _, txn := range txns {
		if txn.Type == domain.Income {
			statement.Inflows = statement.Inflows.Add(txn.Amount)
		} else {
			statement.Outflows = statement.Outflows.Add(txn.Amount)
		}
	}
	statement.NetChange = statement.Inflows.Sub(statement.Outflows)

	accounts, err := s.accountRepo.ListBankAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	opening := decimal.Zero
	for _, account := range accounts {
		balance, err := s.balanceSvc.ComputeBalance(ctx, account.BankAccountID, from.Add(-time.Nanosecond), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", account.BankAccountID, err)
		}
		opening = opening.Add(balance.Total)
	}
	statement.OpeningBalance = opening
	statement.ClosingBalance = opening.Add(statement.NetChange)
	return &statement, nil
}

// bucketBreakdown tallies income and expense per bucket for a window. Split
// parents contribute through their splits, each into the split's own
// category bucket with direction from the parent's type.
func (s *reportingService) bucketBreakdown(ctx context.Context, from, to time.Time) ([]dto.BucketBreakdown, error) {
	txns, err := s.collectTransactions(ctx, from, to)
	if err != nil {
		return nil, err
	}

	income := balances.NewBucketTotals()
	expense := balances.NewBucketTotals()
	add := func(txnType domain.TransactionType, bucket domain.Bucket, amount decimal.Decimal) {
		if txnType == domain.Income {
			income[bucket] = income[bucket].Add(amount)
			return
		}
		expense[bucket] = expense[bucket].Add(amount)
	}

	parentByID := make(map[string]domain.Transaction)
	splitParentIDs := make([]string, 0)
	for _, txn := range txns {
		if txn.IsSplit {
			splitParentIDs = append(splitParentIDs, txn.TransactionID)
			parentByID[txn.TransactionID] = txn
			continue
		}
		add(txn.Type, balances.BucketFor(txn.Category), txn.Amount)
	}
	if len(splitParentIDs) > 0 {
		splitsByParent, err := s.splitRepo.FindSplitsByParentIDs(ctx, splitParentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load splits for report: %w", err)
		}
		for parentID, splits := range splitsByParent {
			parent := parentByID[parentID]
			for _, sp := range splits {
				add(parent.Type, balances.BucketFor(sp.Category), sp.Amount)
			}
		}
	}

	breakdown := make([]dto.BucketBreakdown, 0, len(domain.AllBuckets))
	for _, bucket := range domain.AllBuckets {
		breakdown = append(breakdown, dto.BucketBreakdown{
			Bucket:  bucket,
			Income:  income[bucket],
			Expense: expense[bucket],
			Net:     income[bucket].Sub(expense[bucket]),
		})
	}
	return breakdown, nil
}

// collectTransactions pages through every transaction dated inside the
// window, across all accounts.
func (s *reportingService) collectTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	filter := portsrepo.TransactionFilter{DateFrom: &from, DateTo: &to}
	all := make([]domain.Transaction, 0)
	var token *string
	for {
		page, next, err := s.txnRepo.ListTransactions(ctx, filter, reportPageSize, token)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions for report: %w", err)
		}
		all = append(all, page...)
		if next == nil {
			return all, nil
		}
		token = next
	}
}
