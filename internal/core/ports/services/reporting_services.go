package services

import (
	"context"
	"time"

	"github.com/chapterfin/chapterledger/internal/dto"
)

// ReportingSvcFacade produces read-side aggregations over the ledger. These
// are pure reads; nothing here mutates state.
type ReportingSvcFacade interface {
	GenerateFinancialReport(ctx context.Context, from, to time.Time) (*dto.FinancialReport, error)
	GenerateIncomeStatement(ctx context.Context, year int) (*dto.IncomeStatement, error)
	GenerateBalanceSheet(ctx context.Context, asOf time.Time) (*dto.BalanceSheet, error)
	GenerateCashFlowStatement(ctx context.Context, from, to time.Time) (*dto.CashFlowStatement, error)
}
