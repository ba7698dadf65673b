package dto

import (
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BucketBreakdown is income and expense totals for one reporting bucket.
type BucketBreakdown struct {
	Bucket  domain.Bucket   `json:"bucket"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// FinancialReport is the period overview consumed by the chapter board.
type FinancialReport struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	TotalIncome  decimal.Decimal   `json:"totalIncome"`
	TotalExpense decimal.Decimal   `json:"totalExpense"`
	NetResult    decimal.Decimal   `json:"netResult"`
	Buckets      []BucketBreakdown `json:"buckets"`
}

// IncomeStatement is the calendar-year income and expense summary.
type IncomeStatement struct {
	Year         int               `json:"year"`
	Buckets      []BucketBreakdown `json:"buckets"`
	TotalIncome  decimal.Decimal   `json:"totalIncome"`
	TotalExpense decimal.Decimal   `json:"totalExpense"`
	NetIncome    decimal.Decimal   `json:"netIncome"`
}

// AccountBalanceLine is one account's derived balance on the balance sheet.
type AccountBalanceLine struct {
	BankAccountID string          `json:"bankAccountID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalanceSheet lists derived account balances as of a date.
type BalanceSheet struct {
	AsOf        time.Time            `json:"asOf"`
	Accounts    []AccountBalanceLine `json:"accounts"`
	TotalAssets decimal.Decimal      `json:"totalAssets"`
}

// CashFlowStatement summarises cash in and out across all accounts for a
// period.
type CashFlowStatement struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Inflows        decimal.Decimal `json:"inflows"`
	Outflows       decimal.Decimal `json:"outflows"`
	NetChange      decimal.Decimal `json:"netChange"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
