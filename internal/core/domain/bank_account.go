package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount holds the opening balance a computed balance starts from.
// Balance is a display convenience written by reconciliation ("trust the
// statement"); the source of truth is always re-derived from transactions.
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	LastReconciled *time.Time      `json:"lastReconciled,omitempty"`
	AuditFields
}
