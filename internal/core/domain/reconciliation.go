package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the outcome of a reconciliation attempt.
type ReconciliationStatus string

const (
	ReconciliationCompleted  ReconciliationStatus = "completed"
	ReconciliationInProgress ReconciliationStatus = "in_progress"
)

// DiscrepancyType classifies a detected mismatch.
type DiscrepancyType string

const (
	DiscrepancyAmountMismatch DiscrepancyType = "amount_mismatch"
	DiscrepancyDuplicate      DiscrepancyType = "duplicate"
)

// ReconciliationDiscrepancy is a single detected mismatch attached to a
// reconciliation record. Resolved is always false at creation; resolution is
// a manual follow-up.
type ReconciliationDiscrepancy struct {
	DiscrepancyID  string          `json:"discrepancyID"`
	TransactionID  string          `json:"transactionID,omitempty"`
	Type           DiscrepancyType `json:"type"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	Description    string          `json:"description"`
	Resolved       bool            `json:"resolved"`
}

// TypeSummary breaks the system balance down by bucket and direction at the
// reconciliation cutoff.
type TypeSummary struct {
	Bucket  Bucket          `json:"bucket"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ReconciliationRecord is the immutable result of one reconciliation attempt.
// A failed attempt still produces a record, with status in_progress and the
// discrepancy list populated.
type ReconciliationRecord struct {
	ReconciliationID   string                      `json:"reconciliationID"`
	BankAccountID      string                      `json:"bankAccountID"`
	ReconciliationDate time.Time                   `json:"reconciliationDate"`
	StatementBalance   decimal.Decimal             `json:"statementBalance"`
	SystemBalance      decimal.Decimal             `json:"systemBalance"`
	Status             ReconciliationStatus        `json:"status"`
	Notes              string                      `json:"notes,omitempty"`
	Discrepancies      []ReconciliationDiscrepancy `json:"discrepancies"`
	TypeSummaries      []TypeSummary               `json:"transactionTypeSummary"`
	AuditFields
}
