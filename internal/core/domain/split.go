package domain

import "github.com/shopspring/decimal"

// TransactionSplit is a sub-allocation of one parent transaction's amount into
// a different category. Splits of a parent always sum to the parent amount
// within the ledger tolerance. Type mirrors the parent's type.
type TransactionSplit struct {
	SplitID             string            `json:"splitID"`
	ParentTransactionID string            `json:"parentTransactionID"`
	Category            Category          `json:"category"`
	Type                TransactionType   `json:"type"`
	Status              TransactionStatus `json:"status"`
	Amount              decimal.Decimal   `json:"amount"`
	Description         string            `json:"description"`
	Purpose             string            `json:"purpose,omitempty"`
	ProjectID           string            `json:"projectID,omitempty"`
	MemberID            string            `json:"memberID,omitempty"`
	PaymentRequestID    string            `json:"paymentRequestID,omitempty"`
	Year                int               `json:"year,omitempty"`
	AuditFields
}
