package dto

import (
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryLinkRequest carries the inventory linkage trio. The trio is
// all-or-nothing: an incomplete link on an update clears the linkage.
type InventoryLinkRequest struct {
	ItemID   string `json:"itemID"`
	Variant  string `json:"variant"`
	Quantity int64  `json:"quantity"`
}

// CreateTransactionRequest is the payload for creating a ledger transaction.
type CreateTransactionRequest struct {
	Date            time.Time              `json:"date" binding:"required"`
	Description     string                 `json:"description" binding:"required"`
	Purpose         string                 `json:"purpose"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Type            domain.TransactionType `json:"type" binding:"required,transactiontype"`
	Category        domain.Category        `json:"category" binding:"required,category"`
	BankAccountID   string                 `json:"bankAccountID"`
	ProjectID       string                 `json:"projectID"`
	MemberID        string                 `json:"memberID"`
	ReferenceNumber string                 `json:"referenceNumber"`
	Inventory       *InventoryLinkRequest  `json:"inventory"`
}

// UpdateTransactionRequest is a partial update. Nil fields are left
// untouched. A non-nil Inventory replaces the linkage trio entirely; sending
// an incomplete trio removes the linkage.
type UpdateTransactionRequest struct {
	Date            *time.Time                `json:"date"`
	Description     *string                   `json:"description"`
	Purpose         *string                   `json:"purpose"`
	Amount          *decimal.Decimal          `json:"amount"`
	Type            *domain.TransactionType   `json:"type"`
	Category        *domain.Category          `json:"category"`
	Status          *domain.TransactionStatus `json:"status"`
	BankAccountID   *string                   `json:"bankAccountID"`
	ProjectID       *string                   `json:"projectID"`
	MemberID        *string                   `json:"memberID"`
	ReferenceNumber *string                   `json:"referenceNumber"`
	Inventory       *InventoryLinkRequest     `json:"inventory"`
}

// ListTransactionsParams narrows and paginates a transaction listing.
type ListTransactionsParams struct {
	Category      *domain.Category
	Status        *domain.TransactionStatus
	Type          *domain.TransactionType
	BankAccountID string
	ProjectID     string
	MemberID      string
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	NextToken     *string
}

// ListTransactionsResponse is a page of transactions plus the token for the
// next page.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// BatchRequest lists the transactions a batch operation targets.
type BatchRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
}

// BatchRecategorizeRequest moves a set of transactions to a new category.
type BatchRecategorizeRequest struct {
	TransactionIDs []string        `json:"transactionIDs" binding:"required,min=1"`
	Category       domain.Category `json:"category" binding:"required,category"`
}

// BatchItemError records one item's failure inside a batch operation.
type BatchItemError struct {
	TransactionID string `json:"transactionID"`
	Error         string `json:"error"`
}

// BatchResult aggregates a batch operation: per-item failures never block the
// rest of the batch.
type BatchResult struct {
	Updated int              `json:"updated"`
	Errors  []BatchItemError `json:"errors"`
}
