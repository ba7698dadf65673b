package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger entry.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Category is the accounting category of a transaction or split.
// CategoryUnset is only legal on a transaction whose amount is currently
// allocated by splits.
type Category string

const (
	CategoryProjects       Category = "PROJECTS_AND_ACTIVITIES"
	CategoryMembership     Category = "MEMBERSHIP"
	CategoryAdministrative Category = "ADMINISTRATIVE"
	CategoryUnset          Category = ""
)

// ValidCategory reports whether c is one of the three real categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryProjects, CategoryMembership, CategoryAdministrative:
		return true
	}
	return false
}

// TransactionStatus tracks a transaction through its clearing lifecycle.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusCleared    TransactionStatus = "CLEARED"
	StatusReconciled TransactionStatus = "RECONCILED"
)

// InventoryLink ties a transaction to a stock movement against an item
// variant. The three fields are all-or-nothing: a partially filled link is
// treated as absent.
type InventoryLink struct {
	ItemID   string `json:"itemID"`
	Variant  string `json:"variant"`
	Quantity int64  `json:"quantity"`
}

// Complete reports whether the link carries every field it needs to sync.
func (l InventoryLink) Complete() bool {
	return l.ItemID != "" && l.Variant != "" && l.Quantity != 0
}

// Transaction is a single canonical ledger entry. Amount is always positive;
// direction comes from Type. While the transaction is split, Category,
// ProjectID and Purpose are cleared and the pre-split category is preserved in
// OriginalCategory for restoration when the last split is removed.
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	Date             time.Time         `json:"date"`
	Description      string            `json:"description"`
	Purpose          string            `json:"purpose,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	Type             TransactionType   `json:"type"`
	Category         Category          `json:"category"`
	Status           TransactionStatus `json:"status"`
	BankAccountID    string            `json:"bankAccountID,omitempty"`
	ProjectID        string            `json:"projectID,omitempty"`
	MemberID         string            `json:"memberID,omitempty"`
	ReferenceNumber  string            `json:"referenceNumber,omitempty"`
	IsSplit          bool              `json:"isSplit"`
	SplitIDs         []string          `json:"splitIDs,omitempty"`
	OriginalCategory Category          `json:"originalCategory,omitempty"`
	Inventory        InventoryLink     `json:"inventory,omitempty"`
	AuditFields
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: Income positive, Expense negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
