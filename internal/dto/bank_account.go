package dto

import (
	"time"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest is the payload for registering a bank account.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Currency       string          `json:"currency" binding:"required,len=3"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// BankAccountResponse is an account plus its freshly derived balance.
type BankAccountResponse struct {
	BankAccountID  string          `json:"bankAccountID"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	LastReconciled *time.Time      `json:"lastReconciled,omitempty"`
}

// ToBankAccountResponse maps a domain account and a computed balance to the
// response shape.
func ToBankAccountResponse(account domain.BankAccount, balance decimal.Decimal) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:  account.BankAccountID,
		Name:           account.Name,
		Currency:       account.Currency,
		InitialBalance: account.InitialBalance,
		Balance:        balance,
		LastReconciled: account.LastReconciled,
	}
}
