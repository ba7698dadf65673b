package services

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Notifier delivers member notifications. Delivery itself is an external
// concern; the engine only decides when a notification is due.
type Notifier interface {
	// NotifyDuesRenewal tells a member their dues transaction for the year
	// was generated.
	NotifyDuesRenewal(ctx context.Context, member domain.Member, amount decimal.Decimal, year int) error

	// NotifyDuesReminder nudges a member about an overdue pending dues
	// transaction.
	NotifyDuesReminder(ctx context.Context, member domain.Member, txn domain.Transaction, daysOverdue int) error
}
