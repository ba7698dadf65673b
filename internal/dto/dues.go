package dto

import (
	"github.com/chapterfin/chapterledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RenewalSummary aggregates one dues renewal run. Validation failures are
// collected per member; they never abort the run.
type RenewalSummary struct {
	Year              int                           `json:"year"`
	TotalMembers      int                           `json:"totalMembers"`
	RenewalsByType    map[domain.MembershipType]int `json:"renewalsByType"`
	NotificationsSent int                           `json:"notificationsSent"`
	ValidationErrors  []string                      `json:"validationErrors"`
}

// RenewalStatus summarises the dues transactions of a renewal year.
type RenewalStatus struct {
	Year          int             `json:"year"`
	PendingCount  int             `json:"pendingCount"`
	ClearedCount  int             `json:"clearedCount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	ClearedAmount decimal.Decimal `json:"clearedAmount"`
}

// MembersDuesParams filters the members dues list.
type MembersDuesParams struct {
	MembershipType *domain.MembershipType
	DuesStatus     *domain.DuesStatus
}

// MemberDues is one roster entry joined with its current-year dues
// transaction, when one exists.
type MemberDues struct {
	Member            domain.Member            `json:"member"`
	DuesTransactionID string                   `json:"duesTransactionID,omitempty"`
	DuesAmount        decimal.Decimal          `json:"duesAmount"`
	TransactionStatus domain.TransactionStatus `json:"transactionStatus,omitempty"`
}

// RemindersResult reports how many dues reminders went out.
type RemindersResult struct {
	Year          int `json:"year"`
	DaysOverdue   int `json:"daysOverdue"`
	RemindersSent int `json:"remindersSent"`
}
