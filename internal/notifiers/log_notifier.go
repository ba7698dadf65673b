package notifiers

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
)

// LogNotifier writes notifications to the structured log. Real delivery
// (email, chat) is handled outside this service; the log line is the handoff
// point.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) NotifyDuesRenewal(_ context.Context, member domain.Member, amount decimal.Decimal, year int) error {
	n.logger.Info("Dues renewal notification",
		slog.String("member_id", member.MemberID),
		slog.String("email", member.Email),
		slog.String("membership_type", string(member.MembershipType)),
		slog.String("amount", amount.String()),
		slog.Int("year", year))
	return nil
}

func (n *LogNotifier) NotifyDuesReminder(_ context.Context, member domain.Member, txn domain.Transaction, daysOverdue int) error {
	n.logger.Info("Dues reminder notification",
		slog.String("member_id", member.MemberID),
		slog.String("email", member.Email),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()),
		slog.Int("days_overdue", daysOverdue))
	return nil
}
