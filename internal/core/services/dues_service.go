package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
	"github.com/chapterfin/chapterledger/internal/platform/dues"
)

// duesService runs the annual membership dues cycle. Renewal candidates are
// the members who had a cleared dues transaction the prior year; each is
// processed independently so a single ineligible member never aborts the run.
type duesService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	notifier    portssvc.Notifier
	schedule    dues.Schedule
	homeCountry string
}

// NewDuesService creates the dues renewal engine.
func NewDuesService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	notifier portssvc.Notifier,
	schedule dues.Schedule,
	homeCountry string,
) portssvc.DuesSvcFacade {
	return &duesService{
		txnRepo:     txnRepo,
		memberRepo:  memberRepo,
		notifier:    notifier,
		schedule:    schedule,
		homeCountry: homeCountry,
	}
}

var _ portssvc.DuesSvcFacade = (*duesService)(nil)

// InitiateRenewal generates this year's pending dues transactions for every
// member who had cleared dues the prior year. Re-running the same year skips
// members that already have a dues transaction, so the operation is
// idempotent.
func (s *duesService) InitiateRenewal(ctx context.Context, year int, actor string) (*dto.RenewalSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidateIDs, err := s.txnRepo.FindDuesMemberIDsByYear(ctx, year-1, domain.StatusCleared)
	if err != nil {
		return nil, fmt.Errorf("failed to find prior-year dues payers: %w", err)
	}

	existing, err := s.txnRepo.FindMembershipTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find current-year dues transactions: %w", err)
	}
	alreadyRenewed := make(map[string]bool, len(existing))
	for _, txn := range existing {
		alreadyRenewed[txn.MemberID] = true
	}

	members, err := s.memberRepo.FindMembersByIDs(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load renewal candidates: %w", err)
	}

	summary := dto.RenewalSummary{
		Year:             year,
		TotalMembers:     len(candidateIDs),
		RenewalsByType:   make(map[domain.MembershipType]int),
		ValidationErrors: []string{},
	}
	renewalDate := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	for _, memberID := range candidateIDs {
		if alreadyRenewed[memberID] {
			continue
		}
		member, ok := members[memberID]
		if !ok {
			summary.ValidationErrors = append(summary.ValidationErrors, fmt.Sprintf("member %s: not found on roster", memberID))
			continue
		}
		if reason := s.checkEligibility(member, renewalDate); reason != "" {
			summary.ValidationErrors = append(summary.ValidationErrors, fmt.Sprintf("member %s: %s", memberID, reason))
			continue
		}
		amount, ok := s.schedule.AmountFor(member.MembershipType)
		if !ok {
			summary.ValidationErrors = append(summary.ValidationErrors, fmt.Sprintf("member %s: no dues schedule entry for type %s", memberID, member.MembershipType))
			continue
		}

		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          renewalDate,
			Description:   fmt.Sprintf("Annual membership dues %d", year),
			Amount:        amount,
			Type:          domain.Income,
			Category:      domain.CategoryMembership,
			Status:        domain.StatusPending,
			MemberID:      memberID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		if amount.IsZero() {
			// Zero-dues types owe nothing; the transaction clears immediately
			// so the member stays in next year's prior-year-cleared scan, and
			// no payment notification goes out.
			txn.Status = domain.StatusCleared
		}
		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			summary.ValidationErrors = append(summary.ValidationErrors, fmt.Sprintf("member %s: failed to save dues transaction: %v", memberID, err))
			continue
		}
		summary.RenewalsByType[member.MembershipType]++

		if amount.IsZero() {
			member.DuesStatus = domain.DuesPaid
			member.LastUpdatedAt = now
			member.LastUpdatedBy = actor
			if err := s.memberRepo.UpdateMember(ctx, member); err != nil {
				logger.Error("Failed to mark zero-dues member paid", slog.String("member_id", memberID), slog.String("error", err.Error()))
			}
			continue
		}

		if err := s.notifier.NotifyDuesRenewal(ctx, member, amount, year); err != nil {
			logger.Warn("Dues renewal notification failed", slog.String("member_id", memberID), slog.String("error", err.Error()))
			continue
		}
		summary.NotificationsSent++
	}

	logger.Info("Dues renewal run completed",
		slog.Int("year", year),
		slog.Int("candidates", summary.TotalMembers),
		slog.Int("notifications_sent", summary.NotificationsSent),
		slog.Int("validation_errors", len(summary.ValidationErrors)))
	return &summary, nil
}

// checkEligibility returns a non-empty reason when the member's type-specific
// rule fails. Probation and Full membership have no extra rule.
func (s *duesService) checkEligibility(member domain.Member, at time.Time) string {
	switch member.MembershipType {
	case domain.MembershipHonorary:
		age := member.AgeAt(at)
		if age < 0 {
			return "honorary membership requires a known date of birth"
		}
		if age <= 40 {
			return fmt.Sprintf("honorary membership requires age over 40, member is %d", age)
		}
	case domain.MembershipVisiting:
		if member.Nationality == "" {
			return "visiting membership requires a known nationality"
		}
		if member.Nationality == s.homeCountry {
			return fmt.Sprintf("visiting membership requires a nationality other than %s", s.homeCountry)
		}
	case domain.MembershipSenator:
		if !member.SenatorCertified {
			return "senator membership requires certification"
		}
	}
	return ""
}

// SendReminders notifies members whose dues transactions have been pending
// longer than daysOverdue. Senators never receive reminders.
func (s *duesService) SendReminders(ctx context.Context, year int, daysOverdue int, actor string) (*dto.RemindersResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txns, err := s.txnRepo.FindMembershipTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find dues transactions for %d: %w", year, err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -daysOverdue)
	overdue := make([]domain.Transaction, 0)
	memberIDs := make([]string, 0)
	for _, txn := range txns {
		if txn.Status != domain.StatusPending || txn.MemberID == "" {
			continue
		}
		if txn.Date.After(cutoff) {
			continue
		}
		overdue = append(overdue, txn)
		memberIDs = append(memberIDs, txn.MemberID)
	}

	result := dto.RemindersResult{Year: year, DaysOverdue: daysOverdue}
	if len(overdue) == 0 {
		return &result, nil
	}

	members, err := s.memberRepo.FindMembersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load members for reminders: %w", err)
	}

	for _, txn := range overdue {
		member, ok := members[txn.MemberID]
		if !ok || member.MembershipType == domain.MembershipSenator {
			continue
		}
		if err := s.notifier.NotifyDuesReminder(ctx, member, txn, daysOverdue); err != nil {
			logger.Warn("Dues reminder failed", slog.String("member_id", member.MemberID), slog.String("error", err.Error()))
			continue
		}
		result.RemindersSent++
	}

	logger.Info("Dues reminders sent", slog.Int("year", year), slog.Int("reminders_sent", result.RemindersSent))
	return &result, nil
}

// GetRenewalStatus summarises the year's dues transactions by payment state.
func (s *duesService) GetRenewalStatus(ctx context.Context, year int) (*dto.RenewalStatus, error) {
	txns, err := s.txnRepo.FindMembershipTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find dues transactions for %d: %w", year, err)
	}

	status := dto.RenewalStatus{Year: year}
	for _, txn := range txns {
		if txn.Status == domain.StatusPending {
			status.PendingCount++
			status.PendingAmount = status.PendingAmount.Add(txn.Amount)
			continue
		}
		status.ClearedCount++
		status.ClearedAmount = status.ClearedAmount.Add(txn.Amount)
	}
	return &status, nil
}

// GetMembersDuesList joins the member roster with the year's dues
// transactions.
func (s *duesService) GetMembersDuesList(ctx context.Context, year int, params dto.MembersDuesParams) ([]dto.MemberDues, error) {
	members, err := s.memberRepo.ListMembers(ctx, portsrepo.MemberFilter{
		MembershipType: params.MembershipType,
		DuesStatus:     params.DuesStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	txns, err := s.txnRepo.FindMembershipTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find dues transactions for %d: %w", year, err)
	}
	byMember := make(map[string]domain.Transaction, len(txns))
	for _, txn := range txns {
		byMember[txn.MemberID] = txn
	}

	list := make([]dto.MemberDues, 0, len(members))
	for _, member := range members {
		entry := dto.MemberDues{Member: member}
		if txn, ok := byMember[member.MemberID]; ok {
			entry.DuesTransactionID = txn.TransactionID
			entry.DuesAmount = txn.Amount
			entry.TransactionStatus = txn.Status
		}
		list = append(list, entry)
	}
	return list, nil
}
