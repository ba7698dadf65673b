package services

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/dto"
)

// DuesSvcFacade runs the annual membership dues renewal cycle.
type DuesSvcFacade interface {
	// InitiateRenewal scans prior-year paid dues, applies per-type
	// eligibility rules and generates this year's pending dues transactions.
	// Members are processed independently; one failure never aborts the run.
	InitiateRenewal(ctx context.Context, year int, actor string) (*dto.RenewalSummary, error)

	// SendReminders notifies members whose dues transactions have been
	// pending longer than the threshold. Senators are excluded.
	SendReminders(ctx context.Context, year int, daysOverdue int, actor string) (*dto.RemindersResult, error)

	// GetRenewalStatus summarises the year's dues transactions.
	GetRenewalStatus(ctx context.Context, year int) (*dto.RenewalStatus, error)

	// GetMembersDuesList joins the roster with the year's dues state.
	GetMembersDuesList(ctx context.Context, year int, params dto.MembersDuesParams) ([]dto.MemberDues, error)
}
