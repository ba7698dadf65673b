package repositories

import (
	"context"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// MemberFilter narrows a member listing. Zero fields are ignored.
type MemberFilter struct {
	MembershipType *domain.MembershipType
	DuesStatus     *domain.DuesStatus
}

// MemberRepositoryFacade defines persistence operations for the member
// roster.
type MemberRepositoryFacade interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// FindMemberByID retrieves a member by id.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMembersByIDs retrieves multiple members keyed by member id. Missing
	// ids are simply absent from the map.
	FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error)

	// ListMembers retrieves the roster, optionally filtered.
	ListMembers(ctx context.Context, filter MemberFilter) ([]domain.Member, error)

	// UpdateMember overwrites an existing member record.
	UpdateMember(ctx context.Context, member domain.Member) error
}
