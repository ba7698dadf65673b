package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
)

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for the member roster.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

const memberColumns = `member_id, name, email, membership_type, date_of_birth, nationality,
	senator_certified, dues_status, created_at, created_by, last_updated_at, last_updated_by`

func scanMember(row pgx.Row) (domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.MemberID,
		&m.Name,
		&m.Email,
		&m.MembershipType,
		&m.DateOfBirth,
		&m.Nationality,
		&m.SenatorCertified,
		&m.DuesStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveMember inserts a new member.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.Name,
		member.Email,
		member.MembershipType,
		member.DateOfBirth,
		member.Nationality,
		member.SenatorCertified,
		member.DuesStatus,
		member.CreatedAt,
		member.CreatedBy,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save member %s: %w", member.MemberID, err)
	}
	return nil
}

// FindMemberByID retrieves a member by id.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	member, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	return &member, nil
}

// FindMembersByIDs retrieves multiple members keyed by member id. Missing ids
// are simply absent from the map.
func (r *PgxMemberRepository) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	result := make(map[string]domain.Member, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Member, error) {
		return scanMember(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	for _, member := range members {
		result[member.MemberID] = member
	}
	return result, nil
}

// ListMembers retrieves the roster, optionally filtered.
func (r *PgxMemberRepository) ListMembers(ctx context.Context, filter portsrepo.MemberFilter) ([]domain.Member, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if filter.MembershipType != nil {
		args = append(args, *filter.MembershipType)
		conditions = append(conditions, fmt.Sprintf("membership_type = $%d", len(args)))
	}
	if filter.DuesStatus != nil {
		args = append(args, *filter.DuesStatus)
		conditions = append(conditions, fmt.Sprintf("dues_status = $%d", len(args)))
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Member, error) {
		return scanMember(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	return members, nil
}

// UpdateMember overwrites an existing member record.
func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members SET
			name = $2, email = $3, membership_type = $4, date_of_birth = $5,
			nationality = $6, senator_certified = $7, dues_status = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE member_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.Name,
		member.Email,
		member.MembershipType,
		member.DateOfBirth,
		member.Nationality,
		member.SenatorCertified,
		member.DuesStatus,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update member %s: %w", member.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
