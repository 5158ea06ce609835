package sqlite

import (
	"context"
	"database/sql"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/pkg/idx"
)

type membersRepo struct {
	db dbtx
}

func (r *membersRepo) UpsertMembership(ctx context.Context, m domain.Membership) error {
	id := m.ID
	if id == "" {
		id = idx.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO community_members (id, community_id, user_id, role, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (community_id, user_id) DO UPDATE SET
		     role = excluded.role,
		     status = excluded.status,
		     updated_at = CURRENT_TIMESTAMP`,
		id, m.CommunityID, m.UserID, string(m.Role), string(m.Status))
	return err
}

func (r *membersRepo) GetMembership(ctx context.Context, communityID, userID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, community_id, user_id, role, status, last_active_at, created_at, updated_at
		 FROM community_members
		 WHERE community_id = ? AND user_id = ?`,
		communityID, userID)

	var (
		m          domain.Membership
		role       string
		status     string
		lastActive sql.NullTime
	)
	err := row.Scan(&m.ID, &m.CommunityID, &m.UserID, &role, &status,
		&lastActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}

	m.Role = domain.MemberRole(role)
	m.Status = domain.MemberStatus(status)
	m.LastActiveAt = mapNullTimePtr(lastActive)
	return m, nil
}

func (r *membersRepo) TouchLastActive(ctx context.Context, communityID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE community_members
		 SET last_active_at = CURRENT_TIMESTAMP
		 WHERE community_id = ? AND user_id = ?`,
		communityID, userID)
	return err
}
