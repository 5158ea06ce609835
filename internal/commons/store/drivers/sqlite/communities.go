package sqlite

import (
	"context"

	"github.com/commonsapp/commons/internal/commons/domain"
)

type communitiesRepo struct {
	db dbtx
}

const communityColumns = `id, slug, name, status, created_at, updated_at`

func (r *communitiesRepo) CreateCommunity(ctx context.Context, c domain.Community) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO communities (id, slug, name, status)
		 VALUES (?, ?, ?, ?)`,
		c.ID, c.Slug, c.Name, string(c.Status))
	return err
}

func (r *communitiesRepo) GetCommunityBySlug(ctx context.Context, slug string) (domain.Community, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+communityColumns+` FROM communities WHERE slug = ?`, slug)

	var c domain.Community
	var status string
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Community{}, mapNotFound(err)
	}
	c.Status = domain.CommunityStatus(status)
	return c, nil
}

func (r *communitiesRepo) GetCommunityByID(ctx context.Context, id string) (domain.Community, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+communityColumns+` FROM communities WHERE id = ?`, id)

	var c domain.Community
	var status string
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Community{}, mapNotFound(err)
	}
	c.Status = domain.CommunityStatus(status)
	return c, nil
}

func (r *communitiesRepo) ListCommunities(ctx context.Context) ([]domain.Community, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+communityColumns+` FROM communities ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Community
	for rows.Next() {
		var c domain.Community
		var status string
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Status = domain.CommunityStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}
