package postgres

import (
	"context"
	"database/sql"
	"strings"

	"invitesmanager/internal/domain"
)

type inviteGroupRepository struct {
	DB *sql.DB
}

func NewInviteGroupRepository(db *sql.DB) domain.InviteGroupRepository {
	return &inviteGroupRepository{DB: db}
}

func (r *inviteGroupRepository) Create(ctx context.Context, g *domain.InviteGroup) error {
	query := `
		INSERT INTO invite_groups (event_id, invite_group, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, g.EventID, g.InviteGroup, g.CreatedAt).Scan(&g.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *inviteGroupRepository) GetByID(ctx context.Context, id string) (*domain.InviteGroup, error) {
	query := `SELECT id, invite_group, event_id, created_at FROM invite_groups WHERE id = $1`
	g := &domain.InviteGroup{}
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.InviteGroup, &g.EventID, &g.CreatedAt); err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	g.CreatedAt = g.CreatedAt.UTC()
	return g, nil
}

func (r *inviteGroupRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.InviteGroup, error) {
	query := `SELECT id, invite_group, event_id, created_at FROM invite_groups WHERE event_id = $1 ORDER BY invite_group ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]*domain.InviteGroup, 0)
	for rows.Next() {
		g := &domain.InviteGroup{}
		if err := rows.Scan(&g.ID, &g.InviteGroup, &g.EventID, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.CreatedAt = g.CreatedAt.UTC()
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *inviteGroupRepository) Rename(ctx context.Context, id, name string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE invite_groups SET invite_group = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapError(err, domain.ErrConflict)
	}
	return requireAffected(res)
}

func (r *inviteGroupRepository) ExistsByName(ctx context.Context, eventID, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invite_groups WHERE event_id = $1 AND lower(invite_group) = $2)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, eventID, strings.ToLower(strings.TrimSpace(name))).Scan(&exists)
	return exists, err
}
