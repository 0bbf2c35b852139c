package postgres

import (
	"context"
	"database/sql"

	"invitesmanager/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `INSERT INTO roles (name, is_active) VALUES ($1, $2) RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, role.Name, role.IsActive).Scan(&role.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getOne(ctx, `SELECT id, name, is_active FROM roles WHERE id = $1`, id)
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.getOne(ctx, `SELECT id, name, is_active FROM roles WHERE name = $1`, name)
}

func (r *roleRepository) getOne(ctx context.Context, query, arg string) (*domain.Role, error) {
	role := &domain.Role{}
	if err := r.DB.QueryRowContext(ctx, query, arg).Scan(&role.ID, &role.Name, &role.IsActive); err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.list(ctx, `SELECT id, name, is_active FROM roles ORDER BY name ASC`)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE roles SET name = $1, is_active = $2 WHERE id = $3`, role.Name, role.IsActive, role.ID)
	if err != nil {
		return mapError(err, domain.ErrConflict)
	}
	return requireAffected(res)
}

func (r *roleRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n)
	return n, err
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name, r.is_active
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		INNER JOIN users u ON u.id = ur.user_id
		WHERE ur.user_id = $1 AND r.is_active AND u.is_active
	`
	return r.list(ctx, query, userID)
}

func (r *roleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Role, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.IsActive); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
