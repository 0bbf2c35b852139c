package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invitesmanager/internal/domain"

	"github.com/lib/pq"
)

const userColumns = `id, username, email, password_hash, salt, first_name, last_name, is_active, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

// userConflict maps a unique violation on users to the duplicate field it hit.
func userConflict(err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == pqUniqueViolation {
		if perr.Constraint == "users_username_key" {
			return domain.ErrDuplicateUsername
		}
		return domain.ErrDuplicateEmail
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func scanUser(s scanner) (*domain.User, error) {
	u := &domain.User{}
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, salt, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Salt, u.FirstName, u.LastName, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	return userConflict(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, userConflict(err)
	}
	roles, err := r.rolesByUserIDs(ctx, []string{u.ID})
	if err != nil {
		return nil, err
	}
	u.Roles = roles[u.ID]
	return u, nil
}

func (r *userRepository) rolesByUserIDs(ctx context.Context, ids []string) (map[string][]*domain.Role, error) {
	query := `
		SELECT ur.user_id, r.id, r.name, r.is_active
		FROM user_roles ur
		INNER JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY r.name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]*domain.Role, len(ids))
	for rows.Next() {
		var userID string
		role := &domain.Role{}
		if err := rows.Scan(&userID, &role.ID, &role.Name, &role.IsActive); err != nil {
			return nil, err
		}
		out[userID] = append(out[userID], role)
	}
	return out, rows.Err()
}

func (r *userRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username ASC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	ids := make([]string, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return users, total, nil
	}
	roles, err := r.rolesByUserIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		u.Roles = roles[u.ID]
	}
	return users, total, nil
}

func (r *userRepository) ListBasic(ctx context.Context) ([]*domain.UserBasic, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username FROM users WHERE is_active ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.UserBasic, 0)
	for rows.Next() {
		u := &domain.UserBasic{}
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, salt = $4, first_name = $5, last_name = $6,
		    is_active = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.Salt, u.FirstName, u.LastName, u.IsActive, u.UpdatedAt, u.ID)
	if err != nil {
		return userConflict(err)
	}
	if err := requireAffected(res); err != nil {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetRoles(ctx context.Context, userID string, roleIDs []string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear roles: %w", err)
		}
		for _, roleID := range roleIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO user_roles (user_id, role_id)
				VALUES ($1, $2)
				ON CONFLICT (user_id, role_id) DO NOTHING
			`, userID, roleID)
			if err != nil {
				return fmt.Errorf("assign role %s: %w", roleID, mapError(err, domain.ErrConflict))
			}
		}
		return nil
	})
}
