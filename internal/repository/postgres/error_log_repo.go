package postgres

import (
	"context"
	"database/sql"
	"time"

	"invitesmanager/internal/domain"
)

type errorLogRepository struct {
	DB *sql.DB
}

func NewErrorLogRepository(db *sql.DB) domain.ErrorLogRepository {
	return &errorLogRepository{DB: db}
}

func (r *errorLogRepository) Create(ctx context.Context, e *domain.ErrorLog) error {
	query := `
		INSERT INTO error_logs (created_at, error_code, exception, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.CreatedAt, e.ErrorCode, e.Exception, e.UserID).Scan(&e.ID)
}

func (r *errorLogRepository) ListSince(ctx context.Context, since time.Time, params domain.PaginationParams) ([]*domain.ErrorLog, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM error_logs WHERE created_at >= $1`, since).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, created_at, error_code, exception, user_id
		FROM error_logs
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, since, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	entries := make([]*domain.ErrorLog, 0)
	for rows.Next() {
		e := &domain.ErrorLog{}
		var userID sql.NullString
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.ErrorCode, &e.Exception, &userID); err != nil {
			return nil, 0, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.UserID = nullStringPtr(userID)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *errorLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM error_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
