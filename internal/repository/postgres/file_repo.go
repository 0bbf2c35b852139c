package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"invitesmanager/internal/domain"
)

type fileRepository struct {
	DB *sql.DB
}

func NewFileRepository(db *sql.DB) domain.FileRepository {
	return &fileRepository{DB: db}
}

func scanFile(s scanner) (*domain.File, error) {
	f := &domain.File{}
	var kind string
	var usage sql.NullString
	if err := s.Scan(&f.ID, &f.EventID, &kind, &f.URL, &f.PublicID, &usage, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Kind = domain.FileKind(kind)
	f.Usage = nullStringPtr(usage)
	f.CreatedAt = f.CreatedAt.UTC()
	return f, nil
}

const insertFileQuery = `
	INSERT INTO event_files (event_id, kind, url, public_id, usage, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
`

func (r *fileRepository) Create(ctx context.Context, f *domain.File) error {
	err := r.DB.QueryRowContext(ctx, insertFileQuery, f.EventID, string(f.Kind), f.URL, f.PublicID, f.Usage, f.CreatedAt).Scan(&f.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *fileRepository) CreateMany(ctx context.Context, files []*domain.File) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, f := range files {
			if err := tx.QueryRowContext(ctx, insertFileQuery, f.EventID, string(f.Kind), f.URL, f.PublicID, f.Usage, f.CreatedAt).Scan(&f.ID); err != nil {
				return mapError(err, domain.ErrConflict)
			}
		}
		return nil
	})
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	query := `SELECT id, event_id, kind, url, public_id, usage, created_at FROM event_files WHERE id = $1`
	f, err := scanFile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return f, nil
}

func (r *fileRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.File, error) {
	query := `SELECT id, event_id, kind, url, public_id, usage, created_at FROM event_files WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	files := make([]*domain.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *fileRepository) UpdateUsage(ctx context.Context, updates []domain.UsageUpdate) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, u := range updates {
			res, err := tx.ExecContext(ctx, `UPDATE event_files SET usage = $1 WHERE id = $2`, u.Usage, u.ID)
			if err != nil {
				return fmt.Errorf("update usage of %s: %w", u.ID, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("update usage of %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM event_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
