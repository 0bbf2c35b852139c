package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"invitesmanager/internal/domain"
)

type albumRepository struct {
	DB *sql.DB
}

func NewAlbumRepository(db *sql.DB) domain.AlbumRepository {
	return &albumRepository{DB: db}
}

func scanAlbum(s scanner) (*domain.Album, error) {
	a := &domain.Album{}
	if err := s.Scan(&a.ID, &a.EventID, &a.Name, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func scanAlbumImage(s scanner) (*domain.AlbumImage, error) {
	img := &domain.AlbumImage{}
	if err := s.Scan(&img.ID, &img.AlbumID, &img.URL, &img.PublicID, &img.SortOrder, &img.IsActive, &img.CreatedAt); err != nil {
		return nil, err
	}
	img.CreatedAt = img.CreatedAt.UTC()
	return img, nil
}

func (r *albumRepository) Create(ctx context.Context, a *domain.Album) error {
	query := `
		INSERT INTO albums (event_id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.EventID, a.Name, a.IsActive, a.CreatedAt).Scan(&a.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *albumRepository) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	query := `SELECT id, event_id, name, is_active, created_at FROM albums WHERE id = $1`
	a, err := scanAlbum(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return a, nil
}

func (r *albumRepository) ListActiveByEventID(ctx context.Context, eventID string) ([]*domain.Album, error) {
	query := `SELECT id, event_id, name, is_active, created_at FROM albums WHERE event_id = $1 AND is_active ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	albums := make([]*domain.Album, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (r *albumRepository) Rename(ctx context.Context, id, name string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE albums SET name = $1 WHERE id = $2 AND is_active`, name, id)
	if err != nil {
		return mapError(err, domain.ErrConflict)
	}
	return requireAffected(res)
}

func (r *albumRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE albums SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *albumRepository) ExistsByName(ctx context.Context, eventID, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM albums WHERE event_id = $1 AND lower(name) = $2 AND is_active)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, eventID, strings.ToLower(strings.TrimSpace(name))).Scan(&exists)
	return exists, err
}

func (r *albumRepository) CreateImages(ctx context.Context, images []*domain.AlbumImage) error {
	query := `
		INSERT INTO album_images (album_id, url, public_id, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, img := range images {
			if err := tx.QueryRowContext(ctx, query, img.AlbumID, img.URL, img.PublicID, img.SortOrder, img.IsActive, img.CreatedAt).Scan(&img.ID); err != nil {
				return mapError(err, domain.ErrConflict)
			}
		}
		return nil
	})
}

func (r *albumRepository) GetImageByID(ctx context.Context, id string) (*domain.AlbumImage, error) {
	query := `SELECT id, album_id, url, public_id, sort_order, is_active, created_at FROM album_images WHERE id = $1`
	img, err := scanAlbumImage(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return img, nil
}

func (r *albumRepository) ListActiveImages(ctx context.Context, albumID string) ([]*domain.AlbumImage, error) {
	query := `
		SELECT id, album_id, url, public_id, sort_order, is_active, created_at
		FROM album_images
		WHERE album_id = $1 AND is_active
		ORDER BY sort_order ASC, created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	images := make([]*domain.AlbumImage, 0)
	for rows.Next() {
		img, err := scanAlbumImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *albumRepository) MaxImageOrder(ctx context.Context, albumID string) (int, error) {
	var max int
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM album_images WHERE album_id = $1 AND is_active`, albumID).Scan(&max)
	return max, err
}

func (r *albumRepository) ReorderImages(ctx context.Context, orders []domain.ImageOrder) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, o := range orders {
			res, err := tx.ExecContext(ctx, `UPDATE album_images SET sort_order = $1 WHERE id = $2 AND is_active`, o.SortOrder, o.ID)
			if err != nil {
				return fmt.Errorf("reorder image %s: %w", o.ID, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("reorder image %s: %w", o.ID, err)
			}
		}
		return nil
	})
}

func (r *albumRepository) DeactivateImage(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE album_images SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
