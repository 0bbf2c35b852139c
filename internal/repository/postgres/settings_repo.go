package postgres

import (
	"context"
	"database/sql"

	"invitesmanager/internal/domain"
)

type settingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) domain.SettingsRepository {
	return &settingsRepository{DB: db}
}

func (r *settingsRepository) Create(ctx context.Context, s *domain.EventSettings) error {
	query := `
		INSERT INTO event_settings (event_id, settings_type, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, s.EventID, string(s.SettingsType), string(s.Settings), s.CreatedAt, s.UpdatedAt)
	return mapError(err, domain.ErrConflict)
}

func (r *settingsRepository) GetByEventID(ctx context.Context, eventID string) (*domain.EventSettings, error) {
	query := `SELECT event_id, settings_type, settings, created_at, updated_at FROM event_settings WHERE event_id = $1`
	s := &domain.EventSettings{}
	var typ string
	var blob []byte
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&s.EventID, &typ, &blob, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	s.SettingsType = domain.EventType(typ)
	s.Settings = blob
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *domain.EventSettings) error {
	query := `UPDATE event_settings SET settings_type = $1, settings = $2, updated_at = $3 WHERE event_id = $4`
	res, err := r.DB.ExecContext(ctx, query, string(s.SettingsType), string(s.Settings), s.UpdatedAt, s.EventID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
