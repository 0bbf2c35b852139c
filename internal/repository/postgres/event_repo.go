package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"invitesmanager/internal/domain"
)

const eventColumns = `id, name, date_of_event, max_date_of_confirmation, type_of_event, name_of_celebrated, user_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var typ string
	if err := s.Scan(&e.ID, &e.Name, &e.DateOfEvent, &e.MaxDateOfConfirmation, &typ, &e.NameOfCelebrated, &e.UserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.TypeOfEvent = domain.EventType(typ)
	e.DateOfEvent = e.DateOfEvent.UTC()
	e.MaxDateOfConfirmation = e.MaxDateOfConfirmation.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, date_of_event, max_date_of_confirmation, type_of_event, name_of_celebrated, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.DateOfEvent, e.MaxDateOfConfirmation, string(e.TypeOfEvent), e.NameOfCelebrated, e.UserID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date_of_event ASC`
	return r.list(ctx, query)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 ORDER BY date_of_event ASC`
	return r.list(ctx, query, ownerID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event, override, overrideViewed bool) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events
			SET name = $1, date_of_event = $2, max_date_of_confirmation = $3, type_of_event = $4,
			    name_of_celebrated = $5, updated_at = $6
			WHERE id = $7
		`, e.Name, e.DateOfEvent, e.MaxDateOfConfirmation, string(e.TypeOfEvent), e.NameOfCelebrated, e.UpdatedAt, e.ID)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		switch {
		case override:
			if _, err := tx.ExecContext(ctx, `
				UPDATE invites
				SET confirmation = NULL, message = NULL, entries_confirmed = NULL, date_of_confirmation = NULL,
				    needs_accommodation = NULL, is_message_read = FALSE, invite_viewed = FALSE, updated_at = $2
				WHERE event_id = $1
			`, e.ID, e.UpdatedAt); err != nil {
				return fmt.Errorf("reset invites: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM event_settings WHERE event_id = $1`, e.ID); err != nil {
				return fmt.Errorf("delete settings: %w", err)
			}
		case overrideViewed:
			if _, err := tx.ExecContext(ctx, `
				UPDATE invites SET invite_viewed = FALSE, updated_at = $2 WHERE event_id = $1
			`, e.ID, e.UpdatedAt); err != nil {
				return fmt.Errorf("reset viewed: %w", err)
			}
		}
		return nil
	})
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
