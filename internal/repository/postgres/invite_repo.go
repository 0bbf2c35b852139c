package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invitesmanager/internal/domain"

	"github.com/lib/pq"
)

const inviteColumns = `i.id, i.family, i.entries_number, i.phone_number, i.kids_allowed, i.entries_confirmed, i.message,
	i.confirmation, i.date_of_confirmation, i.is_message_read, i.invite_viewed, i.needs_accommodation,
	i.event_id, i.invite_group_id, i.created_at, i.updated_at`

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{DB: db}
}

func scanInvite(s scanner) (*domain.Invite, error) {
	inv := &domain.Invite{}
	var (
		entriesConfirmed   sql.NullInt64
		message            sql.NullString
		confirmation       sql.NullBool
		dateOfConfirmation sql.NullTime
		needsAccommodation sql.NullBool
	)
	err := s.Scan(
		&inv.ID, &inv.Family, &inv.EntriesNumber, &inv.PhoneNumber, &inv.KidsAllowed, &entriesConfirmed, &message,
		&confirmation, &dateOfConfirmation, &inv.IsMessageRead, &inv.InviteViewed, &needsAccommodation,
		&inv.EventID, &inv.InviteGroupID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.EntriesConfirmed = nullIntPtr(entriesConfirmed)
	inv.Message = nullStringPtr(message)
	inv.Confirmation = nullBoolPtr(confirmation)
	inv.DateOfConfirmation = nullTimePtr(dateOfConfirmation)
	inv.NeedsAccommodation = nullBoolPtr(needsAccommodation)
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return inv, nil
}

const insertInvite = `
	INSERT INTO invites (family, entries_number, phone_number, kids_allowed, event_id, invite_group_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
`

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	err := r.DB.QueryRowContext(ctx, insertInvite,
		inv.Family, inv.EntriesNumber, inv.PhoneNumber, inv.KidsAllowed, inv.EventID, inv.InviteGroupID, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	return mapError(err, domain.ErrConflict)
}

func (r *inviteRepository) BulkCreate(ctx context.Context, newGroups []*domain.InviteGroup, invites []*domain.Invite) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, g := range newGroups {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO invite_groups (id, event_id, invite_group, created_at) VALUES ($1, $2, $3, $4)
			`, g.ID, g.EventID, g.InviteGroup, g.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert invite group %q: %w", g.InviteGroup, mapError(err, domain.ErrConflict))
			}
		}
		for _, inv := range invites {
			err := tx.QueryRowContext(ctx, insertInvite,
				inv.Family, inv.EntriesNumber, inv.PhoneNumber, inv.KidsAllowed, inv.EventID, inv.InviteGroupID, inv.CreatedAt, inv.UpdatedAt,
			).Scan(&inv.ID)
			if err != nil {
				return fmt.Errorf("insert invite %q: %w", inv.Family, mapError(err, domain.ErrConflict))
			}
		}
		return nil
	})
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites i WHERE i.id = $1`
	inv, err := scanInvite(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrConflict)
	}
	return inv, nil
}

func (r *inviteRepository) List(ctx context.Context) ([]*domain.Invite, error) {
	return r.list(ctx, `SELECT `+inviteColumns+` FROM invites i ORDER BY i.created_at ASC`)
}

func (r *inviteRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invite, error) {
	return r.list(ctx, `SELECT `+inviteColumns+` FROM invites i WHERE i.event_id = $1 ORDER BY i.created_at ASC`, eventID)
}

func (r *inviteRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + `
		FROM invites i
		INNER JOIN events e ON e.id = i.event_id
		WHERE e.user_id = $1
		ORDER BY i.created_at ASC`
	return r.list(ctx, query, ownerID)
}

func (r *inviteRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Invite, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invites := make([]*domain.Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *inviteRepository) Update(ctx context.Context, inv *domain.Invite) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invites
		SET family = $1, entries_number = $2, phone_number = $3, kids_allowed = $4, invite_group_id = $5, updated_at = $6
		WHERE id = $7
	`, inv.Family, inv.EntriesNumber, inv.PhoneNumber, inv.KidsAllowed, inv.InviteGroupID, inv.UpdatedAt, inv.ID)
	if err != nil {
		return mapError(err, domain.ErrConflict)
	}
	return requireAffected(res)
}

func (r *inviteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *inviteRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invites WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *inviteRepository) SubmitRSVP(ctx context.Context, id string, rsvp domain.RSVP) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invites
		SET confirmation = $2, entries_confirmed = $3, message = $4, needs_accommodation = $5,
		    date_of_confirmation = $6, updated_at = $6
		WHERE id = $1 AND confirmation IS NULL
	`, id, rsvp.Confirmation, rsvp.EntriesConfirmed, rsvp.Message, rsvp.NeedsAccommodation, rsvp.DateOfConfirmation)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM invites WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyConfirmed
}

func (r *inviteRepository) CancelPending(ctx context.Context, eventID string, at time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invites
		SET confirmation = FALSE, message = NULL, entries_confirmed = 0, date_of_confirmation = $2, updated_at = $2
		WHERE event_id = $1 AND confirmation IS NULL
	`, eventID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *inviteRepository) OverwriteConfirmation(ctx context.Context, id string, rsvp domain.RSVP) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invites
		SET confirmation = $2, entries_confirmed = $3, message = NULL, date_of_confirmation = $4, updated_at = $4
		WHERE id = $1
	`, id, rsvp.Confirmation, rsvp.EntriesConfirmed, rsvp.DateOfConfirmation)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *inviteRepository) MarkMessageRead(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE invites SET is_message_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *inviteRepository) MarkViewed(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE invites SET invite_viewed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
