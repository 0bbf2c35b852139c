package postgres

import (
	"context"
	"database/sql"

	"invitesmanager/internal/domain"
)

type environmentRepository struct {
	DB *sql.DB
}

func NewEnvironmentRepository(db *sql.DB) domain.EnvironmentRepository {
	return &environmentRepository{DB: db}
}

// eventDataTables lists every table holding event data, children first.
var eventDataTables = []string{"album_images", "albums", "event_files", "event_settings", "invites", "invite_groups", "events"}

func (r *environmentRepository) ResetEventData(ctx context.Context) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, table := range eventDataTables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return err
			}
		}
		return nil
	})
}
