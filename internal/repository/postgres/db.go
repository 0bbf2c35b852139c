package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"invitesmanager/internal/domain"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PoolConfig holds connection pool limits.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres, applies the pool limits and checks the connection.
func Open(ctx context.Context, databaseURL string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction. The transaction is rolled back when fn fails.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mapError turns driver errors into domain errors. sql.ErrNoRows becomes ErrNotFound,
// unique violations become conflict and foreign-key violations invalid input.
func mapError(err error, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var perr *pq.Error
	if errors.As(err, &perr) {
		switch perr.Code {
		case pqUniqueViolation:
			return conflict
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s does not exist", domain.ErrInvalidInput, referencedField(perr.Constraint))
		}
	}
	return err
}

// referencedField names the request field behind a foreign-key constraint, so the
// client message never carries schema names.
func referencedField(constraint string) string {
	switch {
	case strings.HasSuffix(constraint, "_invite_group_id_fkey"):
		return "inviteGroupId"
	case strings.HasSuffix(constraint, "_event_id_fkey"):
		return "eventId"
	case strings.HasSuffix(constraint, "_album_id_fkey"):
		return "albumId"
	case strings.HasSuffix(constraint, "_user_id_fkey"):
		return "userId"
	case strings.HasSuffix(constraint, "_role_id_fkey"):
		return "roleId"
	}
	return "referenced record"
}

// requireAffected returns ErrNotFound when a write touched no row.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
