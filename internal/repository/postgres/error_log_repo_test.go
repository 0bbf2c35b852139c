package postgres

import (
	"context"
	"testing"
	"time"

	"invitesmanager/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLogRepository_ListSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM error_logs WHERE created_at >= \$1`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(since, 2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "error_code", "exception", "user_id"}).
			AddRow("log-3", since.Add(time.Hour), "internal_error", "boom", nil))

	entries, total, err := NewErrorLogRepository(db).ListSince(context.Background(), since, domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogRepository_DeleteBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM error_logs WHERE created_at < \$1`).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := NewErrorLogRepository(db).DeleteBefore(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
