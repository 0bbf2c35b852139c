package domain

import (
	"context"
	"time"
)

// ErrorLog is an append-only record of an unexpected failure.
// swagger:model ErrorLog
type ErrorLog struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ErrorCode string    `json:"errorCode"`
	Exception string    `json:"exception"`
	UserID    *string   `json:"userId"`
}

// ErrorLogRepository defines storage operations for the error log.
type ErrorLogRepository interface {
	Create(ctx context.Context, entry *ErrorLog) error
	ListSince(ctx context.Context, since time.Time, params PaginationParams) ([]*ErrorLog, int, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ErrorLogService records and exposes unexpected failures.
type ErrorLogService interface {
	Record(ctx context.Context, userID, code string, err error)
	List(ctx context.Context, params PaginationParams) ([]*ErrorLog, int, error)
	Purge(ctx context.Context) (int64, error)
}
