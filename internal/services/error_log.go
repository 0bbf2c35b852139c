package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"invitesmanager/internal/domain"
)

type errorLogService struct {
	repo           domain.ErrorLogRepository
	retention      time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewErrorLogService creates an ErrorLogService that keeps entries for retention.
func NewErrorLogService(repo domain.ErrorLogRepository, retention time.Duration, logger *slog.Logger, timeout time.Duration) domain.ErrorLogService {
	return &errorLogService{
		repo:           repo,
		retention:      retention,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Record persists err. It outlives the request context so a cancelled request is still logged.
func (s *errorLogService) Record(ctx context.Context, userID, code string, err error) {
	if err == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.contextTimeout)
	defer cancel()

	entry := &domain.ErrorLog{
		CreatedAt: s.now().UTC(),
		ErrorCode: code,
		Exception: err.Error(),
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if werr := s.repo.Create(ctx, entry); werr != nil {
		s.logger.ErrorContext(ctx, "failed to persist error log", "code", code, "err", err, "write_err", werr)
	}
}

func (s *errorLogService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.ErrorLog, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.repo.ListSince(ctx, s.now().UTC().Add(-s.retention), params)
}

// Purge deletes entries older than the retention window.
func (s *errorLogService) Purge(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.repo.DeleteBefore(ctx, s.now().UTC().Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("purge error logs: %w", err)
	}
	return n, nil
}
