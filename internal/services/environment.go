package services

import (
	"context"
	"log/slog"
	"time"

	"invitesmanager/internal/domain"
)

type environmentService struct {
	repo           domain.EnvironmentRepository
	development    bool
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEnvironmentService creates an EnvironmentService. Reset is refused unless development is set.
func NewEnvironmentService(repo domain.EnvironmentRepository, development bool, logger *slog.Logger, timeout time.Duration) domain.EnvironmentService {
	return &environmentService{repo: repo, development: development, logger: logger, contextTimeout: timeout}
}

func (s *environmentService) Reset(ctx context.Context) error {
	if !s.development {
		return domain.ErrEnvironmentLocked
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.repo.ResetEventData(ctx); err != nil {
		return err
	}
	s.logger.WarnContext(ctx, "event data reset")
	return nil
}
