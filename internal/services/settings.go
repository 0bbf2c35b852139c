package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"invitesmanager/internal/domain"
)

type settingsService struct {
	settingsRepo   domain.SettingsRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(settingsRepo domain.SettingsRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.SettingsService {
	return &settingsService{
		settingsRepo:   settingsRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *settingsService) Get(ctx context.Context, caller domain.Caller, eventID string) (*domain.EventSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	return s.settingsRepo.GetByEventID(ctx, eventID)
}

// prepare resolves the type slug, checks it against the event and validates the blob.
func (s *settingsService) prepare(ctx context.Context, caller domain.Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*domain.EventSettings, error) {
	eventType, ok := domain.EventTypeFromSlug(eventTypeSlug)
	if !ok {
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, eventTypeSlug)
	}
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: settings must be a JSON object", domain.ErrInvalidInput)
	}
	event, err := ownedEvent(ctx, s.eventRepo, caller, eventID)
	if err != nil {
		return nil, err
	}
	if event.TypeOfEvent != eventType {
		return nil, fmt.Errorf("%w: event is not a %s", domain.ErrInvalidInput, eventTypeSlug)
	}
	now := s.now().UTC()
	return &domain.EventSettings{
		EventID:      eventID,
		SettingsType: eventType,
		Settings:     json.RawMessage(trimmed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *settingsService) Create(ctx context.Context, caller domain.Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*domain.EventSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	settings, err := s.prepare(ctx, caller, eventID, eventTypeSlug, blob)
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, caller domain.Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*domain.EventSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	settings, err := s.prepare(ctx, caller, eventID, eventTypeSlug, blob)
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.settingsRepo.GetByEventID(ctx, eventID)
}
