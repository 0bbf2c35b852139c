package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invitesmanager/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	inviteRepo     domain.InviteRepository
	settingsRepo   domain.SettingsRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates an EventService backed by the given repositories.
func NewEventService(eventRepo domain.EventRepository, inviteRepo domain.InviteRepository, settingsRepo domain.SettingsRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		settingsRepo:   settingsRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// ownedEvent loads an event and checks that caller may act on it.
func ownedEvent(ctx context.Context, repo domain.EventRepository, caller domain.Caller, eventID string) (*domain.Event, error) {
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(event.UserID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !e.TypeOfEvent.Valid() {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, e.TypeOfEvent)
	}
	if e.DateOfEvent.IsZero() {
		return fmt.Errorf("%w: dateOfEvent is required", domain.ErrInvalidInput)
	}
	if e.MaxDateOfConfirmation.IsZero() {
		return fmt.Errorf("%w: maxDateOfConfirmation is required", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, caller domain.Caller, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}
	// Only admins may create an event on behalf of another user.
	if event.UserID == "" || !caller.IsAdmin() {
		event.UserID = caller.UserID
	}
	if event.UserID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	event.Name = strings.TrimSpace(event.Name)
	event.NameOfCelebrated = strings.TrimSpace(event.NameOfCelebrated)
	event.DateOfEvent = event.DateOfEvent.UTC()
	event.MaxDateOfConfirmation = event.MaxDateOfConfirmation.UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, caller domain.Caller, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return ownedEvent(ctx, s.eventRepo, caller, id)
}

func (s *eventService) ListEvents(ctx context.Context, caller domain.Caller) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller.IsAdmin() {
		return s.eventRepo.List(ctx)
	}
	return s.eventRepo.ListByOwnerID(ctx, caller.UserID)
}

func (s *eventService) UpdateEvent(ctx context.Context, caller domain.Caller, id string, fields *domain.Event, override, overrideViewed bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(fields); err != nil {
		return nil, err
	}
	event, err := ownedEvent(ctx, s.eventRepo, caller, id)
	if err != nil {
		return nil, err
	}

	event.Name = strings.TrimSpace(fields.Name)
	event.DateOfEvent = fields.DateOfEvent.UTC()
	event.MaxDateOfConfirmation = fields.MaxDateOfConfirmation.UTC()
	event.TypeOfEvent = fields.TypeOfEvent
	event.NameOfCelebrated = strings.TrimSpace(fields.NameOfCelebrated)
	event.UpdatedAt = s.now().UTC()

	if err := s.eventRepo.Update(ctx, event, override, overrideViewed); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, caller domain.Caller, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, id); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

func (s *eventService) IsDeadlineMet(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	return event.IsDeadlineMet(s.now()), nil
}

func (s *eventService) GetEventInformation(ctx context.Context, eventID string, keys []string) (*domain.EventInformation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	info := &domain.EventInformation{Event: event}

	settings, err := s.settingsRepo.GetByEventID(ctx, eventID)
	if errors.Is(err, domain.ErrNotFound) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	info.Settings, err = settings.Filter(keys)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *eventService) ListEventInvites(ctx context.Context, caller domain.Caller, eventID string) ([]*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	return s.inviteRepo.ListByEventID(ctx, eventID)
}
