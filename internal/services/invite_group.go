package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invitesmanager/internal/domain"
)

type inviteGroupService struct {
	groupRepo      domain.InviteGroupRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInviteGroupService creates an InviteGroupService.
func NewInviteGroupService(groupRepo domain.InviteGroupRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.InviteGroupService {
	return &inviteGroupService{
		groupRepo:      groupRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func groupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: inviteGroup is required", domain.ErrInvalidInput)
	}
	return name, nil
}

func (s *inviteGroupService) List(ctx context.Context, caller domain.Caller, eventID string) ([]*domain.InviteGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListByEventID(ctx, eventID)
}

func (s *inviteGroupService) Create(ctx context.Context, caller domain.Caller, eventID, name string) (*domain.InviteGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := groupName(name)
	if err != nil {
		return nil, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}
	exists, err := s.groupRepo.ExistsByName(ctx, eventID, name)
	if err != nil {
		return nil, fmt.Errorf("check invite group: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: invite group %q", domain.ErrConflict, name)
	}

	group := &domain.InviteGroup{InviteGroup: name, EventID: eventID, CreatedAt: s.now().UTC()}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create invite group: %w", err)
	}
	return group, nil
}

func (s *inviteGroupService) Rename(ctx context.Context, caller domain.Caller, id, name string) (*domain.InviteGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := groupName(name)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, group.EventID); err != nil {
		return nil, err
	}
	if !strings.EqualFold(group.InviteGroup, name) {
		exists, err := s.groupRepo.ExistsByName(ctx, group.EventID, name)
		if err != nil {
			return nil, fmt.Errorf("check invite group: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: invite group %q", domain.ErrConflict, name)
		}
	}

	if err := s.groupRepo.Rename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename invite group: %w", err)
	}
	group.InviteGroup = name
	return group, nil
}

func (s *inviteGroupService) Exists(ctx context.Context, caller domain.Caller, eventID, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := groupName(name)
	if err != nil {
		return false, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return false, err
	}
	return s.groupRepo.ExistsByName(ctx, eventID, name)
}
