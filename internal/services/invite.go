package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"invitesmanager/internal/domain"
	"invitesmanager/internal/utils"
)

type inviteService struct {
	inviteRepo     domain.InviteRepository
	eventRepo      domain.EventRepository
	groupRepo      domain.InviteGroupRepository
	userRepo       domain.UserRepository
	notifier       domain.Notifier
	emailService   domain.EmailService
	logger         *slog.Logger
	phoneRegion    string
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInviteService creates an InviteService. notifier and emailService may be nil.
func NewInviteService(
	inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	groupRepo domain.InviteGroupRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
	emailService domain.EmailService,
	logger *slog.Logger,
	phoneRegion string,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		eventRepo:      eventRepo,
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		emailService:   emailService,
		logger:         logger,
		phoneRegion:    phoneRegion,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// normalizeInvite validates the admin-editable fields and normalizes them in place.
func (s *inviteService) normalizeInvite(inv *domain.Invite) error {
	inv.Family = strings.TrimSpace(inv.Family)
	if inv.Family == "" {
		return fmt.Errorf("%w: family is required", domain.ErrInvalidInput)
	}
	if inv.EntriesNumber < 1 {
		return fmt.Errorf("%w: entriesNumber must be at least 1", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(inv.PhoneNumber) == "" {
		return fmt.Errorf("%w: phoneNumber is required", domain.ErrInvalidInput)
	}
	inv.PhoneNumber = utils.NormalizeOrTrim(inv.PhoneNumber, s.phoneRegion)
	return nil
}

// checkGroup returns ErrInvalidInput unless groupID is a group of eventID.
func (s *inviteService) checkGroup(ctx context.Context, eventID, groupID string) error {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: inviteGroupId does not exist", domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("load invite group: %w", err)
	}
	if g.EventID != eventID {
		return fmt.Errorf("%w: inviteGroupId belongs to another event", domain.ErrInvalidInput)
	}
	return nil
}

// ownedInvite loads an invite and checks that caller owns its event.
func (s *inviteService) ownedInvite(ctx context.Context, caller domain.Caller, id string) (*domain.Invite, error) {
	inv, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, inv.EventID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *inviteService) CreateInvite(ctx context.Context, caller domain.Caller, invite *domain.Invite) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.normalizeInvite(invite); err != nil {
		return err
	}
	if invite.InviteGroupID == "" {
		return fmt.Errorf("%w: inviteGroupId is required", domain.ErrInvalidInput)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, invite.EventID); err != nil {
		return err
	}
	if err := s.checkGroup(ctx, invite.EventID, invite.InviteGroupID); err != nil {
		return err
	}

	now := s.now().UTC()
	*invite = *domain.NewInvite(invite.Family, invite.EntriesNumber, invite.PhoneNumber, invite.KidsAllowed, invite.EventID, invite.InviteGroupID, now, now)
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	return nil
}

func (s *inviteService) GetInvite(ctx context.Context, id string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.inviteRepo.GetByID(ctx, id)
}

func (s *inviteService) ListInvites(ctx context.Context, caller domain.Caller) ([]*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller.IsAdmin() {
		return s.inviteRepo.List(ctx)
	}
	return s.inviteRepo.ListByOwnerID(ctx, caller.UserID)
}

func (s *inviteService) UpdateInvite(ctx context.Context, caller domain.Caller, id string, fields *domain.Invite) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.normalizeInvite(fields); err != nil {
		return nil, err
	}
	inv, err := s.ownedInvite(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	inv.Family = fields.Family
	inv.EntriesNumber = fields.EntriesNumber
	inv.PhoneNumber = fields.PhoneNumber
	inv.KidsAllowed = fields.KidsAllowed
	if fields.InviteGroupID != "" && fields.InviteGroupID != inv.InviteGroupID {
		if err := s.checkGroup(ctx, inv.EventID, fields.InviteGroupID); err != nil {
			return nil, err
		}
		inv.InviteGroupID = fields.InviteGroupID
	}
	inv.UpdatedAt = s.now().UTC()

	if err := s.inviteRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invite: %w", err)
	}
	return inv, nil
}

func (s *inviteService) DeleteInvite(ctx context.Context, caller domain.Caller, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedInvite(ctx, caller, id); err != nil {
		return err
	}
	return s.inviteRepo.Delete(ctx, id)
}

func (s *inviteService) BulkCreate(ctx context.Context, caller domain.Caller, eventID string, items []domain.BulkInviteItem) ([]*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one invite is required", domain.ErrInvalidInput)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	newGroups := make(map[string]*domain.InviteGroup)
	checkedGroups := make(map[string]bool)
	var groups []*domain.InviteGroup
	invites := make([]*domain.Invite, 0, len(items))

	for i, item := range items {
		if item.Invite == nil {
			return nil, fmt.Errorf("%w: invite %d is empty", domain.ErrInvalidInput, i)
		}
		inv := item.Invite
		if err := s.normalizeInvite(inv); err != nil {
			return nil, fmt.Errorf("invite %d: %w", i, err)
		}

		groupID := inv.InviteGroupID
		if item.IsNewInviteGroup {
			name := strings.TrimSpace(item.InviteGroup)
			if name == "" {
				return nil, fmt.Errorf("%w: invite %d: inviteGroup is required for a new group", domain.ErrInvalidInput, i)
			}
			key := strings.ToLower(name)
			g, ok := newGroups[key]
			if !ok {
				exists, err := s.groupRepo.ExistsByName(ctx, eventID, name)
				if err != nil {
					return nil, fmt.Errorf("check invite group: %w", err)
				}
				if exists {
					return nil, fmt.Errorf("%w: invite group %q", domain.ErrConflict, name)
				}
				g = &domain.InviteGroup{ID: uuid.NewString(), InviteGroup: name, EventID: eventID, CreatedAt: now}
				newGroups[key] = g
				groups = append(groups, g)
			}
			groupID = g.ID
		}
		if groupID == "" {
			return nil, fmt.Errorf("%w: invite %d: inviteGroupId is required", domain.ErrInvalidInput, i)
		}
		if !item.IsNewInviteGroup && !checkedGroups[groupID] {
			if err := s.checkGroup(ctx, eventID, groupID); err != nil {
				return nil, fmt.Errorf("invite %d: %w", i, err)
			}
			checkedGroups[groupID] = true
		}

		invites = append(invites, domain.NewInvite(inv.Family, inv.EntriesNumber, inv.PhoneNumber, inv.KidsAllowed, eventID, groupID, now, now))
	}

	if err := s.inviteRepo.BulkCreate(ctx, groups, invites); err != nil {
		return nil, fmt.Errorf("bulk create invites: %w", err)
	}
	return invites, nil
}

func (s *inviteService) BulkDelete(ctx context.Context, caller domain.Caller, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: at least one id is required", domain.ErrInvalidInput)
	}
	if !caller.IsAdmin() {
		checked := make(map[string]bool)
		for _, id := range ids {
			inv, err := s.inviteRepo.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			if checked[inv.EventID] {
				continue
			}
			if _, err := ownedEvent(ctx, s.eventRepo, caller, inv.EventID); err != nil {
				return 0, err
			}
			checked[inv.EventID] = true
		}
	}
	return s.inviteRepo.BulkDelete(ctx, ids)
}

func (s *inviteService) CancelInvites(ctx context.Context, caller domain.Caller, eventID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, caller, eventID); err != nil {
		return 0, err
	}
	return s.inviteRepo.CancelPending(ctx, eventID, s.now().UTC())
}

func (s *inviteService) OverwriteConfirmation(ctx context.Context, caller domain.Caller, id string, confirmation bool, entriesConfirmed *int) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.ownedInvite(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	rsvp := domain.RSVP{Confirmation: confirmation, DateOfConfirmation: s.now().UTC()}
	if confirmation {
		if entriesConfirmed == nil {
			return nil, fmt.Errorf("%w: entriesConfirmed is required when confirming", domain.ErrInvalidInput)
		}
		rsvp.EntriesConfirmed = *entriesConfirmed
	}
	if err := checkEntries(inv, rsvp); err != nil {
		return nil, err
	}

	if err := s.inviteRepo.OverwriteConfirmation(ctx, id, rsvp); err != nil {
		return nil, fmt.Errorf("overwrite confirmation: %w", err)
	}
	return s.inviteRepo.GetByID(ctx, id)
}

// checkEntries enforces 1..EntriesNumber on a confirmation. Declines always store 0.
func checkEntries(inv *domain.Invite, rsvp domain.RSVP) error {
	if !rsvp.Confirmation {
		return nil
	}
	if rsvp.EntriesConfirmed < 1 || rsvp.EntriesConfirmed > inv.EntriesNumber {
		return fmt.Errorf("%w: entriesConfirmed must be between 1 and %d", domain.ErrInvalidInput, inv.EntriesNumber)
	}
	return nil
}

func (s *inviteService) SubmitRSVP(ctx context.Context, id, eventTypeSlug string, rsvp domain.RSVP) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventType, ok := domain.EventTypeFromSlug(eventTypeSlug)
	if !ok {
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, eventTypeSlug)
	}
	inv, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.TypeOfEvent != eventType {
		return nil, fmt.Errorf("%w: invite does not belong to a %s event", domain.ErrInvalidInput, eventTypeSlug)
	}
	if inv.Status() != domain.RSVPPending {
		return nil, domain.ErrAlreadyConfirmed
	}
	now := s.now().UTC()
	if event.ConfirmationClosed(now) {
		return nil, domain.ErrDeadlinePassed
	}

	if !rsvp.Confirmation {
		rsvp.EntriesConfirmed = 0
	}
	if err := checkEntries(inv, rsvp); err != nil {
		return nil, err
	}
	if rsvp.Message != nil {
		msg := strings.TrimSpace(*rsvp.Message)
		if msg == "" {
			rsvp.Message = nil
		} else {
			rsvp.Message = &msg
		}
	}
	rsvp.DateOfConfirmation = now

	if err := s.inviteRepo.SubmitRSVP(ctx, id, rsvp); err != nil {
		return nil, err
	}
	updated, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, event, updated)
	return updated, nil
}

// notifyOwner pushes the new answer to the owner's realtime room and mailbox. Failures are only logged.
func (s *inviteService) notifyOwner(ctx context.Context, event *domain.Event, inv *domain.Invite) {
	owner, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "rsvp notification skipped", "event_id", event.ID, "err", err)
		return
	}

	entries := 0
	if inv.EntriesConfirmed != nil {
		entries = *inv.EntriesConfirmed
	}
	confirmed := inv.Status() == domain.RSVPConfirmed
	var answeredAt time.Time
	if inv.DateOfConfirmation != nil {
		answeredAt = *inv.DateOfConfirmation
	}

	if s.notifier != nil {
		s.notifier.Publish(owner.Username, domain.Notification{
			Type: domain.NotificationTypeNewRSVP,
			Payload: domain.RSVPNotification{
				InviteID:           inv.ID,
				EventID:            event.ID,
				Family:             inv.Family,
				Confirmation:       confirmed,
				EntriesConfirmed:   entries,
				DateOfConfirmation: answeredAt,
			},
		})
	}

	if s.emailService != nil {
		data := &domain.RSVPReceivedEmailData{
			Email:            owner.Email,
			OwnerName:        owner.FirstName,
			EventName:        event.Name,
			Family:           inv.Family,
			Confirmation:     confirmed,
			EntriesConfirmed: entries,
		}
		if inv.Message != nil {
			data.Message = *inv.Message
		}
		if err := s.emailService.SendRSVPReceived(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "rsvp email failed", "invite_id", inv.ID, "err", err)
		}
	}
}

func (s *inviteService) ReadMessage(ctx context.Context, caller domain.Caller, id string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedInvite(ctx, caller, id); err != nil {
		return nil, err
	}
	if err := s.inviteRepo.MarkMessageRead(ctx, id); err != nil {
		return nil, err
	}
	return s.inviteRepo.GetByID(ctx, id)
}

func (s *inviteService) MarkAsViewed(ctx context.Context, id string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.inviteRepo.MarkViewed(ctx, id); err != nil {
		return nil, err
	}
	return s.inviteRepo.GetByID(ctx, id)
}
