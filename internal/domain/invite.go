package domain

import (
	"context"
	"time"
)

// RSVPStatus is derived from the tri-state confirmation column.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// Invite is one invited party of an event (a.k.a. entry).
// swagger:model Invite
type Invite struct {
	ID                 string     `json:"id"`
	Family             string     `json:"family"`
	EntriesNumber      int        `json:"entriesNumber"`
	PhoneNumber        string     `json:"phoneNumber"`
	KidsAllowed        bool       `json:"kidsAllowed"`
	EntriesConfirmed   *int       `json:"entriesConfirmed"`
	Message            *string    `json:"message"`
	Confirmation       *bool      `json:"confirmation"`
	DateOfConfirmation *time.Time `json:"dateOfConfirmation"`
	IsMessageRead      bool       `json:"isMessageRead"`
	InviteViewed       bool       `json:"inviteViewed"`
	NeedsAccommodation *bool      `json:"needsAccommodation"`
	EventID            string     `json:"eventId"`
	InviteGroupID      string     `json:"inviteGroupId"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewInvite returns a pending Invite. ID is set by the repository on create.
func NewInvite(family string, entriesNumber int, phoneNumber string, kidsAllowed bool, eventID, inviteGroupID string, createdAt, updatedAt time.Time) *Invite {
	return &Invite{
		Family:        family,
		EntriesNumber: entriesNumber,
		PhoneNumber:   phoneNumber,
		KidsAllowed:   kidsAllowed,
		EventID:       eventID,
		InviteGroupID: inviteGroupID,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// Status returns the RSVP state of the invite.
func (i *Invite) Status() RSVPStatus {
	switch {
	case i.Confirmation == nil:
		return RSVPPending
	case *i.Confirmation:
		return RSVPConfirmed
	default:
		return RSVPDeclined
	}
}

// RSVP is the answer an invitee (or an admin overwrite) records on an invite.
type RSVP struct {
	Confirmation       bool
	EntriesConfirmed   int
	Message            *string
	NeedsAccommodation *bool
	DateOfConfirmation time.Time
}

// BulkInviteItem is one row of a bulk creation. The group is named either by id or, when
// IsNewInviteGroup is set, by a name that is created in the same transaction.
type BulkInviteItem struct {
	Invite           *Invite
	InviteGroup      string
	IsNewInviteGroup bool
}

// InviteRepository defines the interface for invite storage.
type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) error
	// BulkCreate inserts newGroups and then invites in a single transaction.
	BulkCreate(ctx context.Context, newGroups []*InviteGroup, invites []*Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	List(ctx context.Context) ([]*Invite, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Invite, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Invite, error)
	Update(ctx context.Context, invite *Invite) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	// SubmitRSVP records rsvp only while the invite is still pending. It returns
	// ErrAlreadyConfirmed when the invite was answered in the meantime.
	SubmitRSVP(ctx context.Context, id string, rsvp RSVP) error
	// CancelPending declines every pending invite of the event and returns how many changed.
	CancelPending(ctx context.Context, eventID string, at time.Time) (int64, error)
	OverwriteConfirmation(ctx context.Context, id string, rsvp RSVP) error
	MarkMessageRead(ctx context.Context, id string) error
	MarkViewed(ctx context.Context, id string) error
}

// InviteService defines the business logic for invites and RSVPs.
type InviteService interface {
	CreateInvite(ctx context.Context, caller Caller, invite *Invite) error
	GetInvite(ctx context.Context, id string) (*Invite, error)
	ListInvites(ctx context.Context, caller Caller) ([]*Invite, error)
	UpdateInvite(ctx context.Context, caller Caller, id string, fields *Invite) (*Invite, error)
	DeleteInvite(ctx context.Context, caller Caller, id string) error
	BulkCreate(ctx context.Context, caller Caller, eventID string, items []BulkInviteItem) ([]*Invite, error)
	BulkDelete(ctx context.Context, caller Caller, ids []string) (int64, error)
	CancelInvites(ctx context.Context, caller Caller, eventID string) (int64, error)
	OverwriteConfirmation(ctx context.Context, caller Caller, id string, confirmation bool, entriesConfirmed *int) (*Invite, error)
	SubmitRSVP(ctx context.Context, id, eventTypeSlug string, rsvp RSVP) (*Invite, error)
	ReadMessage(ctx context.Context, caller Caller, id string) (*Invite, error)
	MarkAsViewed(ctx context.Context, id string) (*Invite, error)
}
