package domain

import (
	"context"
	"time"
)

// InviteGroup is a named bucket of invites within one event (e.g. a side of the family).
// swagger:model InviteGroup
type InviteGroup struct {
	ID          string    `json:"id"`
	InviteGroup string    `json:"inviteGroup"`
	EventID     string    `json:"eventId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InviteGroupRepository defines storage operations for invite groups.
type InviteGroupRepository interface {
	Create(ctx context.Context, group *InviteGroup) error
	GetByID(ctx context.Context, id string) (*InviteGroup, error)
	ListByEventID(ctx context.Context, eventID string) ([]*InviteGroup, error)
	Rename(ctx context.Context, id, name string) error
	// ExistsByName compares names case-insensitively within one event.
	ExistsByName(ctx context.Context, eventID, name string) (bool, error)
}

// InviteGroupService defines the business logic for invite groups.
type InviteGroupService interface {
	List(ctx context.Context, caller Caller, eventID string) ([]*InviteGroup, error)
	Create(ctx context.Context, caller Caller, eventID, name string) (*InviteGroup, error)
	Rename(ctx context.Context, caller Caller, id, name string) (*InviteGroup, error)
	Exists(ctx context.Context, caller Caller, eventID, name string) (bool, error)
}
