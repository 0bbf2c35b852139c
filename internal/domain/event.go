package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventType is the single-character discriminator stored with every event.
type EventType string

const (
	EventTypeQuinceanera EventType = "X"
	EventTypeSaveTheDate EventType = "S"
	EventTypeWedding     EventType = "W"
)

var eventTypeSlugs = map[EventType]string{
	EventTypeQuinceanera: "quinceanera",
	EventTypeSaveTheDate: "save-the-date",
	EventTypeWedding:     "wedding",
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	_, ok := eventTypeSlugs[t]
	return ok
}

// Slug returns the URL form of the event type (e.g. "save-the-date").
func (t EventType) Slug() string {
	return eventTypeSlugs[t]
}

// EventTypeFromSlug resolves a URL slug back to its EventType.
func EventTypeFromSlug(slug string) (EventType, bool) {
	for t, s := range eventTypeSlugs {
		if s == slug {
			return t, true
		}
	}
	return "", false
}

// Event is a celebration that owns invites, invite groups, settings, files and albums.
// swagger:model Event
type Event struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	DateOfEvent           time.Time `json:"dateOfEvent"`
	MaxDateOfConfirmation time.Time `json:"maxDateOfConfirmation"`
	TypeOfEvent           EventType `json:"typeOfEvent"`
	NameOfCelebrated      string    `json:"nameOfCelebrated"`
	UserID                string    `json:"userId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// NewEvent returns a new Event with its timestamps normalized to UTC. ID is set by the repository on create.
func NewEvent(name string, dateOfEvent, maxDateOfConfirmation time.Time, typeOfEvent EventType, nameOfCelebrated, userID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:                  name,
		DateOfEvent:           dateOfEvent.UTC(),
		MaxDateOfConfirmation: maxDateOfConfirmation.UTC(),
		TypeOfEvent:           typeOfEvent,
		NameOfCelebrated:      nameOfCelebrated,
		UserID:                userID,
		CreatedAt:             createdAt.UTC(),
		UpdatedAt:             updatedAt.UTC(),
	}
}

// IsDeadlineMet reports whether now has reached the date of the event. Equality counts as met.
func (e *Event) IsDeadlineMet(now time.Time) bool {
	return !now.UTC().Before(e.DateOfEvent.UTC())
}

// ConfirmationClosed reports whether now has reached the RSVP deadline.
func (e *Event) ConfirmationClosed(now time.Time) bool {
	return !now.UTC().Before(e.MaxDateOfConfirmation.UTC())
}

// EventInformation is the public view of an event: the event plus a subset of its settings.
type EventInformation struct {
	Event    *Event                     `json:"event"`
	Settings map[string]json.RawMessage `json:"settings"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// Update writes every editable field of event in one transaction. When override is set,
	// every invite of the event loses its RSVP state and the event settings are deleted;
	// otherwise, when overrideViewed is set, only the invite_viewed flags are reset.
	Update(ctx context.Context, event *Event, override, overrideViewed bool) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for events.
type EventService interface {
	CreateEvent(ctx context.Context, caller Caller, event *Event) error
	GetEvent(ctx context.Context, caller Caller, id string) (*Event, error)
	ListEvents(ctx context.Context, caller Caller) ([]*Event, error)
	UpdateEvent(ctx context.Context, caller Caller, id string, fields *Event, override, overrideViewed bool) (*Event, error)
	DeleteEvent(ctx context.Context, caller Caller, id string) error
	IsDeadlineMet(ctx context.Context, eventID string) (bool, error)
	GetEventInformation(ctx context.Context, eventID string, keys []string) (*EventInformation, error)
	ListEventInvites(ctx context.Context, caller Caller, eventID string) ([]*Invite, error)
}
