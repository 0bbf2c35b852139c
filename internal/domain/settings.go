package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventSettings is the per-event configuration blob. Its shape depends on the event type
// and is stored and returned verbatim.
// swagger:model EventSettings
type EventSettings struct {
	EventID      string          `json:"eventId"`
	SettingsType EventType       `json:"settingsType"`
	Settings     json.RawMessage `json:"settings" swaggertype:"object"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Filter returns the top-level keys of the blob that are also listed in keys.
// An empty keys list returns every key.
func (s *EventSettings) Filter(keys []string) (map[string]json.RawMessage, error) {
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(s.Settings, &blob); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if len(keys) == 0 {
		return blob, nil
	}
	out := make(map[string]json.RawMessage)
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if v, ok := blob[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// SettingsRepository defines storage operations for event settings.
type SettingsRepository interface {
	Create(ctx context.Context, settings *EventSettings) error
	GetByEventID(ctx context.Context, eventID string) (*EventSettings, error)
	Update(ctx context.Context, settings *EventSettings) error
}

// SettingsService defines the business logic for event settings.
type SettingsService interface {
	Get(ctx context.Context, caller Caller, eventID string) (*EventSettings, error)
	Create(ctx context.Context, caller Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*EventSettings, error)
	Update(ctx context.Context, caller Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*EventSettings, error)
}
