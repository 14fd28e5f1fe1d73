package events

import "time"

// EventType identifies the kind of event being published.
type EventType string

const (
	// Table change events. Subscribers treat these as "re-fetch the
	// affected list" notifications; the event carries no row data.
	DishesChanged   EventType = "dishes_changed"
	SettingsChanged EventType = "settings_changed"
	MessageReceived EventType = "message_received"
)

// Event is the payload published through the bus.
type Event struct {
	Type      EventType         `json:"type"`
	Table     string            `json:"table,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
