package models

import "time"

// Routing keys on the regdesk.events exchange.
const (
	TopicRegistrationCreated       = "registration.created"
	TopicRegistrationStatusChanged = "registration.status_changed"
	TopicRegistrationTagged        = "registration.tagged"
	TopicEventStatusChanged        = "event.status_changed"
	TopicEventClosed               = "event.closed"
)

// DomainEvent is the message envelope published for every state change.
type DomainEvent struct {
	Type           string         `json:"type"`
	EventID        string         `json:"event_id"`
	RegistrationID *string        `json:"registration_id,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
