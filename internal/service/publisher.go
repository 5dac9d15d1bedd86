package service

import (
	"context"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/rs/zerolog"
)

// Publisher sends domain events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

func orNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// emit publishes a domain event. Failures are logged and otherwise ignored.
func emit(ctx context.Context, pub Publisher, log zerolog.Logger, topic, eventID string, regID *string, payload map[string]any, at time.Time) {
	msg := models.DomainEvent{
		Type:           topic,
		EventID:        eventID,
		RegistrationID: regID,
		Payload:        payload,
		OccurredAt:     at.UTC(),
	}
	if err := pub.Publish(ctx, topic, msg); err != nil {
		log.Warn().Err(err).Str("topic", topic).Str("event_id", eventID).Msg("publish failed")
	}
}
