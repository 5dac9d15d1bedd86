package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type ActivityConsumer struct {
	repo repository.ActivityRepository
	log  zerolog.Logger
}

func NewActivityConsumer(repo repository.ActivityRepository, log zerolog.Logger) *ActivityConsumer {
	return &ActivityConsumer{repo: repo, log: log}
}

// Start stores every domain event as an activity log entry until msgs is closed
// or ctx is done. The returned channel is closed once the loop exits.
func (c *ActivityConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.log.Info().Msg("delivery channel closed, stopping activity consumer")
					return
				}
				c.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (c *ActivityConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var evt models.DomainEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.Type == "" || evt.EventID == "" {
		c.log.Warn().Err(err).Str("routing_key", msg.RoutingKey).Msg("dropping malformed message")
		msg.Nack(false, false)
		return
	}

	entry := &models.ActivityLog{
		Type:           evt.Type,
		EventID:        evt.EventID,
		RegistrationID: evt.RegistrationID,
		OccurredAt:     evt.OccurredAt,
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if len(evt.Payload) > 0 {
		raw, err := json.Marshal(evt.Payload)
		if err == nil {
			entry.Payload = datatypes.JSON(raw)
		}
	}

	if err := c.repo.Create(ctx, entry); err != nil {
		c.log.Error().Err(err).Str("type", evt.Type).Str("event_id", evt.EventID).Msg("store activity")
		msg.Nack(false, true) // requeue
		return
	}

	c.log.Debug().Str("type", evt.Type).Str("event_id", evt.EventID).Msg("activity stored")
	msg.Ack(false)
}
