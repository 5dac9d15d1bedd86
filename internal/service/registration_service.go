package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/regnum"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type RegistrationResult struct {
	RegistrationID     string
	RegistrationNumber string
	TrxIDWarning       string
}

type RegistrationService interface {
	Register(ctx context.Context, in RegistrationInput, ip string) (*RegistrationResult, error)
}

type registrationService struct {
	events repository.EventRepository
	fields repository.CustomFieldRepository
	policy Policy

	throttle  throttle
	duplicate duplicateDetector
	writer    *registrationWriter
	log       zerolog.Logger
}

func NewRegistrationService(
	events repository.EventRepository,
	regs repository.RegistrationRepository,
	fields repository.CustomFieldRepository,
	publisher Publisher,
	policy Policy,
	log zerolog.Logger,
) RegistrationService {
	return &registrationService{
		events:    events,
		fields:    fields,
		policy:    policy,
		throttle:  throttle{regs: regs, max: policy.RateLimitMax, window: policy.RateLimitWindow},
		duplicate: duplicateDetector{regs: regs, log: log},
		writer:    newRegistrationWriter(events, regs, publisher, log),
		log:       log,
	}
}

func (s *registrationService) Register(ctx context.Context, in RegistrationInput, ip string) (*RegistrationResult, error) {
	in.EventID = strings.TrimSpace(in.EventID)
	if in.EventID == "" || strings.TrimSpace(in.Name) == "" {
		return nil, ErrMissingFields
	}

	event, err := s.events.FindByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, s.internal(err, "find event", in.EventID)
	}

	now := s.writer.now()
	if err := s.policy.checkOpen(event, now); err != nil {
		return nil, err
	}

	if event.HasSeatLimit() {
		occupied, err := s.writer.regs.CountOccupied(ctx, event.ID)
		if err != nil {
			return nil, s.internal(err, "count occupied seats", event.ID)
		}
		if err := checkCapacity(event, occupied); err != nil {
			return nil, err
		}
	}

	fields, err := s.fields.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, s.internal(err, "list custom fields", event.ID)
	}
	if err := checkShape(event, in, fields); err != nil {
		return nil, err
	}

	// The throttle and the duplicate lookup are independent reads.
	var warning string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.throttle.check(gctx, ip, now)
	})
	g.Go(func() error {
		warning = s.duplicate.check(gctx, in.TransactionID)
		return nil
	})
	if err := g.Wait(); err != nil {
		if KindOf(err) == KindRateLimited {
			s.log.Info().Str("ip", ip).Str("event_id", event.ID).Msg("registration throttled")
			return nil, err
		}
		return nil, s.internal(err, "throttle", event.ID)
	}

	reg, err := newRegistration(event.ID, in, ip)
	if err != nil {
		return nil, err
	}
	reg.Status = models.RegistrationPending

	if err := s.writer.write(ctx, event, reg); err != nil {
		return nil, s.internal(err, "create registration", event.ID)
	}

	return &RegistrationResult{
		RegistrationID:     reg.ID,
		RegistrationNumber: reg.RegistrationNumber,
		TrxIDWarning:       warning,
	}, nil
}

func (s *registrationService) internal(err error, op, eventID string) error {
	s.log.Error().Err(err).Str("event_id", eventID).Msg(op)
	return fmt.Errorf("%s: %w", op, errors.Join(ErrInternal, err))
}

// newRegistration builds the row from trimmed input. Empty custom fields are stored as null.
func newRegistration(eventID string, in RegistrationInput, ip string) (*models.Registration, error) {
	reg := &models.Registration{
		EventID:       eventID,
		Name:          strings.TrimSpace(in.Name),
		Phone:         trimmed(in.Phone),
		Email:         trimmed(in.Email),
		TransactionID: trimmed(in.TransactionID),
	}
	if in.GuestCount != nil {
		reg.GuestCount = *in.GuestCount
	}
	if ip != "" {
		reg.IPAddress = &ip
	}
	if len(in.CustomFields) > 0 {
		raw, err := json.Marshal(in.CustomFields)
		if err != nil {
			return nil, invalidField("custom_fields", "custom_fields could not be encoded")
		}
		reg.CustomFields = datatypes.JSON(raw)
	}
	return reg, nil
}

// sharedGenerator is used by every writer in the process so numbers stay unique across services.
var sharedGenerator = regnum.NewGenerator()

// registrationWriter persists registrations and closes events that fill up.
type registrationWriter struct {
	events repository.EventRepository
	regs   repository.RegistrationRepository
	pub    Publisher
	gen    *regnum.Generator
	now    func() time.Time
	log    zerolog.Logger
}

func newRegistrationWriter(events repository.EventRepository, regs repository.RegistrationRepository, pub Publisher, log zerolog.Logger) *registrationWriter {
	return &registrationWriter{
		events: events,
		regs:   regs,
		pub:    orNop(pub),
		gen:    sharedGenerator,
		now:    time.Now,
		log:    log,
	}
}

// write assigns identifiers, inserts reg and then reconciles capacity.
// The reconciliation is best effort; a failed close is logged only.
func (w *registrationWriter) write(ctx context.Context, event *models.Event, reg *models.Registration) error {
	now := w.now()
	reg.ID = regnum.NewID()
	reg.RegistrationNumber = w.gen.Next()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if err := w.regs.Create(ctx, reg); err != nil {
		return err
	}

	w.log.Info().
		Str("event_id", event.ID).
		Str("registration_id", reg.ID).
		Str("registration_number", reg.RegistrationNumber).
		Msg("registration created")

	emit(ctx, w.pub, w.log, models.TopicRegistrationCreated, event.ID, &reg.ID, map[string]any{
		"registration_number": reg.RegistrationNumber,
		"status":              reg.Status,
		"guest_count":         reg.GuestCount,
	}, now)

	w.closeIfFull(ctx, event)
	return nil
}

func (w *registrationWriter) closeIfFull(ctx context.Context, event *models.Event) {
	if !event.HasSeatLimit() || event.Status != models.EventPublished {
		return
	}

	occupied, err := w.regs.CountOccupied(ctx, event.ID)
	if err != nil {
		w.log.Error().Err(err).Str("event_id", event.ID).Msg("recount occupied seats")
		return
	}
	if occupied < int64(*event.SeatLimit) {
		return
	}

	if err := w.events.UpdateStatus(ctx, event.ID, models.EventClosed); err != nil {
		w.log.Error().Err(err).Str("event_id", event.ID).Msg("auto-close event")
		return
	}
	event.Status = models.EventClosed

	w.log.Info().Str("event_id", event.ID).Int64("occupied", occupied).Msg("event full, closed")
	emit(ctx, w.pub, w.log, models.TopicEventClosed, event.ID, nil, map[string]any{
		"occupied_seats": occupied,
		"seat_limit":     *event.SeatLimit,
	}, w.now())
}
