package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/regdesk/internal/masking"
	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/rs/zerolog"
)

const minTransactionIDLen = 3

type FindTicketInput struct {
	Name          string
	TransactionID string
	ContactType   string
	ContactValue  string
}

type TicketResult struct {
	Found        bool
	Multiple     bool
	Registration *models.Registration
	Event        *models.PublicEvent
}

type VerifyInput struct {
	RegID     string
	RegNumber string
	TrxID     string
}

// PublicEventView is what an attendee sees on the public event page.
type PublicEventView struct {
	Event         *models.Event
	Fields        []models.CustomFormField
	OccupiedSeats int64
}

type LookupService interface {
	FindTicket(ctx context.Context, in FindTicketInput) (*TicketResult, error)
	Verify(ctx context.Context, in VerifyInput) (*TicketResult, error)
	OccupiedSeats(ctx context.Context, eventID string) (int64, error)
	PublicRegistrations(ctx context.Context, eventID string) ([]models.Registration, error)
	PublicEvent(ctx context.Context, slug string) (*PublicEventView, error)
}

type lookupService struct {
	events repository.EventRepository
	regs   repository.RegistrationRepository
	fields repository.CustomFieldRepository
	log    zerolog.Logger
}

func NewLookupService(events repository.EventRepository, regs repository.RegistrationRepository, fields repository.CustomFieldRepository, log zerolog.Logger) LookupService {
	return &lookupService{events: events, regs: regs, fields: fields, log: log}
}

// FindTicket matches by contact when both contact parameters are given,
// otherwise by transaction id. Ambiguous matches are never disclosed.
func (s *lookupService) FindTicket(ctx context.Context, in FindTicketInput) (*TicketResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var (
		candidates []models.Registration
		err        error
	)
	switch {
	case in.ContactType != "" && in.ContactValue != "":
		field := repository.ContactField(in.ContactType)
		if field != repository.ContactPhone && field != repository.ContactEmail {
			return nil, ErrInvalidContactType
		}
		candidates, err = s.regs.FindByContact(ctx, field, strings.TrimSpace(in.ContactValue))

	case in.TransactionID != "":
		trx := strings.TrimSpace(in.TransactionID)
		if len([]rune(trx)) < minTransactionIDLen {
			return nil, ErrInvalidTransactionID
		}
		candidates, err = s.regs.FindByTransactionID(ctx, trx)

	default:
		return nil, ErrLookupKeyMissing
	}
	if err != nil {
		return nil, s.internal(err, "find ticket candidates")
	}

	var matched []models.Registration
	for _, r := range candidates {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			matched = append(matched, r)
		}
	}

	switch len(matched) {
	case 0:
		return &TicketResult{Found: false}, nil
	case 1:
		reg := matched[0]
		event, err := s.publicEvent(ctx, reg.EventID)
		if err != nil {
			return nil, err
		}
		return &TicketResult{Found: true, Registration: &reg, Event: event}, nil
	default:
		return &TicketResult{Found: true, Multiple: true}, nil
	}
}

// Verify looks a registration up by id, then number, then transaction id,
// using the first parameter supplied. Contact details come back masked.
func (s *lookupService) Verify(ctx context.Context, in VerifyInput) (*TicketResult, error) {
	var (
		reg *models.Registration
		err error
	)
	switch {
	case in.RegID != "":
		reg, err = s.regs.FindByID(ctx, in.RegID)
	case in.RegNumber != "":
		reg, err = s.regs.FindByNumber(ctx, in.RegNumber)
	case in.TrxID != "":
		reg, err = s.regs.FindFirstByTransactionID(ctx, in.TrxID)
	default:
		return nil, ErrVerifyKeyMissing
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &TicketResult{Found: false}, nil
	}
	if err != nil {
		return nil, s.internal(err, "verify registration")
	}

	event, err := s.publicEvent(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	return &TicketResult{Found: true, Registration: maskRegistration(reg), Event: event}, nil
}

func (s *lookupService) OccupiedSeats(ctx context.Context, eventID string) (int64, error) {
	if eventID == "" {
		return 0, ErrEventIDRequired
	}
	n, err := s.regs.CountOccupied(ctx, eventID)
	if err != nil {
		return 0, s.internal(err, "count occupied seats")
	}
	return n, nil
}

// PublicRegistrations lists names and statuses when the organizer opted in.
func (s *lookupService) PublicRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	if eventID == "" {
		return nil, ErrEventIDRequired
	}

	event, err := s.events.FindByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListNotPublic
	}
	if err != nil {
		return nil, s.internal(err, "find event")
	}
	if event.Status != models.EventPublished || !event.ShowRegisteredList {
		return nil, ErrListNotPublic
	}

	regs, err := s.regs.ListPublic(ctx, eventID)
	if err != nil {
		return nil, s.internal(err, "list public registrations")
	}
	return regs, nil
}

func (s *lookupService) PublicEvent(ctx context.Context, slug string) (*PublicEventView, error) {
	event, err := s.events.FindBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, s.internal(err, "find event by slug")
	}
	if event.Status == models.EventDraft {
		return nil, ErrEventNotFound
	}

	fields, err := s.fields.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, s.internal(err, "list custom fields")
	}
	occupied, err := s.regs.CountOccupied(ctx, event.ID)
	if err != nil {
		return nil, s.internal(err, "count occupied seats")
	}
	return &PublicEventView{Event: event, Fields: fields, OccupiedSeats: occupied}, nil
}

// publicEvent returns nil when the event no longer exists.
func (s *lookupService) publicEvent(ctx context.Context, eventID string) (*models.PublicEvent, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.internal(err, "find event")
	}
	return event.Public(), nil
}

func (s *lookupService) internal(err error, op string) error {
	s.log.Error().Err(err).Msg(op)
	return fmt.Errorf("%s: %w", op, errors.Join(ErrInternal, err))
}

func maskRegistration(reg *models.Registration) *models.Registration {
	masked := *reg
	masked.Phone = masking.Optional(reg.Phone, masking.Phone)
	masked.Email = masking.Optional(reg.Email, masking.Email)
	masked.TransactionID = masking.Optional(reg.TransactionID, masking.TransactionID)
	return &masked
}
