package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/regnum"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/Eursukkul/regdesk/internal/slug"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// EventInput carries the organizer-editable event attributes.
type EventInput struct {
	Title                 string
	Description           *string
	Venue                 *string
	BannerURL             *string
	Price                 float64
	SeatLimit             *int
	GuestLimit            *int
	RegistrationDeadline  *time.Time
	AllowLateRegistration bool
	ShowRegisteredList    bool
	ShowPhoneField        *bool
	ShowEmailField        *bool
}

// CustomFieldInput defines one form field. An ID that matches an existing
// field keeps that field's identity so stored answers stay attached.
type CustomFieldInput struct {
	ID           string
	FieldName    string
	FieldType    models.FieldType
	FieldOptions []string
	IsRequired   bool
}

type ManualRegistrantInput struct {
	Name          string
	Phone         *string
	Email         *string
	GuestCount    int
	TransactionID *string
	Status        models.RegistrationStatus
	CustomFields  models.CustomValues
}

type RegistrationList struct {
	Registrations []models.Registration
	Counts        repository.StatusCounts
	// DuplicateTrx holds the ids of registrations sharing a transaction id.
	DuplicateTrx map[string]bool
}

type OrganizerService interface {
	CreateEvent(ctx context.Context, p auth.Principal, in EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, p auth.Principal, id string, in EventInput) (*models.Event, error)
	GetEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error)
	ListEvents(ctx context.Context, p auth.Principal) ([]models.Event, error)
	DeleteEvent(ctx context.Context, p auth.Principal, id string) error

	PublishEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error)
	CloseEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error)
	ReopenEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error)

	ListCustomFields(ctx context.Context, p auth.Principal, eventID string) ([]models.CustomFormField, error)
	ReplaceCustomFields(ctx context.Context, p auth.Principal, eventID string, in []CustomFieldInput) ([]models.CustomFormField, error)

	ListRegistrations(ctx context.Context, p auth.Principal, eventID string, filter repository.RegistrationFilter) (*RegistrationList, error)
	UpdateRegistrationStatus(ctx context.Context, p auth.Principal, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error)
	SetTag(ctx context.Context, p auth.Principal, eventID, regID, tag string) error
	AddRegistrant(ctx context.Context, p auth.Principal, eventID string, in ManualRegistrantInput) (*models.Registration, error)

	ListActivity(ctx context.Context, p auth.Principal, eventID string, limit int) ([]models.ActivityLog, error)
}

type organizerService struct {
	events     repository.EventRepository
	regs       repository.RegistrationRepository
	fields     repository.CustomFieldRepository
	profiles   repository.ProfileRepository
	activity   repository.ActivityRepository
	pub        Publisher
	writer     *registrationWriter
	defaultCap int
	log        zerolog.Logger
}

func NewOrganizerService(
	events repository.EventRepository,
	regs repository.RegistrationRepository,
	fields repository.CustomFieldRepository,
	profiles repository.ProfileRepository,
	activity repository.ActivityRepository,
	publisher Publisher,
	defaultMaxSeatLimit int,
	log zerolog.Logger,
) OrganizerService {
	return &organizerService{
		events:     events,
		regs:       regs,
		fields:     fields,
		profiles:   profiles,
		activity:   activity,
		pub:        orNop(publisher),
		writer:     newRegistrationWriter(events, regs, publisher, log),
		defaultCap: defaultMaxSeatLimit,
		log:        log,
	}
}

func (s *organizerService) now() time.Time { return s.writer.now() }

func (s *organizerService) CreateEvent(ctx context.Context, p auth.Principal, in EventInput) (*models.Event, error) {
	if err := s.checkSeatCap(ctx, p, p.UserID, in.SeatLimit); err != nil {
		return nil, err
	}

	now := s.now()
	event := &models.Event{
		ID:          regnum.NewID(),
		OrganizerID: p.UserID,
		Status:      models.EventDraft,
	}
	applyEventInput(event, in)
	sl := slug.Make(event.Title, now)
	event.Slug = &sl

	if err := s.events.Create(ctx, event); err != nil {
		return nil, s.internal(err, "create event", event.ID)
	}
	s.log.Info().Str("event_id", event.ID).Str("organizer_id", p.UserID).Msg("event created")
	return event, nil
}

func (s *organizerService) UpdateEvent(ctx context.Context, p auth.Principal, id string, in EventInput) (*models.Event, error) {
	event, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSeatCap(ctx, p, event.OrganizerID, in.SeatLimit); err != nil {
		return nil, err
	}

	applyEventInput(event, in)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, s.internal(err, "update event", id)
	}
	return event, nil
}

func (s *organizerService) GetEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return s.owned(ctx, p, id)
}

func (s *organizerService) ListEvents(ctx context.Context, p auth.Principal) ([]models.Event, error) {
	var (
		events []models.Event
		err    error
	)
	if p.IsAdmin() {
		events, err = s.events.ListAll(ctx)
	} else {
		events, err = s.events.ListByOrganizer(ctx, p.UserID)
	}
	if err != nil {
		return nil, s.internal(err, "list events", "")
	}
	return events, nil
}

func (s *organizerService) DeleteEvent(ctx context.Context, p auth.Principal, id string) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return s.internal(err, "delete event", id)
	}
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

func (s *organizerService) PublishEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return s.transition(ctx, p, id, models.EventPublished, models.EventDraft, models.EventClosed)
}

func (s *organizerService) CloseEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return s.transition(ctx, p, id, models.EventClosed, models.EventPublished)
}

func (s *organizerService) ReopenEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return s.transition(ctx, p, id, models.EventPublished, models.EventClosed)
}

func (s *organizerService) transition(ctx context.Context, p auth.Principal, id string, to models.EventStatus, from ...models.EventStatus) (*models.Event, error) {
	event, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, f := range from {
		if event.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	prev := event.Status
	if err := s.events.UpdateStatus(ctx, id, to); err != nil {
		return nil, s.internal(err, "update event status", id)
	}
	event.Status = to

	s.log.Info().Str("event_id", id).Str("from", string(prev)).Str("to", string(to)).Msg("event status changed")
	emit(ctx, s.pub, s.log, models.TopicEventStatusChanged, id, nil, map[string]any{
		"from": prev,
		"to":   to,
	}, s.now())
	return event, nil
}

func (s *organizerService) ListCustomFields(ctx context.Context, p auth.Principal, eventID string) ([]models.CustomFormField, error) {
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return nil, err
	}
	fields, err := s.fields.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, s.internal(err, "list custom fields", eventID)
	}
	return fields, nil
}

func (s *organizerService) ReplaceCustomFields(ctx context.Context, p auth.Principal, eventID string, in []CustomFieldInput) ([]models.CustomFormField, error) {
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return nil, err
	}

	current, err := s.fields.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, s.internal(err, "list custom fields", eventID)
	}
	existing := make(map[string]bool, len(current))
	for _, f := range current {
		existing[f.ID] = true
	}

	now := s.now()
	seen := make(map[string]bool, len(in))
	fields := make([]models.CustomFormField, 0, len(in))
	for i, f := range in {
		name := strings.TrimSpace(f.FieldName)
		if name == "" {
			return nil, invalidField("field_name", "field_name is required")
		}
		if !f.FieldType.Valid() {
			return nil, ErrInvalidFieldType
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, ErrDuplicateFieldName
		}
		seen[key] = true

		id := f.ID
		if !existing[id] {
			id = regnum.NewID()
		}
		field := models.CustomFormField{
			ID:         id,
			EventID:    eventID,
			FieldName:  name,
			FieldType:  f.FieldType,
			IsRequired: f.IsRequired,
			SortOrder:  i,
			CreatedAt:  now,
		}
		field.FieldOptions = datatypes.NewJSONType(models.NormalizeOptions(f.FieldType, f.FieldOptions))
		fields = append(fields, field)
	}

	if err := s.fields.ReplaceForEvent(ctx, eventID, fields); err != nil {
		return nil, s.internal(err, "replace custom fields", eventID)
	}
	return fields, nil
}

func (s *organizerService) ListRegistrations(ctx context.Context, p auth.Principal, eventID string, filter repository.RegistrationFilter) (*RegistrationList, error) {
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	regs, err := s.regs.ListByEvent(ctx, eventID, filter)
	if err != nil {
		return nil, s.internal(err, "list registrations", eventID)
	}
	counts, err := s.regs.CountByStatus(ctx, eventID)
	if err != nil {
		return nil, s.internal(err, "count registrations", eventID)
	}
	dupIDs, err := s.regs.DuplicateTransactionIDs(ctx, eventID)
	if err != nil {
		return nil, s.internal(err, "find duplicate transactions", eventID)
	}

	dups := make(map[string]bool, len(dupIDs))
	for _, id := range dupIDs {
		dups[id] = true
	}
	return &RegistrationList{Registrations: regs, Counts: counts, DuplicateTrx: dups}, nil
}

func (s *organizerService) UpdateRegistrationStatus(ctx context.Context, p auth.Principal, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, ErrNoRegistrations
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, invalidField("ids", "Invalid registration id %q", id)
		}
	}
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return 0, err
	}

	reason = trimmed(reason)
	if status != models.RegistrationRejected {
		reason = nil
	}

	n, err := s.regs.UpdateStatus(ctx, eventID, ids, status, reason)
	if err != nil {
		return 0, s.internal(err, "update registration status", eventID)
	}
	if n == 0 {
		return 0, ErrRegistrationsMissing
	}

	now := s.now()
	for _, id := range ids {
		emit(ctx, s.pub, s.log, models.TopicRegistrationStatusChanged, eventID, &id, map[string]any{
			"status":           status,
			"rejection_reason": reason,
		}, now)
	}
	s.log.Info().Str("event_id", eventID).Str("status", string(status)).Int64("updated", n).Msg("registration status updated")
	return n, nil
}

func (s *organizerService) SetTag(ctx context.Context, p auth.Principal, eventID, regID, tag string) error {
	tag = strings.TrimSpace(tag)
	var value *string
	if tag != "" {
		if !models.ValidTag(tag) {
			return ErrInvalidTag
		}
		value = &tag
	}
	if _, err := uuid.Parse(regID); err != nil {
		return ErrRegistrationNotFound
	}
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return err
	}

	if err := s.regs.UpdateTag(ctx, eventID, regID, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRegistrationNotFound
		}
		return s.internal(err, "update tag", eventID)
	}

	emit(ctx, s.pub, s.log, models.TopicRegistrationTagged, eventID, &regID, map[string]any{"tag": value}, s.now())
	return nil
}

// AddRegistrant inserts a registrant on the organizer's behalf. Deadline,
// capacity and throttle rules do not apply.
func (s *organizerService) AddRegistrant(ctx context.Context, p auth.Principal, eventID string, in ManualRegistrantInput) (*models.Registration, error) {
	event, err := s.owned(ctx, p, eventID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidField("name", "name is required")
	}

	status := in.Status
	if status == "" {
		status = models.RegistrationApproved
	}
	if status != models.RegistrationApproved && status != models.RegistrationPending {
		return nil, ErrInvalidStatus
	}
	guests := in.GuestCount
	if err := checkGuests(event, &guests); err != nil {
		return nil, err
	}

	reg, err := newRegistration(eventID, RegistrationInput{
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         in.Email,
		GuestCount:    &guests,
		TransactionID: in.TransactionID,
		CustomFields:  in.CustomFields,
	}, "")
	if err != nil {
		return nil, err
	}
	reg.Status = status

	if err := s.writer.write(ctx, event, reg); err != nil {
		return nil, s.internal(err, "add registrant", eventID)
	}
	return reg, nil
}

func (s *organizerService) ListActivity(ctx context.Context, p auth.Principal, eventID string, limit int) ([]models.ActivityLog, error) {
	if _, err := s.owned(ctx, p, eventID); err != nil {
		return nil, err
	}
	entries, err := s.activity.ListByEvent(ctx, eventID, limit)
	if err != nil {
		return nil, s.internal(err, "list activity", eventID)
	}
	return entries, nil
}

// owned loads an event the principal may manage.
func (s *organizerService) owned(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, s.internal(err, "find event", id)
	}
	if !p.CanManage(event.OrganizerID) {
		return nil, ErrForbidden
	}
	return event, nil
}

// checkSeatCap enforces the organizer's plan maximum. Admins are exempt.
func (s *organizerService) checkSeatCap(ctx context.Context, p auth.Principal, organizerID string, seatLimit *int) error {
	if seatLimit == nil || p.IsAdmin() {
		return nil
	}
	if *seatLimit < 0 {
		return invalidField("seat_limit", "seat_limit must not be negative")
	}

	limit := s.defaultCap
	profile, err := s.profiles.FindByID(ctx, organizerID)
	switch {
	case err == nil:
		limit = profile.MaxSeatLimit
	case errors.Is(err, repository.ErrNotFound):
	default:
		return s.internal(err, "find profile", "")
	}

	if limit > 0 && *seatLimit > limit {
		return ErrSeatLimitExceeded
	}
	return nil
}

func (s *organizerService) internal(err error, op, eventID string) error {
	s.log.Error().Err(err).Str("event_id", eventID).Msg(op)
	return fmt.Errorf("%s: %w", op, errors.Join(ErrInternal, err))
}

func applyEventInput(e *models.Event, in EventInput) {
	e.Title = strings.TrimSpace(in.Title)
	e.Description = trimmed(in.Description)
	e.Venue = trimmed(in.Venue)
	e.BannerURL = trimmed(in.BannerURL)
	e.Price = in.Price
	e.SeatLimit = in.SeatLimit
	e.GuestLimit = in.GuestLimit
	e.RegistrationDeadline = in.RegistrationDeadline
	e.AllowLateRegistration = in.AllowLateRegistration
	e.ShowRegisteredList = in.ShowRegisteredList
	e.ShowPhoneField = in.ShowPhoneField
	e.ShowEmailField = in.ShowEmailField
}
