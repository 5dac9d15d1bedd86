package handler

import (
	"context"

	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/Eursukkul/regdesk/internal/service"
)

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	registerFn func(ctx context.Context, in service.RegistrationInput, ip string) (*service.RegistrationResult, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, in service.RegistrationInput, ip string) (*service.RegistrationResult, error) {
	return m.registerFn(ctx, in, ip)
}

// --- Mock LookupService ---

type mockLookupService struct {
	findFn        func(ctx context.Context, in service.FindTicketInput) (*service.TicketResult, error)
	verifyFn      func(ctx context.Context, in service.VerifyInput) (*service.TicketResult, error)
	occupiedFn    func(ctx context.Context, eventID string) (int64, error)
	publicRegsFn  func(ctx context.Context, eventID string) ([]models.Registration, error)
	publicEventFn func(ctx context.Context, slug string) (*service.PublicEventView, error)
}

func (m *mockLookupService) FindTicket(ctx context.Context, in service.FindTicketInput) (*service.TicketResult, error) {
	return m.findFn(ctx, in)
}
func (m *mockLookupService) Verify(ctx context.Context, in service.VerifyInput) (*service.TicketResult, error) {
	return m.verifyFn(ctx, in)
}
func (m *mockLookupService) OccupiedSeats(ctx context.Context, eventID string) (int64, error) {
	return m.occupiedFn(ctx, eventID)
}
func (m *mockLookupService) PublicRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	return m.publicRegsFn(ctx, eventID)
}
func (m *mockLookupService) PublicEvent(ctx context.Context, slug string) (*service.PublicEventView, error) {
	return m.publicEventFn(ctx, slug)
}

// --- Mock OrganizerService ---

type mockOrganizerService struct {
	createFn       func(ctx context.Context, p auth.Principal, in service.EventInput) (*models.Event, error)
	updateFn       func(ctx context.Context, p auth.Principal, id string, in service.EventInput) (*models.Event, error)
	getFn          func(ctx context.Context, p auth.Principal, id string) (*models.Event, error)
	listFn         func(ctx context.Context, p auth.Principal) ([]models.Event, error)
	deleteFn       func(ctx context.Context, p auth.Principal, id string) error
	transitionFn   func(to models.EventStatus, p auth.Principal, id string) (*models.Event, error)
	listFieldsFn   func(ctx context.Context, p auth.Principal, eventID string) ([]models.CustomFormField, error)
	replaceFn      func(ctx context.Context, p auth.Principal, eventID string, in []service.CustomFieldInput) ([]models.CustomFormField, error)
	listRegsFn     func(ctx context.Context, p auth.Principal, eventID string, filter repository.RegistrationFilter) (*service.RegistrationList, error)
	updateStatusFn func(ctx context.Context, p auth.Principal, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error)
	setTagFn       func(ctx context.Context, p auth.Principal, eventID, regID, tag string) error
	addFn          func(ctx context.Context, p auth.Principal, eventID string, in service.ManualRegistrantInput) (*models.Registration, error)
	activityFn     func(ctx context.Context, p auth.Principal, eventID string, limit int) ([]models.ActivityLog, error)
}

func (m *mockOrganizerService) CreateEvent(ctx context.Context, p auth.Principal, in service.EventInput) (*models.Event, error) {
	return m.createFn(ctx, p, in)
}
func (m *mockOrganizerService) UpdateEvent(ctx context.Context, p auth.Principal, id string, in service.EventInput) (*models.Event, error) {
	return m.updateFn(ctx, p, id, in)
}
func (m *mockOrganizerService) GetEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return m.getFn(ctx, p, id)
}
func (m *mockOrganizerService) ListEvents(ctx context.Context, p auth.Principal) ([]models.Event, error) {
	return m.listFn(ctx, p)
}
func (m *mockOrganizerService) DeleteEvent(ctx context.Context, p auth.Principal, id string) error {
	return m.deleteFn(ctx, p, id)
}
func (m *mockOrganizerService) PublishEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return m.transitionFn(models.EventPublished, p, id)
}
func (m *mockOrganizerService) CloseEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return m.transitionFn(models.EventClosed, p, id)
}
func (m *mockOrganizerService) ReopenEvent(ctx context.Context, p auth.Principal, id string) (*models.Event, error) {
	return m.transitionFn(models.EventPublished, p, id)
}
func (m *mockOrganizerService) ListCustomFields(ctx context.Context, p auth.Principal, eventID string) ([]models.CustomFormField, error) {
	return m.listFieldsFn(ctx, p, eventID)
}
func (m *mockOrganizerService) ReplaceCustomFields(ctx context.Context, p auth.Principal, eventID string, in []service.CustomFieldInput) ([]models.CustomFormField, error) {
	return m.replaceFn(ctx, p, eventID, in)
}
func (m *mockOrganizerService) ListRegistrations(ctx context.Context, p auth.Principal, eventID string, filter repository.RegistrationFilter) (*service.RegistrationList, error) {
	return m.listRegsFn(ctx, p, eventID, filter)
}
func (m *mockOrganizerService) UpdateRegistrationStatus(ctx context.Context, p auth.Principal, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error) {
	return m.updateStatusFn(ctx, p, eventID, ids, status, reason)
}
func (m *mockOrganizerService) SetTag(ctx context.Context, p auth.Principal, eventID, regID, tag string) error {
	return m.setTagFn(ctx, p, eventID, regID, tag)
}
func (m *mockOrganizerService) AddRegistrant(ctx context.Context, p auth.Principal, eventID string, in service.ManualRegistrantInput) (*models.Registration, error) {
	return m.addFn(ctx, p, eventID, in)
}
func (m *mockOrganizerService) ListActivity(ctx context.Context, p auth.Principal, eventID string, limit int) ([]models.ActivityLog, error) {
	return m.activityFn(ctx, p, eventID, limit)
}
