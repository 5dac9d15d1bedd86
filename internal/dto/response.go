package dto

import (
	"encoding/json"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/Eursukkul/regdesk/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RegisterResponse struct {
	Success            bool    `json:"success"`
	RegistrationNumber string  `json:"registration_number"`
	RegistrationID     string  `json:"registration_id"`
	TrxIDWarning       *string `json:"trx_id_warning"`
}

func ToRegisterResponse(r *service.RegistrationResult) RegisterResponse {
	resp := RegisterResponse{
		Success:            true,
		RegistrationNumber: r.RegistrationNumber,
		RegistrationID:     r.RegistrationID,
	}
	if r.TrxIDWarning != "" {
		w := r.TrxIDWarning
		resp.TrxIDWarning = &w
	}
	return resp
}

// TicketRegistration is the registrant's own view of a registration.
type TicketRegistration struct {
	ID                 string                    `json:"id"`
	EventID            string                    `json:"event_id"`
	Name               string                    `json:"name"`
	Phone              *string                   `json:"phone"`
	Email              *string                   `json:"email"`
	GuestCount         int                       `json:"guest_count"`
	TransactionID      *string                   `json:"transaction_id"`
	Status             models.RegistrationStatus `json:"status"`
	RejectionReason    *string                   `json:"rejection_reason"`
	RegistrationNumber string                    `json:"registration_number"`
	Tag                *string                   `json:"tag"`
	CreatedAt          time.Time                 `json:"created_at"`
}

func ToTicketRegistration(r *models.Registration) *TicketRegistration {
	if r == nil {
		return nil
	}
	return &TicketRegistration{
		ID:                 r.ID,
		EventID:            r.EventID,
		Name:               r.Name,
		Phone:              r.Phone,
		Email:              r.Email,
		GuestCount:         r.GuestCount,
		TransactionID:      r.TransactionID,
		Status:             r.Status,
		RejectionReason:    r.RejectionReason,
		RegistrationNumber: r.RegistrationNumber,
		Tag:                r.Tag,
		CreatedAt:          r.CreatedAt,
	}
}

type NotFoundResponse struct {
	Found bool `json:"found"`
}

type TicketResponse struct {
	Found        bool                `json:"found"`
	Multiple     bool                `json:"multiple"`
	Registration *TicketRegistration `json:"registration"`
	Event        *models.PublicEvent `json:"event"`
}

type VerifyResponse struct {
	Found        bool                `json:"found"`
	Registration *TicketRegistration `json:"registration"`
	Event        *models.PublicEvent `json:"event"`
}

// ToTicketResponse renders a miss as {"found":false} only.
func ToTicketResponse(r *service.TicketResult) any {
	if !r.Found {
		return NotFoundResponse{}
	}
	return TicketResponse{
		Found:        true,
		Multiple:     r.Multiple,
		Registration: ToTicketRegistration(r.Registration),
		Event:        r.Event,
	}
}

func ToVerifyResponse(r *service.TicketResult) any {
	if !r.Found {
		return NotFoundResponse{}
	}
	return VerifyResponse{
		Found:        true,
		Registration: ToTicketRegistration(r.Registration),
		Event:        r.Event,
	}
}

type OccupiedSeatsResponse struct {
	OccupiedSeats int64 `json:"occupied_seats"`
}

type PublicRegistration struct {
	Name      string                    `json:"name"`
	Status    models.RegistrationStatus `json:"status"`
	CreatedAt time.Time                 `json:"created_at"`
}

type PublicRegistrationsResponse struct {
	Registrations []PublicRegistration `json:"registrations"`
	Total         int                  `json:"total"`
}

func ToPublicRegistrationsResponse(regs []models.Registration) PublicRegistrationsResponse {
	out := make([]PublicRegistration, len(regs))
	for i, r := range regs {
		out[i] = PublicRegistration{Name: r.Name, Status: r.Status, CreatedAt: r.CreatedAt}
	}
	return PublicRegistrationsResponse{Registrations: out, Total: len(out)}
}

type CustomFieldResponse struct {
	ID           string           `json:"id"`
	FieldName    string           `json:"field_name"`
	FieldType    models.FieldType `json:"field_type"`
	FieldOptions []string         `json:"field_options"`
	IsRequired   bool             `json:"is_required"`
	SortOrder    int              `json:"sort_order"`
}

func ToCustomFieldResponses(fields []models.CustomFormField) []CustomFieldResponse {
	out := make([]CustomFieldResponse, len(fields))
	for i := range fields {
		f := &fields[i]
		opts := f.Options()
		if opts == nil {
			opts = []string{}
		}
		out[i] = CustomFieldResponse{
			ID:           f.ID,
			FieldName:    f.FieldName,
			FieldType:    f.FieldType,
			FieldOptions: opts,
			IsRequired:   f.IsRequired,
			SortOrder:    f.SortOrder,
		}
	}
	return out
}

type PublicEventResponse struct {
	ID                    string                `json:"id"`
	Title                 string                `json:"title"`
	Slug                  *string               `json:"slug"`
	Description           *string               `json:"description"`
	Venue                 *string               `json:"venue"`
	BannerURL             *string               `json:"banner_url"`
	Status                models.EventStatus    `json:"status"`
	Price                 float64               `json:"price"`
	SeatLimit             *int                  `json:"seat_limit"`
	GuestLimit            *int                  `json:"guest_limit"`
	RegistrationDeadline  *time.Time            `json:"registration_deadline"`
	AllowLateRegistration bool                  `json:"allow_late_registration"`
	ShowRegisteredList    bool                  `json:"show_registered_list"`
	ShowPhoneField        bool                  `json:"show_phone_field"`
	ShowEmailField        bool                  `json:"show_email_field"`
	OccupiedSeats         int64                 `json:"occupied_seats"`
	CustomFields          []CustomFieldResponse `json:"custom_fields"`
}

func ToPublicEventResponse(v *service.PublicEventView) PublicEventResponse {
	e := v.Event
	return PublicEventResponse{
		ID:                    e.ID,
		Title:                 e.Title,
		Slug:                  e.Slug,
		Description:           e.Description,
		Venue:                 e.Venue,
		BannerURL:             e.BannerURL,
		Status:                e.Status,
		Price:                 e.Price,
		SeatLimit:             e.SeatLimit,
		GuestLimit:            e.GuestLimit,
		RegistrationDeadline:  e.RegistrationDeadline,
		AllowLateRegistration: e.AllowLateRegistration,
		ShowRegisteredList:    e.ShowRegisteredList,
		ShowPhoneField:        e.PhoneFieldShown(),
		ShowEmailField:        e.EmailFieldShown(),
		OccupiedSeats:         v.OccupiedSeats,
		CustomFields:          ToCustomFieldResponses(v.Fields),
	}
}

type EventResponse struct {
	ID                    string             `json:"id"`
	OrganizerID           string             `json:"organizer_id"`
	Title                 string             `json:"title"`
	Slug                  *string            `json:"slug"`
	Description           *string            `json:"description"`
	Venue                 *string            `json:"venue"`
	BannerURL             *string            `json:"banner_url"`
	Status                models.EventStatus `json:"status"`
	Price                 float64            `json:"price"`
	SeatLimit             *int               `json:"seat_limit"`
	GuestLimit            *int               `json:"guest_limit"`
	RegistrationDeadline  *time.Time         `json:"registration_deadline"`
	AllowLateRegistration bool               `json:"allow_late_registration"`
	ShowRegisteredList    bool               `json:"show_registered_list"`
	ShowPhoneField        bool               `json:"show_phone_field"`
	ShowEmailField        bool               `json:"show_email_field"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:                    e.ID,
		OrganizerID:           e.OrganizerID,
		Title:                 e.Title,
		Slug:                  e.Slug,
		Description:           e.Description,
		Venue:                 e.Venue,
		BannerURL:             e.BannerURL,
		Status:                e.Status,
		Price:                 e.Price,
		SeatLimit:             e.SeatLimit,
		GuestLimit:            e.GuestLimit,
		RegistrationDeadline:  e.RegistrationDeadline,
		AllowLateRegistration: e.AllowLateRegistration,
		ShowRegisteredList:    e.ShowRegisteredList,
		ShowPhoneField:        e.PhoneFieldShown(),
		ShowEmailField:        e.EmailFieldShown(),
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

func ToEventResponses(events []models.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = ToEventResponse(&events[i])
	}
	return out
}

type RegistrationResponse struct {
	TicketRegistration
	CustomFields json.RawMessage `json:"custom_fields"`
	DuplicateTrx bool            `json:"duplicate_trx"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToRegistrationResponse(r *models.Registration, duplicate bool) RegistrationResponse {
	custom := json.RawMessage("null")
	if len(r.CustomFields) > 0 {
		custom = json.RawMessage(r.CustomFields)
	}
	return RegistrationResponse{
		TicketRegistration: *ToTicketRegistration(r),
		CustomFields:       custom,
		DuplicateTrx:       duplicate,
		UpdatedAt:          r.UpdatedAt,
	}
}

type RegistrationListResponse struct {
	Registrations []RegistrationResponse  `json:"registrations"`
	Counts        repository.StatusCounts `json:"counts"`
}

func ToRegistrationListResponse(l *service.RegistrationList) RegistrationListResponse {
	out := make([]RegistrationResponse, len(l.Registrations))
	for i := range l.Registrations {
		r := &l.Registrations[i]
		out[i] = ToRegistrationResponse(r, l.DuplicateTrx[r.ID])
	}
	return RegistrationListResponse{Registrations: out, Counts: l.Counts}
}

type StatusUpdateResponse struct {
	Updated int64 `json:"updated"`
}

type ActivityResponse struct {
	ID             uint            `json:"id"`
	Type           string          `json:"type"`
	RegistrationID *string         `json:"registration_id"`
	Payload        json.RawMessage `json:"payload"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func ToActivityResponses(logs []models.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, len(logs))
	for i, l := range logs {
		payload := json.RawMessage("null")
		if len(l.Payload) > 0 {
			payload = json.RawMessage(l.Payload)
		}
		out[i] = ActivityResponse{
			ID:             l.ID,
			Type:           l.Type,
			RegistrationID: l.RegistrationID,
			Payload:        payload,
			OccurredAt:     l.OccurredAt,
		}
	}
	return out
}
