package dto

import (
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/service"
)

// RegisterRequest is the public intake body. Only event_id and name are
// required; the service applies the event's own rules.
type RegisterRequest struct {
	EventID       string              `json:"event_id"`
	Name          string              `json:"name"`
	Phone         *string             `json:"phone"`
	Email         *string             `json:"email"`
	GuestCount    *int                `json:"guest_count"`
	TransactionID *string             `json:"transaction_id"`
	CustomFields  models.CustomValues `json:"custom_fields"`
}

func (r RegisterRequest) ToInput() service.RegistrationInput {
	return service.RegistrationInput{
		EventID:       r.EventID,
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		GuestCount:    r.GuestCount,
		TransactionID: r.TransactionID,
		CustomFields:  r.CustomFields,
	}
}

type FindTicketRequest struct {
	Name          string `json:"name"`
	TransactionID string `json:"transaction_id"`
	ContactType   string `json:"contact_type"`
	ContactValue  string `json:"contact_value"`
}

func (r FindTicketRequest) ToInput() service.FindTicketInput {
	return service.FindTicketInput{
		Name:          r.Name,
		TransactionID: r.TransactionID,
		ContactType:   r.ContactType,
		ContactValue:  r.ContactValue,
	}
}

type EventRequest struct {
	Title                 string     `json:"title" validate:"required,max=200"`
	Description           *string    `json:"description"`
	Venue                 *string    `json:"venue"`
	BannerURL             *string    `json:"banner_url" validate:"omitempty,url"`
	Price                 float64    `json:"price" validate:"gte=0"`
	SeatLimit             *int       `json:"seat_limit" validate:"omitempty,gte=0"`
	GuestLimit            *int       `json:"guest_limit" validate:"omitempty,gte=0"`
	RegistrationDeadline  *time.Time `json:"registration_deadline"`
	AllowLateRegistration bool       `json:"allow_late_registration"`
	ShowRegisteredList    bool       `json:"show_registered_list"`
	ShowPhoneField        *bool      `json:"show_phone_field"`
	ShowEmailField        *bool      `json:"show_email_field"`
}

func (r EventRequest) ToInput() service.EventInput {
	return service.EventInput{
		Title:                 r.Title,
		Description:           r.Description,
		Venue:                 r.Venue,
		BannerURL:             r.BannerURL,
		Price:                 r.Price,
		SeatLimit:             r.SeatLimit,
		GuestLimit:            r.GuestLimit,
		RegistrationDeadline:  r.RegistrationDeadline,
		AllowLateRegistration: r.AllowLateRegistration,
		ShowRegisteredList:    r.ShowRegisteredList,
		ShowPhoneField:        r.ShowPhoneField,
		ShowEmailField:        r.ShowEmailField,
	}
}

type CustomFieldRequest struct {
	ID           string   `json:"id"`
	FieldName    string   `json:"field_name" validate:"required,max=100"`
	FieldType    string   `json:"field_type" validate:"required,oneof=text number select checkbox"`
	FieldOptions []string `json:"field_options"`
	IsRequired   bool     `json:"is_required"`
}

type ReplaceCustomFieldsRequest struct {
	Fields []CustomFieldRequest `json:"fields" validate:"dive"`
}

func (r ReplaceCustomFieldsRequest) ToInput() []service.CustomFieldInput {
	out := make([]service.CustomFieldInput, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = service.CustomFieldInput{
			ID:           f.ID,
			FieldName:    f.FieldName,
			FieldType:    models.FieldType(f.FieldType),
			FieldOptions: f.FieldOptions,
			IsRequired:   f.IsRequired,
		}
	}
	return out
}

type StatusUpdateRequest struct {
	IDs             []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Status          string   `json:"status" validate:"required,oneof=pending approved rejected"`
	RejectionReason *string  `json:"rejection_reason"`
}

type TagRequest struct {
	Tag string `json:"tag" validate:"omitempty,oneof=special_guest organizer vip"`
}

type ManualRegistrantRequest struct {
	Name          string              `json:"name" validate:"required"`
	Phone         *string             `json:"phone"`
	Email         *string             `json:"email" validate:"omitempty,email"`
	GuestCount    int                 `json:"guest_count" validate:"gte=0"`
	TransactionID *string             `json:"transaction_id"`
	Status        string              `json:"status" validate:"omitempty,oneof=approved pending"`
	CustomFields  models.CustomValues `json:"custom_fields"`
}

func (r ManualRegistrantRequest) ToInput() service.ManualRegistrantInput {
	return service.ManualRegistrantInput{
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		GuestCount:    r.GuestCount,
		TransactionID: r.TransactionID,
		Status:        models.RegistrationStatus(r.Status),
		CustomFields:  r.CustomFields,
	}
}
