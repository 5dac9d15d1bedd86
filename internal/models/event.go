package models

import "time"

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventClosed    EventStatus = "closed"
)

type Event struct {
	ID                    string      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizerID           string      `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Title                 string      `gorm:"not null" json:"title"`
	Slug                  *string     `gorm:"uniqueIndex" json:"slug"`
	Description           *string     `json:"description"`
	Venue                 *string     `json:"venue"`
	BannerURL             *string     `json:"banner_url"`
	Status                EventStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Price                 float64     `gorm:"not null;default:0" json:"price"`
	SeatLimit             *int        `json:"seat_limit"`
	GuestLimit            *int        `json:"guest_limit"`
	RegistrationDeadline  *time.Time  `json:"registration_deadline"`
	AllowLateRegistration bool        `gorm:"not null" json:"allow_late_registration"`
	ShowRegisteredList    bool        `gorm:"not null" json:"show_registered_list"`
	// nil means shown
	ShowPhoneField *bool     `json:"show_phone_field"`
	ShowEmailField *bool     `json:"show_email_field"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Registrations []Registration    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	CustomFields  []CustomFormField `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasSeatLimit reports whether capacity accounting applies to the event.
func (e *Event) HasSeatLimit() bool {
	return e.SeatLimit != nil && *e.SeatLimit > 0
}

func (e *Event) IsFree() bool {
	return e.Price <= 0
}

func (e *Event) PhoneFieldShown() bool {
	return e.ShowPhoneField == nil || *e.ShowPhoneField
}

func (e *Event) EmailFieldShown() bool {
	return e.ShowEmailField == nil || *e.ShowEmailField
}

func (e *Event) MaxGuests() int {
	if e.GuestLimit == nil || *e.GuestLimit < 0 {
		return 0
	}
	return *e.GuestLimit
}

// PublicEvent is the subset of event fields attached to lookup responses.
type PublicEvent struct {
	Title                string     `json:"title"`
	Venue                *string    `json:"venue"`
	BannerURL            *string    `json:"banner_url"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
}

func (e *Event) Public() *PublicEvent {
	return &PublicEvent{
		Title:                e.Title,
		Venue:                e.Venue,
		BannerURL:            e.BannerURL,
		RegistrationDeadline: e.RegistrationDeadline,
	}
}
