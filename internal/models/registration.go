package models

import (
	"time"

	"gorm.io/datatypes"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// OccupyingStatuses are the statuses that hold a seat.
var OccupyingStatuses = []RegistrationStatus{RegistrationPending, RegistrationApproved}

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

type Registration struct {
	ID                 string             `gorm:"type:uuid;primaryKey" json:"id"`
	EventID            string             `gorm:"type:uuid;not null;index" json:"event_id"`
	Name               string             `gorm:"not null" json:"name"`
	Phone              *string            `gorm:"index" json:"phone"`
	Email              *string            `gorm:"index" json:"email"`
	GuestCount         int                `gorm:"not null;default:0" json:"guest_count"`
	TransactionID      *string            `gorm:"index" json:"transaction_id"`
	Status             RegistrationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason    *string            `json:"rejection_reason"`
	RegistrationNumber string             `gorm:"not null;uniqueIndex" json:"registration_number"`
	IPAddress          *string            `gorm:"index:idx_registrations_ip_created,priority:1" json:"-"`
	CustomFields       datatypes.JSON     `gorm:"type:jsonb" json:"custom_fields"`
	Tag                *string            `json:"tag"`
	CreatedAt          time.Time          `gorm:"index:idx_registrations_ip_created,priority:2" json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Tags organizers may attach to a registration.
var RegistrationTags = []string{"special_guest", "organizer", "vip"}

func ValidTag(tag string) bool {
	for _, t := range RegistrationTags {
		if t == tag {
			return true
		}
	}
	return false
}
