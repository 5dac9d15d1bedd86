package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is one persisted domain event, written by the activity consumer.
type ActivityLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Type           string         `gorm:"type:varchar(64);not null;index" json:"type"`
	EventID        string         `gorm:"type:uuid;not null;index" json:"event_id"`
	RegistrationID *string        `gorm:"type:uuid" json:"registration_id,omitempty"`
	Payload        datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	OccurredAt     time.Time      `gorm:"not null" json:"occurred_at"`
	CreatedAt      time.Time      `json:"created_at"`
}
