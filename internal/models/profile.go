package models

import "time"

// Profile holds per-organizer limits. Rows are managed by the admin panel.
type Profile struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     *string   `json:"full_name"`
	MaxSeatLimit int       `gorm:"not null;default:300" json:"max_seat_limit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
