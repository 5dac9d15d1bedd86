package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether the field type carries an options list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldCheckbox
}

type CustomFormField struct {
	ID           string                       `gorm:"type:uuid;primaryKey" json:"id"`
	EventID      string                       `gorm:"type:uuid;not null;index" json:"event_id"`
	FieldName    string                       `gorm:"not null" json:"field_name"`
	FieldType    FieldType                    `gorm:"type:varchar(20);not null;default:'text'" json:"field_type"`
	FieldOptions datatypes.JSONType[[]string] `json:"field_options"`
	IsRequired   bool                         `gorm:"not null" json:"is_required"`
	SortOrder    int                          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time                    `json:"created_at"`
}

func (f *CustomFormField) Options() []string {
	return f.FieldOptions.Data()
}

// ChoiceOptions returns the non-blank options a registrant can pick from.
func (f *CustomFormField) ChoiceOptions() []string {
	var out []string
	for _, o := range f.Options() {
		if strings.TrimSpace(o) != "" {
			out = append(out, o)
		}
	}
	return out
}

// NormalizeOptions keeps option lists non-empty for types that need them
// and drops them for types that don't.
func NormalizeOptions(t FieldType, options []string) []string {
	if !t.HasOptions() {
		return nil
	}
	if len(options) == 0 {
		return []string{""}
	}
	return options
}
