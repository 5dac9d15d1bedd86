package service

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
)

// RegistrationInput is a public registration submission.
type RegistrationInput struct {
	EventID       string
	Name          string
	Phone         *string
	Email         *string
	GuestCount    *int
	TransactionID *string
	CustomFields  models.CustomValues
}

// Policy holds the tunables of registration intake.
type Policy struct {
	RateLimitMax     int
	RateLimitWindow  time.Duration
	DeadlineLocation *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		RateLimitMax:     10,
		RateLimitWindow:  2 * time.Hour,
		DeadlineLocation: time.UTC,
	}
}

func (p Policy) location() *time.Location {
	if p.DeadlineLocation == nil {
		return time.UTC
	}
	return p.DeadlineLocation
}

// EffectiveDeadline extends a deadline stored at midnight to the end of
// that day. Other deadlines are returned unchanged.
func (p Policy) EffectiveDeadline(deadline time.Time) time.Time {
	loc := p.location()
	local := deadline.In(loc)
	if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 {
		return deadline
	}
	y, m, d := local.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// checkOpen runs the event-level gates: publication, then deadline.
func (p Policy) checkOpen(event *models.Event, now time.Time) error {
	if event.Status != models.EventPublished {
		return ErrEventNotOpen
	}
	if event.RegistrationDeadline != nil && !event.AllowLateRegistration {
		if now.After(p.EffectiveDeadline(*event.RegistrationDeadline)) {
			return ErrDeadlinePassed
		}
	}
	return nil
}

func checkCapacity(event *models.Event, occupied int64) error {
	if event.HasSeatLimit() && occupied >= int64(*event.SeatLimit) {
		return ErrEventFull
	}
	return nil
}

// checkShape validates guests, contact details and custom field answers.
func checkShape(event *models.Event, in RegistrationInput, fields []models.CustomFormField) error {
	if err := checkGuests(event, in.GuestCount); err != nil {
		return err
	}
	if err := checkContact(event, in.Phone, in.Email); err != nil {
		return err
	}
	return checkCustomFields(fields, in.CustomFields)
}

func checkGuests(event *models.Event, guests *int) error {
	if guests == nil {
		return nil
	}
	n := *guests
	if n < 0 {
		return invalidField("guest_count", "guest_count must not be negative")
	}
	if limit := event.MaxGuests(); n > limit {
		if limit == 0 {
			return invalidField("guest_count", "This event does not allow guests")
		}
		return invalidField("guest_count", "guest_count must be at most %d", limit)
	}
	return nil
}

// checkContact applies only to free events.
func checkContact(event *models.Event, phone, email *string) error {
	if !event.IsFree() {
		return nil
	}
	hasPhone := strings.TrimSpace(deref(phone)) != ""
	hasEmail := strings.TrimSpace(deref(email)) != ""

	showPhone, showEmail := event.PhoneFieldShown(), event.EmailFieldShown()
	switch {
	case showPhone && showEmail:
		if !hasPhone && !hasEmail {
			return invalidField("phone", "Phone or email is required")
		}
	case showPhone:
		if !hasPhone {
			return invalidField("phone", "Phone is required")
		}
	case showEmail:
		if !hasEmail {
			return invalidField("email", "Email is required")
		}
	}
	return nil
}

func checkCustomFields(fields []models.CustomFormField, values models.CustomValues) error {
	known := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		known[f.ID] = struct{}{}

		v, ok := values[f.ID]
		if !ok || v.IsEmpty() {
			if f.IsRequired {
				return invalidField(f.FieldName, "%s is required", f.FieldName)
			}
			if !ok || v.Kind == models.ValueNull {
				continue
			}
		}
		if err := checkCustomValue(f, v); err != nil {
			return err
		}
	}

	var unknown []string
	for key := range values {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return invalidField(unknown[0], "Unknown custom field %q", unknown[0])
	}
	return nil
}

func checkCustomValue(f *models.CustomFormField, v models.CustomValue) error {
	switch f.FieldType {
	case models.FieldText:
		if v.Kind != models.ValueText {
			return invalidField(f.FieldName, "%s must be text", f.FieldName)
		}

	case models.FieldNumber:
		switch v.Kind {
		case models.ValueNumber:
		case models.ValueText:
			s := strings.TrimSpace(v.Text)
			if s == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return invalidField(f.FieldName, "%s must be a number", f.FieldName)
			}
		default:
			return invalidField(f.FieldName, "%s must be a number", f.FieldName)
		}

	case models.FieldSelect:
		if v.Kind != models.ValueText {
			return invalidField(f.FieldName, "%s must be one of the listed options", f.FieldName)
		}
		if v.Text != "" && !slices.Contains(f.ChoiceOptions(), v.Text) {
			return invalidField(f.FieldName, "%s must be one of the listed options", f.FieldName)
		}

	case models.FieldCheckbox:
		choices := f.ChoiceOptions()
		switch v.Kind {
		case models.ValueBool:
			if len(choices) > 0 {
				return invalidField(f.FieldName, "%s must be a list of options", f.FieldName)
			}
		case models.ValueList:
			for _, item := range v.List {
				if !slices.Contains(choices, item) {
					return invalidField(f.FieldName, "%s contains an unknown option %q", f.FieldName, item)
				}
			}
		default:
			return invalidField(f.FieldName, "%s must be a list of options", f.FieldName)
		}

	default:
		return invalidField(f.FieldName, "%s has an unsupported type", f.FieldName)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmed returns nil for nil or blank strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
