package service

import (
	"errors"
	"fmt"
	"time"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindPolicyRejected
	KindRateLimited
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindPolicyRejected:
		return "policy_rejected"
	case KindRateLimited:
		return "rate_limited"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a classified failure whose message is safe to show to the caller.
// Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrInternal = newError(KindInternal, "internal", "internal server error")

	// intake
	ErrMissingFields  = newError(KindBadRequest, "missing_fields", "event_id and name are required")
	ErrEventNotFound  = newError(KindNotFound, "event_not_found", "Event not found")
	ErrEventNotOpen   = newError(KindPolicyRejected, "event_not_open", "Event is not open for registration")
	ErrDeadlinePassed = newError(KindPolicyRejected, "deadline_passed", "Registration deadline has passed")
	ErrEventFull      = newError(KindPolicyRejected, "event_full", "Event is full. No more seats available.")
	ErrRateLimited    = newError(KindRateLimited, "rate_limited", "Too many registrations from this device. Please try again later.")

	// lookup
	ErrNameRequired         = newError(KindBadRequest, "name_required", "Name is required")
	ErrInvalidContactType   = newError(KindBadRequest, "invalid_contact_type", "Invalid contact_type")
	ErrInvalidTransactionID = newError(KindBadRequest, "invalid_transaction_id", "Invalid transaction ID")
	ErrLookupKeyMissing     = newError(KindBadRequest, "lookup_key_missing", "Provide transaction_id (paid) or contact_type + contact_value (free)")
	ErrVerifyKeyMissing     = newError(KindBadRequest, "verify_key_missing", "Provide reg_id, reg_number, or trx_id")
	ErrEventIDRequired      = newError(KindBadRequest, "event_id_required", "event_id required")
	ErrListNotPublic        = newError(KindForbidden, "list_not_public", "Not available")
	ErrRegistrationNotFound = newError(KindNotFound, "registration_not_found", "Registration not found")

	// organizer
	ErrUnauthorized         = newError(KindUnauthorized, "unauthorized", "Unauthorized")
	ErrForbidden            = newError(KindForbidden, "forbidden", "You do not have access to this event")
	ErrInvalidTransition    = newError(KindPolicyRejected, "invalid_transition", "Event cannot move to that status")
	ErrSeatLimitExceeded    = newError(KindPolicyRejected, "seat_limit_exceeded", "Seat limit exceeds your plan maximum")
	ErrInvalidStatus        = newError(KindBadRequest, "invalid_status", "Invalid registration status")
	ErrInvalidTag           = newError(KindBadRequest, "invalid_tag", "Invalid tag")
	ErrNoRegistrations      = newError(KindBadRequest, "no_registrations", "At least one registration id is required")
	ErrInvalidFieldType     = newError(KindBadRequest, "invalid_field_type", "Invalid custom field type")
	ErrDuplicateFieldName   = newError(KindBadRequest, "duplicate_field_name", "Custom field names must be unique")
	ErrRegistrationsMissing = newError(KindNotFound, "registrations_missing", "Some registrations were not found in this event")
)

// rateLimited carries the retry window in its message.
func rateLimited(window time.Duration) *Error {
	return newError(KindRateLimited, ErrRateLimited.Code,
		fmt.Sprintf("Too many registrations from this device. Please try again after %s.", humanizeWindow(window)))
}

func humanizeWindow(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidField(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindBadRequest
	}
	return KindInternal
}
