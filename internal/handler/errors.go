package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/regdesk/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps a service failure onto a status code. Internal failures
// keep the cause for logging and show a generic message.
func toHTTPError(err error) error {
	var status int
	switch service.KindOf(err) {
	case service.KindBadRequest, service.KindPolicyRejected:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindRateLimited:
		status = http.StatusTooManyRequests
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(status, message(err))
}

func message(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var se *service.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
