package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/Eursukkul/regdesk/internal/dto"
	"github.com/Eursukkul/regdesk/internal/middleware"
	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/Eursukkul/regdesk/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type OrganizerHandler struct {
	svc service.OrganizerService
}

func NewOrganizerHandler(svc service.OrganizerService) *OrganizerHandler {
	return &OrganizerHandler{svc: svc}
}

// RegisterRoutes expects g to already require authentication.
func (h *OrganizerHandler) RegisterRoutes(g *echo.Group) {
	events := g.Group("/events")
	events.POST("", h.CreateEvent)
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)
	events.PUT("/:id", h.UpdateEvent)
	events.DELETE("/:id", h.DeleteEvent)

	events.POST("/:id/publish", h.PublishEvent)
	events.POST("/:id/close", h.CloseEvent)
	events.POST("/:id/reopen", h.ReopenEvent)

	events.GET("/:id/fields", h.ListCustomFields)
	events.PUT("/:id/fields", h.ReplaceCustomFields)

	events.GET("/:id/registrations", h.ListRegistrations)
	events.POST("/:id/registrations", h.AddRegistrant)
	events.PATCH("/:id/registrations/status", h.UpdateRegistrationStatus)
	events.PUT("/:id/registrations/:regId/tag", h.SetTag)

	events.GET("/:id/activity", h.ListActivity)
}

func principal(c echo.Context) (auth.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthorized.Message)
	}
	return p, nil
}

// bindValid binds the body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	event, err := h.svc.CreateEvent(c.Request().Context(), p, req.ToInput())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *OrganizerHandler) ListEvents(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	events, err := h.svc.ListEvents(c.Request().Context(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *OrganizerHandler) GetEvent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	event, err := h.svc.GetEvent(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *OrganizerHandler) UpdateEvent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	event, err := h.svc.UpdateEvent(c.Request().Context(), p, c.Param("id"), req.ToInput())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *OrganizerHandler) DeleteEvent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteEvent(c.Request().Context(), p, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrganizerHandler) PublishEvent(c echo.Context) error {
	return h.transition(c, h.svc.PublishEvent)
}

func (h *OrganizerHandler) CloseEvent(c echo.Context) error {
	return h.transition(c, h.svc.CloseEvent)
}

func (h *OrganizerHandler) ReopenEvent(c echo.Context) error {
	return h.transition(c, h.svc.ReopenEvent)
}

type transitionFunc func(ctx context.Context, p auth.Principal, id string) (*models.Event, error)

func (h *OrganizerHandler) transition(c echo.Context, fn transitionFunc) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	event, err := fn(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *OrganizerHandler) ListCustomFields(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	fields, err := h.svc.ListCustomFields(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCustomFieldResponses(fields))
}

func (h *OrganizerHandler) ReplaceCustomFields(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ReplaceCustomFieldsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	fields, err := h.svc.ReplaceCustomFields(c.Request().Context(), p, c.Param("id"), req.ToInput())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCustomFieldResponses(fields))
}

func (h *OrganizerHandler) ListRegistrations(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	filter := repository.RegistrationFilter{Search: strings.TrimSpace(c.QueryParam("q"))}
	if s := c.QueryParam("status"); s != "" && s != "all" {
		status := models.RegistrationStatus(s)
		filter.Status = &status
	}

	list, err := h.svc.ListRegistrations(c.Request().Context(), p, c.Param("id"), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationListResponse(list))
}

func (h *OrganizerHandler) AddRegistrant(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ManualRegistrantRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	reg, err := h.svc.AddRegistrant(c.Request().Context(), p, c.Param("id"), req.ToInput())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg, false))
}

func (h *OrganizerHandler) UpdateRegistrationStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	n, err := h.svc.UpdateRegistrationStatus(c.Request().Context(), p, c.Param("id"), req.IDs,
		models.RegistrationStatus(req.Status), req.RejectionReason)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.StatusUpdateResponse{Updated: n})
}

func (h *OrganizerHandler) SetTag(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.TagRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if err := h.svc.SetTag(c.Request().Context(), p, c.Param("id"), c.Param("regId"), req.Tag); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrganizerHandler) ListActivity(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	limit := defaultActivityLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = min(n, maxActivityLimit)
	}

	entries, err := h.svc.ListActivity(c.Request().Context(), p, c.Param("id"), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToActivityResponses(entries))
}
