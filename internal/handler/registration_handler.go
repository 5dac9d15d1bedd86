package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/regdesk/internal/dto"
	"github.com/Eursukkul/regdesk/internal/service"
	"github.com/labstack/echo/v4"
)

// RegistrationHandler serves the unauthenticated intake and lookup endpoints.
type RegistrationHandler struct {
	reg    service.RegistrationService
	lookup service.LookupService
}

func NewRegistrationHandler(reg service.RegistrationService, lookup service.LookupService) *RegistrationHandler {
	return &RegistrationHandler{reg: reg, lookup: lookup}
}

// RegisterRoutes mounts the public endpoints on g. lookupMw guards the
// lookup endpoints only.
func (h *RegistrationHandler) RegisterRoutes(g *echo.Group, lookupMw ...echo.MiddlewareFunc) {
	g.Any("/register", h.Register)
	g.POST("/find-ticket", h.FindTicket, lookupMw...)
	g.GET("/verify-registration", h.VerifyRegistration, lookupMw...)
	g.GET("/public-registrations", h.PublicRegistrations, lookupMw...)
	g.GET("/public/events/:slug", h.PublicEvent)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
	}

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	res, err := h.reg.Register(c.Request().Context(), req.ToInput(), ClientIP(c.Request()))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegisterResponse(res))
}

func (h *RegistrationHandler) FindTicket(c echo.Context) error {
	var req dto.FindTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	res, err := h.lookup.FindTicket(c.Request().Context(), req.ToInput())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToTicketResponse(res))
}

func (h *RegistrationHandler) VerifyRegistration(c echo.Context) error {
	in := service.VerifyInput{
		RegID:     strings.TrimSpace(c.QueryParam("reg_id")),
		RegNumber: strings.TrimSpace(c.QueryParam("reg_number")),
		TrxID:     strings.TrimSpace(c.QueryParam("trx_id")),
	}

	res, err := h.lookup.Verify(c.Request().Context(), in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToVerifyResponse(res))
}

func (h *RegistrationHandler) PublicRegistrations(c echo.Context) error {
	ctx := c.Request().Context()
	eventID := strings.TrimSpace(c.QueryParam("event_id"))

	if c.QueryParam("count_only") == "true" {
		n, err := h.lookup.OccupiedSeats(ctx, eventID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, dto.OccupiedSeatsResponse{OccupiedSeats: n})
	}

	regs, err := h.lookup.PublicRegistrations(ctx, eventID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPublicRegistrationsResponse(regs))
}

func (h *RegistrationHandler) PublicEvent(c echo.Context) error {
	view, err := h.lookup.PublicEvent(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPublicEventResponse(view))
}

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, else "unknown".
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get(echo.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get(echo.HeaderXRealIP)); ip != "" {
		return ip
	}
	return service.UnknownIP
}
