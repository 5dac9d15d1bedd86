package cli

import (
	"net/http"

	"github.com/Eursukkul/regdesk/config"
	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/Eursukkul/regdesk/internal/handler"
	"github.com/Eursukkul/regdesk/internal/middleware"
	"github.com/Eursukkul/regdesk/internal/service"
	"github.com/Eursukkul/regdesk/pkg/validator"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var corsHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type Services struct {
	Registration service.RegistrationService
	Lookup       service.LookupService
	Organizer    service.OrganizerService
	Verifier     *auth.Verifier
}

// NewServer wires middleware and routes. Public endpoints are served both at
// the root and under /api/v1.
func NewServer(cfg *config.Config, log zerolog.Logger, svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Validator = validator.New()

	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: corsHeaders,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "regdesk"})
	})

	var lookupMw []echo.MiddlewareFunc
	if cfg.LookupRPS > 0 {
		store := echoMw.NewRateLimiterMemoryStore(rate.Limit(cfg.LookupRPS))
		lookupMw = append(lookupMw, echoMw.RateLimiter(store))
	}

	public := handler.NewRegistrationHandler(svc.Registration, svc.Lookup)
	public.RegisterRoutes(e.Group(""), lookupMw...)

	api := e.Group("/api/v1")
	public.RegisterRoutes(api, lookupMw...)

	organizer := api.Group("/organizer", middleware.RequireAuth(svc.Verifier))
	handler.NewOrganizerHandler(svc.Organizer).RegisterRoutes(organizer)

	return e
}
