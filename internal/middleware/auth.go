package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's principal on the context.
func RequireAuth(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if v == nil || !v.Enabled() {
				return echo.NewHTTPError(http.StatusUnauthorized, "organizer access is not configured")
			}

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
			}

			p, err := v.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error()).SetInternal(err)
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func SetPrincipal(c echo.Context, p auth.Principal) {
	c.Set(principalKey, p)
	c.SetRequest(c.Request().WithContext(auth.WithPrincipal(c.Request().Context(), p)))
}

// Principal returns the caller set by RequireAuth.
func Principal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
