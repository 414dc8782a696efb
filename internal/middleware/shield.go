package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ripplegram/backend/internal/security"
)

// Shield creates an Echo middleware applying the edge-security decision to
// every request. Denials map to 429 (rate limit) and 403 (bot); everything
// else proceeds — decision failures inside the shield fail open.
func Shield(shield *security.Shield) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := shield.Protect(c.Request().Context(), c.RealIP(), c.Request().UserAgent())
			if decision.Allowed {
				return next(c)
			}

			switch decision.Reason {
			case security.ReasonRateLimit:
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded, please try again later.")
			case security.ReasonBot:
				return echo.NewHTTPError(http.StatusForbidden, "Automated requests are not allowed.")
			default:
				return echo.NewHTTPError(http.StatusForbidden, "Access denied by security policy.")
			}
		}
	}
}
