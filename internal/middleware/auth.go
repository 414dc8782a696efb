package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// ContextKeyFirebaseUID is the echo context key holding the verified
// subject id of the authenticated request.
const ContextKeyFirebaseUID = "firebaseUID"

// FirebaseAuth creates an Echo middleware that verifies the bearer ID
// token against the identity provider and stores the subject id in the
// request context.
func FirebaseAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			c.Set(ContextKeyFirebaseUID, token.UID)
			return next(c)
		}
	}
}

// FirebaseUID returns the verified subject id stored by FirebaseAuth, or
// "" for unauthenticated requests.
func FirebaseUID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyFirebaseUID).(string)
	return uid
}
