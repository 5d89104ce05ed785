package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// UserResolver resolves an external identity to a user record, creating one
// on first contact.
type UserResolver interface {
	GetOrCreate(ctx context.Context, externalID string) (*domain.User, error)
}

// Identity reads the authenticated identity from the X-User-Id header (set
// by the gateway in front of this service), resolves the user record, and
// injects both identifiers into the request context. Requests without the
// header are rejected with 401.
func Identity(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			externalID := c.Request().Header.Get("X-User-Id")
			if externalID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
			}

			user, err := resolver.GetOrCreate(c.Request().Context(), externalID)
			if err != nil {
				return err
			}

			c.Set("user_id", user.ID)
			c.Set("external_id", externalID)

			return next(c)
		}
	}
}
