package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identifiers injected by the Identity middleware
// and fast-fails before any service call when the middleware did not run.
func ctxIdentity(c echo.Context) (userID, externalID string, err error) {
	userID, _ = c.Get("user_id").(string)
	externalID, _ = c.Get("external_id").(string)
	if userID == "" || externalID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, externalID, nil
}
