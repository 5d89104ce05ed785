package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/api/metrics"
	"github.com/aryan4codes/EthicalBank/internal/core/catalog"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type PrivacyHandler struct {
	service ports.ConsentService
}

func NewPrivacyHandler(service ports.ConsentService) *PrivacyHandler {
	return &PrivacyHandler{service: service}
}

type updatePermissionsRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required,min=1"`
}

// Catalog handles GET /api/privacy/data-attributes — the static attribute
// catalog, grouped by category. No identity needed beyond the group's.
func (h *PrivacyHandler) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"categories": catalog.Categories()})
}

// Permissions handles GET /api/privacy/permissions — the full attribute
// catalog annotated with the user's current decisions.
func (h *PrivacyHandler) Permissions(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	categories, err := h.service.Permissions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// UpdatePermissions handles PUT /api/privacy/permissions.
func (h *PrivacyHandler) UpdatePermissions(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePermissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	categories, err := h.service.Update(c.Request().Context(), userID, ports.ConsentUpdateInput{
		Permissions: req.Permissions,
		Source:      "web",
		IPAddress:   c.RealIP(),
		UserAgent:   c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}

	metrics.ConsentUpdatesTotal.Inc()
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// History handles GET /api/privacy/consent-history.
func (h *PrivacyHandler) History(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	records, err := h.service.History(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"records": records, "count": len(records)})
}

// Score handles GET /api/privacy/score.
func (h *PrivacyHandler) Score(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	score, err := h.service.Score(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, score)
}
