package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type InsightsHandler struct {
	service ports.InsightsService
}

func NewInsightsHandler(service ports.InsightsService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// Comprehensive handles GET /api/insights/comprehensive — the full report,
// with sections degrading independently when their generation fails.
func (h *InsightsHandler) Comprehensive(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	report, err := h.service.Comprehensive(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// HealthScore handles GET /api/insights/health-score.
func (h *InsightsHandler) HealthScore(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	score, err := h.service.HealthScore(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, score)
}

// Spending handles GET /api/insights/spending.
func (h *InsightsHandler) Spending(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	insights, err := h.service.Spending(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insights)
}

// SavingsPlans handles GET /api/insights/savings-plans.
func (h *InsightsHandler) SavingsPlans(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	plans, err := h.service.SavingsPlans(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": plans})
}
