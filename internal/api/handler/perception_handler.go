package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type PerceptionHandler struct {
	service ports.PerceptionService
}

func NewPerceptionHandler(service ports.PerceptionService) *PerceptionHandler {
	return &PerceptionHandler{service: service}
}

type disputeRequest struct {
	Category   string `json:"category" validate:"required,max=50"`
	Label      string `json:"label" validate:"required,max=100"`
	Reason     string `json:"reason" validate:"required,max=500"`
	Correction string `json:"correction" validate:"omitempty,max=500"`
}

// Get handles GET /api/perception — the current characterization, served
// from cache or regenerated when stale.
func (h *PerceptionHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	perception, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perception)
}

// Refresh handles POST /api/perception/refresh.
func (h *PerceptionHandler) Refresh(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	perception, err := h.service.Refresh(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perception)
}

// Dispute handles POST /api/perception/dispute.
func (h *PerceptionHandler) Dispute(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req disputeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	dispute, err := h.service.Dispute(c.Request().Context(), userID, ports.DisputeInput{
		Category:   req.Category,
		Label:      req.Label,
		Reason:     req.Reason,
		Correction: req.Correction,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dispute)
}

// Disputes handles GET /api/perception/disputes.
func (h *PerceptionHandler) Disputes(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	disputes, err := h.service.Disputes(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"disputes": disputes, "count": len(disputes)})
}
