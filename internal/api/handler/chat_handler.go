package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/api/metrics"
	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// ChatHandler handles the assistant query endpoints.
type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatQueryRequest struct {
	Query string `json:"query" validate:"required,min=1,max=2000"`
}

// Query handles POST /api/chat/query — answers one natural-language question
// over the user's own data and returns the transparency report alongside the
// answer.
func (h *ChatHandler) Query(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req chatQueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	result, err := h.service.AnswerQuery(c.Request().Context(), ports.AnswerQueryInput{
		UserID: userID,
		Query:  req.Query,
	})
	if err != nil {
		metrics.QueriesFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return err
	}

	metrics.QueriesTotal.WithLabelValues(result.QueryType, string(result.ValidationStatus)).Inc()
	metrics.QueryDuration.WithLabelValues(result.QueryType).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, result)
}

// History handles GET /api/chat/history — the user's past query audit
// records, newest first.
func (h *ChatHandler) History(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.service.History(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"history": entries, "count": len(entries)})
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCompletionUnavailable):
		return "completion_unavailable"
	case errors.Is(err, domain.ErrInvalidCompletionOutput):
		return "invalid_output"
	default:
		return "internal"
	}
}
