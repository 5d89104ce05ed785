package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type SavingsHandler struct {
	service ports.SavingsService
}

func NewSavingsHandler(service ports.SavingsService) *SavingsHandler {
	return &SavingsHandler{service: service}
}

type createSavingsAccountRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	AccountType    string  `json:"account_type" validate:"required,max=50"`
	Institution    string  `json:"institution" validate:"omitempty,max=100"`
	InitialDeposit float64 `json:"initial_deposit" validate:"gte=0"`
	APY            float64 `json:"apy" validate:"gte=0,lte=100"`
	InterestRate   float64 `json:"interest_rate" validate:"gte=0,lte=100"`
	MinimumBalance float64 `json:"minimum_balance" validate:"gte=0"`
}

type updateSavingsAccountRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=100"`
	APY            *float64 `json:"apy" validate:"omitempty,gte=0,lte=100"`
	InterestRate   *float64 `json:"interest_rate" validate:"omitempty,gte=0,lte=100"`
	MinimumBalance *float64 `json:"minimum_balance" validate:"omitempty,gte=0"`
}

type savingsAmountRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type createGoalRequest struct {
	Name                string  `json:"name" validate:"required,max=100"`
	TargetAmount        float64 `json:"target_amount" validate:"required,gt=0"`
	CurrentAmount       float64 `json:"current_amount" validate:"gte=0"`
	Deadline            string  `json:"deadline" validate:"required,datetime=2006-01-02"`
	MonthlyContribution float64 `json:"monthly_contribution" validate:"gte=0"`
	Priority            string  `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Category            string  `json:"category" validate:"omitempty,max=50"`
	AccountID           string  `json:"account_id" validate:"omitempty"`
}

type updateGoalRequest struct {
	Name                *string  `json:"name" validate:"omitempty,max=100"`
	TargetAmount        *float64 `json:"target_amount" validate:"omitempty,gt=0"`
	Deadline            *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	MonthlyContribution *float64 `json:"monthly_contribution" validate:"omitempty,gte=0"`
	Priority            *string  `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Category            *string  `json:"category" validate:"omitempty,max=50"`
}

// CreateAccount handles POST /api/savings/accounts.
func (h *SavingsHandler) CreateAccount(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createSavingsAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.CreateAccount(c.Request().Context(), userID, ports.CreateSavingsAccountInput{
		Name:           req.Name,
		AccountType:    req.AccountType,
		Institution:    req.Institution,
		InitialDeposit: req.InitialDeposit,
		APY:            req.APY,
		InterestRate:   req.InterestRate,
		MinimumBalance: req.MinimumBalance,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// ListAccounts handles GET /api/savings/accounts.
func (h *SavingsHandler) ListAccounts(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	accounts, err := h.service.ListAccounts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"accounts": accounts, "count": len(accounts)})
}

// UpdateAccount handles PUT /api/savings/accounts/:id.
func (h *SavingsHandler) UpdateAccount(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateSavingsAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.UpdateAccount(c.Request().Context(), userID, c.Param("id"), ports.UpdateSavingsAccountInput{
		Name:           req.Name,
		APY:            req.APY,
		InterestRate:   req.InterestRate,
		MinimumBalance: req.MinimumBalance,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// DepositToAccount handles POST /api/savings/accounts/:id/deposit.
func (h *SavingsHandler) DepositToAccount(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req savingsAmountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.DepositToAccount(c.Request().Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// WithdrawFromAccount handles POST /api/savings/accounts/:id/withdraw.
func (h *SavingsHandler) WithdrawFromAccount(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req savingsAmountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.WithdrawFromAccount(c.Request().Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// CreateGoal handles POST /api/savings/goals.
func (h *SavingsHandler) CreateGoal(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "deadline must be YYYY-MM-DD")
	}

	goal, err := h.service.CreateGoal(c.Request().Context(), userID, ports.CreateGoalInput{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       req.CurrentAmount,
		Deadline:            deadline,
		MonthlyContribution: req.MonthlyContribution,
		Priority:            req.Priority,
		Category:            req.Category,
		AccountID:           req.AccountID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, goal)
}

// ListGoals handles GET /api/savings/goals.
func (h *SavingsHandler) ListGoals(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	goals, err := h.service.ListGoals(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"goals": goals, "count": len(goals)})
}

// UpdateGoal handles PUT /api/savings/goals/:id.
func (h *SavingsHandler) UpdateGoal(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in := ports.UpdateGoalInput{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		MonthlyContribution: req.MonthlyContribution,
		Priority:            req.Priority,
		Category:            req.Category,
	}
	if req.Deadline != nil {
		deadline, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "deadline must be YYYY-MM-DD")
		}
		in.Deadline = &deadline
	}

	goal, err := h.service.UpdateGoal(c.Request().Context(), userID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goal)
}

// Contribute handles POST /api/savings/goals/:id/contribute.
func (h *SavingsHandler) Contribute(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req savingsAmountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	goal, err := h.service.Contribute(c.Request().Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goal)
}

// DeleteAccount handles DELETE /api/savings/accounts/:id.
func (h *SavingsHandler) DeleteAccount(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteGoal handles DELETE /api/savings/goals/:id.
func (h *SavingsHandler) DeleteGoal(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteGoal(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /api/savings/summary.
func (h *SavingsHandler) Summary(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
