package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type createAccountRequest struct {
	AccountType    string  `json:"account_type" validate:"required,oneof=checking savings credit loan investment"`
	Name           string  `json:"name" validate:"omitempty,max=100"`
	InitialDeposit float64 `json:"initial_deposit" validate:"gte=0"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
}

type updateAccountRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive frozen"`
}

type moveFundsRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=200"`
}

type transferRequest struct {
	FromAccountID string  `json:"from_account_id" validate:"required"`
	ToAccountID   string  `json:"to_account_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"omitempty,max=200"`
}

// Create handles POST /api/accounts.
func (h *AccountHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.Create(c.Request().Context(), userID, ports.CreateAccountInput{
		AccountType:    req.AccountType,
		Name:           req.Name,
		InitialDeposit: req.InitialDeposit,
		Currency:       req.Currency,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	accounts, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"accounts": accounts, "count": len(accounts)})
}

// Summary handles GET /api/accounts/summary.
func (h *AccountHandler) Summary(c echo.Context) error {
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

// Get handles GET /api/accounts/:id.
func (h *AccountHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update handles PUT /api/accounts/:id — name and status edits; closing goes
// through Close.
func (h *AccountHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), ports.UpdateAccountInput{
		Name:   req.Name,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Deposit handles POST /api/accounts/:id/deposit.
func (h *AccountHandler) Deposit(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req moveFundsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.Deposit(c.Request().Context(), userID, ports.MoveFundsInput{
		AccountID:   c.Param("id"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Withdraw handles POST /api/accounts/:id/withdraw.
func (h *AccountHandler) Withdraw(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req moveFundsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.Withdraw(c.Request().Context(), userID, ports.MoveFundsInput{
		AccountID:   c.Param("id"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Transfer handles POST /api/accounts/transfer.
func (h *AccountHandler) Transfer(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err = h.service.Transfer(c.Request().Context(), userID, ports.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "transfer completed"})
}

// Close handles POST /api/accounts/:id/close.
func (h *AccountHandler) Close(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "account closed"})
}
