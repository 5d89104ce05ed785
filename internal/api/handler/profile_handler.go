package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	FirstName        *string             `json:"first_name" validate:"omitempty,max=100"`
	LastName         *string             `json:"last_name" validate:"omitempty,max=100"`
	Email            *string             `json:"email" validate:"omitempty,email"`
	PhoneNumber      *string             `json:"phone_number" validate:"omitempty,max=20"`
	DateOfBirth      *string             `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Income           *float64            `json:"income" validate:"omitempty,gte=0"`
	EmploymentStatus *string             `json:"employment_status" validate:"omitempty,max=50"`
	CreditScore      *int                `json:"credit_score" validate:"omitempty,gte=300,lte=850"`
	Address          *domain.Address     `json:"address"`
	Preferences      *domain.Preferences `json:"preferences"`
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	_, externalID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetOrCreate(c.Request().Context(), externalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	_, externalID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), externalID, ports.UpdateProfileInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		DateOfBirth:      req.DateOfBirth,
		Income:           req.Income,
		EmploymentStatus: req.EmploymentStatus,
		CreditScore:      req.CreditScore,
		Address:          req.Address,
		Preferences:      req.Preferences,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Complete handles POST /api/profile/complete — marks the profile complete
// once every required field is filled.
func (h *ProfileHandler) Complete(c echo.Context) error {
	_, externalID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.MarkComplete(c.Request().Context(), externalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Completion handles GET /api/profile/completion.
func (h *ProfileHandler) Completion(c echo.Context) error {
	_, externalID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	completion, err := h.service.Completion(c.Request().Context(), externalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, completion)
}
