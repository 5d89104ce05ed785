package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// UpdateProfileInput carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileInput struct {
	FirstName        *string
	LastName         *string
	Email            *string
	PhoneNumber      *string
	DateOfBirth      *string // YYYY-MM-DD
	Income           *float64
	EmploymentStatus *string
	CreditScore      *int
	Address          *domain.Address
	Preferences      *domain.Preferences
}

// ProfileCompletion reports which profile fields still need filling in.
type ProfileCompletion struct {
	Complete      bool     `json:"complete"`
	Percentage    int      `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
}

// ProfileService manages user profiles. Users are created lazily on first
// authenticated contact.
type ProfileService interface {
	// GetOrCreate returns the profile for the external identity, creating a
	// placeholder record on first contact.
	GetOrCreate(ctx context.Context, externalID string) (*domain.User, error)
	Update(ctx context.Context, externalID string, in UpdateProfileInput) (*domain.User, error)
	Completion(ctx context.Context, externalID string) (*ProfileCompletion, error)
	// MarkComplete flags the profile as completed, failing with
	// domain.ErrProfileIncomplete while required fields are missing.
	MarkComplete(ctx context.Context, externalID string) (*domain.User, error)
}
