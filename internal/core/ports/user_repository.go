package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// UserRepository defines persistence operations for user profiles.
type UserRepository interface {
	// FindByExternalID retrieves a user by the identifier supplied by the
	// identity provider. Returns domain.ErrUserNotFound when absent.
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update applies the given field set and returns the updated document.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
}
