package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// AccountRepository defines persistence operations for bank accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// ListByUser returns all accounts owned by the user, closed ones included.
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// ExistsByNumber reports whether any account carries the number.
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)

	// ApplyDelta atomically adjusts the balance by delta. For negative deltas
	// the update only matches when the resulting balance stays at or above
	// floor, so concurrent withdrawals cannot overdraw; a non-match returns
	// domain.ErrInsufficientFunds. Returns the account after the update.
	ApplyDelta(ctx context.Context, accountID string, delta, floor float64) (*domain.Account, error)

	// Update applies the given field changes and returns the account after
	// the update.
	Update(ctx context.Context, accountID string, fields map[string]any) (*domain.Account, error)

	// UpdateStatus transitions the account's lifecycle state.
	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error

	// UpdateMirror syncs a savings mirror row (matched by account number)
	// after the savings side changed.
	UpdateMirror(ctx context.Context, accountNumber string, fields map[string]any) error
}
