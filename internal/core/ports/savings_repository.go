package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// SavingsRepository defines persistence operations for dedicated savings
// accounts.
type SavingsRepository interface {
	Create(ctx context.Context, account *domain.SavingsAccount) (*domain.SavingsAccount, error)
	FindByID(ctx context.Context, id string) (*domain.SavingsAccount, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.SavingsAccount, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	Update(ctx context.Context, accountID string, fields map[string]any) (*domain.SavingsAccount, error)

	// ApplyDelta atomically adjusts the balance by delta; negative deltas only
	// match when the resulting balance stays at or above floor. A non-match
	// returns domain.ErrInsufficientFunds.
	ApplyDelta(ctx context.Context, accountID string, delta, floor float64) (*domain.SavingsAccount, error)

	Delete(ctx context.Context, id string) error
}

// GoalRepository defines persistence operations for savings goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.SavingsGoal) (*domain.SavingsGoal, error)
	FindByID(ctx context.Context, id string) (*domain.SavingsGoal, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.SavingsGoal, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.SavingsGoal, error)
	// AddProgress atomically increments current_amount by delta and returns
	// the updated goal.
	AddProgress(ctx context.Context, id string, delta float64) (*domain.SavingsGoal, error)
	Delete(ctx context.Context, id string) error
}
