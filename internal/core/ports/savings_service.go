package ports

import (
	"context"
	"time"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// CreateSavingsAccountInput carries the data needed to open a savings
// account.
type CreateSavingsAccountInput struct {
	Name           string
	AccountType    string
	Institution    string
	InitialDeposit float64
	APY            float64
	InterestRate   float64
	MinimumBalance float64
}

// UpdateSavingsAccountInput carries savings account field changes. Nil
// pointers mean "leave unchanged".
type UpdateSavingsAccountInput struct {
	Name           *string
	APY            *float64
	InterestRate   *float64
	MinimumBalance *float64
}

// SavingsAccountView decorates a savings account with its derived monthly
// growth figure.
type SavingsAccountView struct {
	domain.SavingsAccount
	MonthlyGrowth float64 `json:"monthly_growth"`
}

// CreateGoalInput carries the data needed to open a savings goal.
type CreateGoalInput struct {
	Name                string
	TargetAmount        float64
	CurrentAmount       float64
	Deadline            time.Time
	MonthlyContribution float64
	Priority            string
	Category            string
	AccountID           string // optional linked savings account
}

// UpdateGoalInput carries goal field changes. Nil pointers mean "leave
// unchanged".
type UpdateGoalInput struct {
	Name                *string
	TargetAmount        *float64
	Deadline            *time.Time
	MonthlyContribution *float64
	Priority            *string
	Category            *string
}

// GoalView decorates a goal with its derived progress figures.
type GoalView struct {
	domain.SavingsGoal
	Status          domain.GoalStatus `json:"status"`
	PercentComplete float64           `json:"percent_complete"`
	MonthsRemaining float64           `json:"months_remaining"`
}

// SavingsSummary aggregates a user's savings position.
type SavingsSummary struct {
	TotalBalance       float64 `json:"total_balance"`
	TotalMonthlyGrowth float64 `json:"total_monthly_growth"`
	AccountCount       int     `json:"account_count"`
	GoalCount          int     `json:"goal_count"`
	GoalsCompleted     int     `json:"goals_completed"`
}

// SavingsService manages savings accounts and goals. Every savings account is
// mirrored into the main accounts collection so the unified list stays
// complete.
type SavingsService interface {
	CreateAccount(ctx context.Context, userID string, in CreateSavingsAccountInput) (*SavingsAccountView, error)
	ListAccounts(ctx context.Context, userID string) ([]*SavingsAccountView, error)
	// UpdateAccount edits the account's product terms and keeps the mirror
	// row's metadata in step.
	UpdateAccount(ctx context.Context, userID, accountID string, in UpdateSavingsAccountInput) (*SavingsAccountView, error)
	DepositToAccount(ctx context.Context, userID, accountID string, amount float64) (*SavingsAccountView, error)
	WithdrawFromAccount(ctx context.Context, userID, accountID string, amount float64) (*SavingsAccountView, error)
	// DeleteAccount removes the savings account and closes its mirror row in
	// the main accounts collection.
	DeleteAccount(ctx context.Context, userID, accountID string) error

	CreateGoal(ctx context.Context, userID string, in CreateGoalInput) (*GoalView, error)
	ListGoals(ctx context.Context, userID string) ([]*GoalView, error)
	UpdateGoal(ctx context.Context, userID, goalID string, in UpdateGoalInput) (*GoalView, error)
	// Contribute moves funds into the goal, pulling from the linked savings
	// account when one is set, and caps progress at the target amount.
	Contribute(ctx context.Context, userID, goalID string, amount float64) (*GoalView, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error

	Summary(ctx context.Context, userID string) (*SavingsSummary, error)
}
