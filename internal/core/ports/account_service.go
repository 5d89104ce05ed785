package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// CreateAccountInput carries the data needed to open a new account.
type CreateAccountInput struct {
	AccountType    string
	Name           string
	InitialDeposit float64
	Currency       string
}

// UpdateAccountInput carries account field changes. Nil pointers mean "leave
// unchanged".
type UpdateAccountInput struct {
	Name   *string
	Status *string // active, inactive or frozen; closing goes through Close
}

// MoveFundsInput carries a deposit or withdrawal against one account.
type MoveFundsInput struct {
	AccountID   string
	Amount      float64
	Description string
}

// TransferInput moves funds between two accounts of the same user.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        float64
	Description   string
}

// AccountSummary aggregates a user's position across all open accounts.
type AccountSummary struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`
	AccountCount     int     `json:"account_count"`
}

// AccountService manages bank accounts. All operations are scoped to the
// calling user; an account belonging to someone else behaves as not found.
type AccountService interface {
	Create(ctx context.Context, userID string, in CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, userID, accountID string) (*domain.Account, error)
	List(ctx context.Context, userID string) ([]*domain.Account, error)
	Update(ctx context.Context, userID, accountID string, in UpdateAccountInput) (*domain.Account, error)
	Summary(ctx context.Context, userID string) (*AccountSummary, error)

	// Deposit and Withdraw adjust the balance and record a ledger
	// transaction. Withdraw fails with domain.ErrInsufficientFunds rather
	// than overdrawing.
	Deposit(ctx context.Context, userID string, in MoveFundsInput) (*domain.Account, error)
	Withdraw(ctx context.Context, userID string, in MoveFundsInput) (*domain.Account, error)
	Transfer(ctx context.Context, userID string, in TransferInput) error

	// Close transitions the account to closed. Only zero-balance accounts can
	// close; others fail with domain.ErrAccountNotEmpty.
	Close(ctx context.Context, userID, accountID string) error
}
