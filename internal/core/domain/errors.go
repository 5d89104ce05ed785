package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrSavingsAccountNotFound = errors.New("savings account not found")
	ErrGoalNotFound           = errors.New("savings goal not found")
	ErrTransactionNotFound    = errors.New("transaction not found")

	ErrPerceptionAttributeNotFound = errors.New("perception attribute not found")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotEmpty   = errors.New("account balance must be zero to close")
	ErrAccountLimit      = errors.New("maximum number of accounts reached")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrProfileIncomplete = errors.New("profile incomplete")

	// ErrCompletionUnavailable is returned when the completion service cannot
	// be reached or fails at the transport level.
	ErrCompletionUnavailable = errors.New("completion service unavailable")
	// ErrInvalidCompletionOutput is returned when the completion service
	// answered but its output could not be parsed as the expected JSON.
	ErrInvalidCompletionOutput = errors.New("invalid completion output")
)
