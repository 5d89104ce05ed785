package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// ListTransactionsFilter carries query parameters for listing transactions.
type ListTransactionsFilter struct {
	UserID    string
	AccountID string // optional: scope to one account
	Category  string // optional
	Type      string // optional: debit or credit
	Page      int    // 1-based
	Limit     int    // capped by the service
}

// TransactionRepository defines persistence operations for the immutable
// transaction ledger. There is no update or delete.
type TransactionRepository interface {
	Insert(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// List returns a page of transactions newest-first and the total count.
	List(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, int64, error)
	// ListRecent returns up to limit most recent transactions for the user.
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
}
