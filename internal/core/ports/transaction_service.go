package ports

import (
	"context"
	"time"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// IngestTransactionInput is one externally-sourced transaction handed to the
// ingestion pipeline. Reference is the upstream identifier used for
// deduplication.
type IngestTransactionInput struct {
	AccountNumber string
	Type          string
	Amount        float64
	Currency      string
	Description   string
	Category      string
	MerchantName  string
	Reference     string
	OccurredAt    time.Time
}

// TransactionPage is one page of a user's transaction history.
type TransactionPage struct {
	Transactions []*domain.Transaction `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// TransactionService records and serves the immutable transaction ledger.
type TransactionService interface {
	// Ingest processes one external transaction: duplicate references are
	// silently skipped, otherwise the account balance is adjusted atomically
	// and a ledger record inserted.
	Ingest(ctx context.Context, in IngestTransactionInput) error
	List(ctx context.Context, filter ListTransactionsFilter) (*TransactionPage, error)
	Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
}
