package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// DedupChecker abstracts the ingestion idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, accountNumber, reference string) (bool, error)
	Mark(ctx context.Context, accountNumber, reference string) error
}

// TransactionService records externally-sourced transactions and serves the
// ledger. Ledger records are immutable: ingest inserts, nothing updates.
type TransactionService struct {
	transactions ports.TransactionRepository
	accounts     ports.AccountRepository
	dedup        DedupChecker
	logger       zerolog.Logger
}

func NewTransactionService(
	transactions ports.TransactionRepository,
	accounts ports.AccountRepository,
	dedup DedupChecker,
	logger zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		accounts:     accounts,
		dedup:        dedup,
		logger:       logger,
	}
}

// Ingest processes one external transaction:
//  1. Duplicate references for the same account are silently skipped.
//  2. The account balance is adjusted atomically; debits cannot overdraw.
//  3. The ledger record is inserted and the reference marked as seen.
func (s *TransactionService) Ingest(ctx context.Context, in ports.IngestTransactionInput) error {
	if in.Amount <= 0 {
		return domain.ErrInvalidAmount
	}

	if in.Reference != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, in.AccountNumber, in.Reference)
		if err != nil {
			s.logger.Warn().Err(err).Str("reference", in.Reference).Msg("dedup check failed, proceeding")
		} else if isDup {
			s.logger.Info().
				Str("account_number", in.AccountNumber).
				Str("reference", in.Reference).
				Msg("duplicate transaction skipped")
			return nil
		}
	}

	account, err := s.accounts.FindByNumber(ctx, in.AccountNumber)
	if err != nil {
		return err
	}

	delta := in.Amount
	if in.Type == domain.TxnDebit {
		delta = -in.Amount
	}
	if _, err := s.accounts.ApplyDelta(ctx, account.ID, delta, 0); err != nil {
		return err
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err = s.transactions.Insert(ctx, &domain.Transaction{
		AccountID:    account.ID,
		UserID:       account.UserID,
		Type:         in.Type,
		Amount:       in.Amount,
		Currency:     orDefault(in.Currency, account.Currency),
		Description:  in.Description,
		Category:     in.Category,
		MerchantName: in.MerchantName,
		Reference:    in.Reference,
		Status:       domain.TxnCompleted,
		CreatedAt:    occurredAt,
	})
	if err != nil {
		return err
	}

	if in.Reference != "" {
		if err := s.dedup.Mark(ctx, in.AccountNumber, in.Reference); err != nil {
			s.logger.Warn().Err(err).Str("reference", in.Reference).Msg("failed to mark transaction reference")
		}
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("type", in.Type).
		Float64("amount", in.Amount).
		Msg("transaction ingested")
	return nil
}

func (s *TransactionService) List(ctx context.Context, filter ports.ListTransactionsFilter) (*ports.TransactionPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	txns, total, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.TransactionPage{
		Transactions: txns,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}
