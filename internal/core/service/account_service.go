package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// maxAccountsPerUser caps how many accounts one user can hold, closed ones
// included.
const maxAccountsPerUser = 10

type AccountService struct {
	accounts     ports.AccountRepository
	transactions ports.TransactionRepository
	logger       zerolog.Logger
}

func NewAccountService(
	accounts ports.AccountRepository,
	transactions ports.TransactionRepository,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{accounts: accounts, transactions: transactions, logger: logger}
}

func (s *AccountService) Create(ctx context.Context, userID string, in ports.CreateAccountInput) (*domain.Account, error) {
	if !domain.ValidAccountType(in.AccountType) {
		return nil, fmt.Errorf("invalid account type %q", in.AccountType)
	}
	if in.InitialDeposit < 0 {
		return nil, domain.ErrInvalidAmount
	}

	count, err := s.accounts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, domain.ErrAccountLimit
	}

	number, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	account, err := s.accounts.Create(ctx, &domain.Account{
		UserID:        userID,
		AccountNumber: number,
		AccountType:   in.AccountType,
		Balance:       in.InitialDeposit,
		Currency:      currency,
		Status:        domain.AccountActive,
		Name:          in.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if in.InitialDeposit > 0 {
		s.recordTransaction(ctx, account, domain.TxnCredit, in.InitialDeposit, "Initial deposit")
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("account_id", account.ID).
		Str("account_type", in.AccountType).
		Msg("account created")
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.ownedAccount(ctx, userID, accountID)
}

// List returns the user's open accounts. Closed accounts stay in storage for
// ledger history but drop out of the listing.
func (s *AccountService) List(ctx context.Context, userID string) ([]*domain.Account, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	open := make([]*domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Status == domain.AccountClosed {
			continue
		}
		open = append(open, a)
	}
	return open, nil
}

func (s *AccountService) Summary(ctx context.Context, userID string) (*ports.AccountSummary, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ports.AccountSummary{}
	for _, a := range accounts {
		if a.Status == domain.AccountClosed {
			continue
		}
		summary.AccountCount++
		switch a.AccountType {
		case domain.AccountTypeCredit, domain.AccountTypeLoan:
			summary.TotalLiabilities += a.Balance
		default:
			summary.TotalAssets += a.Balance
		}
	}
	summary.NetWorth = summary.TotalAssets - summary.TotalLiabilities
	return summary, nil
}

// Update changes the account's display name or lifecycle status. Closing is
// not a status edit; it goes through Close so the zero-balance rule holds.
func (s *AccountService) Update(ctx context.Context, userID, accountID string, in ports.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Status != nil {
		if *in.Status == string(domain.AccountClosed) || !domain.ValidAccountStatus(*in.Status) {
			return nil, fmt.Errorf("invalid account status %q", *in.Status)
		}
		fields["status"] = domain.AccountStatus(*in.Status)
	}

	updated, err := s.accounts.Update(ctx, account.ID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("account_id", account.ID).Msg("account updated")
	return updated, nil
}

func (s *AccountService) Deposit(ctx context.Context, userID string, in ports.MoveFundsInput) (*domain.Account, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	account, err := s.ownedAccount(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}

	updated, err := s.accounts.ApplyDelta(ctx, account.ID, in.Amount, 0)
	if err != nil {
		return nil, err
	}
	s.recordTransaction(ctx, updated, domain.TxnCredit, in.Amount, orDefault(in.Description, "Deposit"))
	return updated, nil
}

func (s *AccountService) Withdraw(ctx context.Context, userID string, in ports.MoveFundsInput) (*domain.Account, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	account, err := s.ownedAccount(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}

	// The balance guard lives in the conditional update, not here: checking
	// first and updating after would race with concurrent withdrawals.
	updated, err := s.accounts.ApplyDelta(ctx, account.ID, -in.Amount, 0)
	if err != nil {
		return nil, err
	}
	s.recordTransaction(ctx, updated, domain.TxnDebit, in.Amount, orDefault(in.Description, "Withdrawal"))
	return updated, nil
}

func (s *AccountService) Transfer(ctx context.Context, userID string, in ports.TransferInput) error {
	if in.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if in.FromAccountID == in.ToAccountID {
		return fmt.Errorf("cannot transfer to the same account")
	}

	from, err := s.ownedAccount(ctx, userID, in.FromAccountID)
	if err != nil {
		return err
	}
	to, err := s.ownedAccount(ctx, userID, in.ToAccountID)
	if err != nil {
		return err
	}

	debited, err := s.accounts.ApplyDelta(ctx, from.ID, -in.Amount, 0)
	if err != nil {
		return err
	}
	credited, err := s.accounts.ApplyDelta(ctx, to.ID, in.Amount, 0)
	if err != nil {
		// Put the debited funds back so the failed transfer nets to zero.
		if _, rbErr := s.accounts.ApplyDelta(ctx, from.ID, in.Amount, 0); rbErr != nil {
			s.logger.Error().
				Err(rbErr).
				Str("account_id", from.ID).
				Float64("amount", in.Amount).
				Msg("transfer rollback failed, balance out of sync")
		}
		return err
	}

	description := orDefault(in.Description, "Transfer")
	s.recordTransaction(ctx, debited, domain.TxnDebit, in.Amount, description)
	s.recordTransaction(ctx, credited, domain.TxnCredit, in.Amount, description)

	s.logger.Info().
		Str("user_id", userID).
		Str("from", from.ID).
		Str("to", to.ID).
		Float64("amount", in.Amount).
		Msg("transfer completed")
	return nil
}

// Close transitions the account to closed. Accounts are never deleted.
func (s *AccountService) Close(ctx context.Context, userID, accountID string) error {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if account.Balance != 0 {
		return domain.ErrAccountNotEmpty
	}
	if err := s.accounts.UpdateStatus(ctx, account.ID, domain.AccountClosed); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("account_id", accountID).Msg("account closed")
	return nil
}

// ownedAccount fetches the account and verifies ownership. Someone else's
// account behaves exactly like a missing one.
func (s *AccountService) ownedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// recordTransaction writes the ledger entry for a balance change. The
// balance already moved; a failed ledger write is logged, not surfaced.
func (s *AccountService) recordTransaction(ctx context.Context, account *domain.Account, txnType string, amount float64, description string) {
	_, err := s.transactions.Insert(ctx, &domain.Transaction{
		AccountID:   account.ID,
		UserID:      account.UserID,
		Type:        txnType,
		Amount:      amount,
		Currency:    account.Currency,
		Description: description,
		Category:    "transfer",
		Status:      domain.TxnCompleted,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to record ledger transaction")
	}
}

// generateAccountNumber returns an unused 12-digit account number.
func (s *AccountService) generateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number, err := randomDigits(12)
		if err != nil {
			return "", err
		}
		exists, err := s.accounts.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique account number")
}

func randomDigits(n int) (string, error) {
	max := big.NewInt(10)
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	// No leading zero so the number always prints at full width.
	if digits[0] == '0' {
		digits[0] = '1'
	}
	return string(digits), nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
