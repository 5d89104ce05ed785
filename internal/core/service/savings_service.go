package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type SavingsService struct {
	savings  ports.SavingsRepository
	goals    ports.GoalRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewSavingsService(
	savings ports.SavingsRepository,
	goals ports.GoalRepository,
	accounts ports.AccountRepository,
	logger zerolog.Logger,
) *SavingsService {
	return &SavingsService{savings: savings, goals: goals, accounts: accounts, logger: logger}
}

// CreateAccount opens a savings account and mirrors it into the main
// accounts collection under the same number, so the unified account list
// stays complete.
func (s *SavingsService) CreateAccount(ctx context.Context, userID string, in ports.CreateSavingsAccountInput) (*ports.SavingsAccountView, error) {
	if in.InitialDeposit < 0 {
		return nil, domain.ErrInvalidAmount
	}

	number, err := s.generateSavingsNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account, err := s.savings.Create(ctx, &domain.SavingsAccount{
		UserID:         userID,
		Name:           in.Name,
		AccountNumber:  number,
		Balance:        in.InitialDeposit,
		InterestRate:   in.InterestRate,
		APY:            in.APY,
		AccountType:    in.AccountType,
		Institution:    in.Institution,
		MinimumBalance: in.MinimumBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	_, err = s.accounts.Create(ctx, &domain.Account{
		UserID:        userID,
		AccountNumber: number,
		AccountType:   domain.AccountTypeSavings,
		Balance:       in.InitialDeposit,
		Currency:      "USD",
		Status:        domain.AccountActive,
		Name:          in.Name,
		Metadata: domain.AccountMetadata{
			InterestRate:       in.InterestRate,
			APY:                in.APY,
			MinimumBalance:     in.MinimumBalance,
			SavingsAccountType: in.AccountType,
			Institution:        in.Institution,
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("account_number", number).Msg("failed to mirror savings account")
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("savings_id", account.ID).Msg("savings account created")
	return accountView(account), nil
}

func (s *SavingsService) ListAccounts(ctx context.Context, userID string) ([]*ports.SavingsAccountView, error) {
	accounts, err := s.savings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*ports.SavingsAccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView(a))
	}
	return views, nil
}

// UpdateAccount edits the account's name or product terms. Rate and balance
// terms are mirrored into the main accounts row's metadata so the unified
// list keeps showing the current product.
func (s *SavingsService) UpdateAccount(ctx context.Context, userID, accountID string, in ports.UpdateSavingsAccountInput) (*ports.SavingsAccountView, error) {
	account, err := s.ownedSavings(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{"updated_at": now}
	mirror := map[string]any{"updated_at": now}
	if in.Name != nil {
		fields["name"] = *in.Name
		mirror["name"] = *in.Name
	}
	if in.APY != nil {
		if *in.APY < 0 {
			return nil, domain.ErrInvalidAmount
		}
		fields["apy"] = *in.APY
		mirror["metadata.apy"] = *in.APY
	}
	if in.InterestRate != nil {
		if *in.InterestRate < 0 {
			return nil, domain.ErrInvalidAmount
		}
		fields["interest_rate"] = *in.InterestRate
		mirror["metadata.interest_rate"] = *in.InterestRate
	}
	if in.MinimumBalance != nil {
		if *in.MinimumBalance < 0 {
			return nil, domain.ErrInvalidAmount
		}
		fields["minimum_balance"] = *in.MinimumBalance
		mirror["metadata.minimum_balance"] = *in.MinimumBalance
	}

	updated, err := s.savings.Update(ctx, account.ID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateMirror(ctx, updated.AccountNumber, mirror); err != nil {
		s.logger.Error().Err(err).Str("account_number", updated.AccountNumber).Msg("failed to sync savings mirror")
	}

	s.logger.Info().Str("user_id", userID).Str("savings_id", updated.ID).Msg("savings account updated")
	return accountView(updated), nil
}

func (s *SavingsService) DepositToAccount(ctx context.Context, userID, accountID string, amount float64) (*ports.SavingsAccountView, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	account, err := s.ownedSavings(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	updated, err := s.savings.ApplyDelta(ctx, account.ID, amount, 0)
	if err != nil {
		return nil, err
	}
	s.syncMirror(ctx, updated)
	return accountView(updated), nil
}

// WithdrawFromAccount withdraws, never dipping below the account's minimum
// balance.
func (s *SavingsService) WithdrawFromAccount(ctx context.Context, userID, accountID string, amount float64) (*ports.SavingsAccountView, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	account, err := s.ownedSavings(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	updated, err := s.savings.ApplyDelta(ctx, account.ID, -amount, account.MinimumBalance)
	if err != nil {
		return nil, err
	}
	s.syncMirror(ctx, updated)
	return accountView(updated), nil
}

// DeleteAccount removes the savings account and closes its mirror row so the
// unified account list stops showing it as open.
func (s *SavingsService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.ownedSavings(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if err := s.savings.Delete(ctx, account.ID); err != nil {
		return err
	}
	err = s.accounts.UpdateMirror(ctx, account.AccountNumber, map[string]any{
		"status":     domain.AccountClosed,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("account_number", account.AccountNumber).Msg("failed to close savings mirror")
	}
	s.logger.Info().Str("user_id", userID).Str("savings_id", account.ID).Msg("savings account deleted")
	return nil
}

func (s *SavingsService) CreateGoal(ctx context.Context, userID string, in ports.CreateGoalInput) (*ports.GoalView, error) {
	if in.TargetAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if in.AccountID != "" {
		if _, err := s.ownedSavings(ctx, userID, in.AccountID); err != nil {
			return nil, err
		}
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	goal, err := s.goals.Create(ctx, &domain.SavingsGoal{
		UserID:              userID,
		Name:                in.Name,
		TargetAmount:        in.TargetAmount,
		CurrentAmount:       in.CurrentAmount,
		Deadline:            in.Deadline,
		MonthlyContribution: in.MonthlyContribution,
		Priority:            priority,
		Category:            in.Category,
		AccountID:           in.AccountID,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("goal_id", goal.ID).Msg("savings goal created")
	return goalView(goal, now), nil
}

func (s *SavingsService) ListGoals(ctx context.Context, userID string) ([]*ports.GoalView, error) {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	views := make([]*ports.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView(g, now))
	}
	return views, nil
}

func (s *SavingsService) UpdateGoal(ctx context.Context, userID, goalID string, in ports.UpdateGoalInput) (*ports.GoalView, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.TargetAmount != nil {
		if *in.TargetAmount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		fields["target_amount"] = *in.TargetAmount
	}
	if in.Deadline != nil {
		fields["deadline"] = *in.Deadline
	}
	if in.MonthlyContribution != nil {
		fields["monthly_contribution"] = *in.MonthlyContribution
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}

	updated, err := s.goals.Update(ctx, goalID, fields)
	if err != nil {
		return nil, err
	}
	return goalView(updated, time.Now().UTC()), nil
}

// Contribute moves funds toward the goal, capped at the remaining amount.
// When the goal is linked to a savings account, the contribution is drawn
// from it first (respecting its minimum balance).
func (s *SavingsService) Contribute(ctx context.Context, userID, goalID string, amount float64) (*ports.GoalView, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	remaining := goal.TargetAmount - goal.CurrentAmount
	if remaining <= 0 {
		return goalView(goal, time.Now().UTC()), nil
	}
	if amount > remaining {
		amount = round2(remaining)
	}

	if goal.AccountID != "" {
		account, err := s.ownedSavings(ctx, userID, goal.AccountID)
		if err != nil {
			return nil, err
		}
		debited, err := s.savings.ApplyDelta(ctx, account.ID, -amount, account.MinimumBalance)
		if err != nil {
			return nil, err
		}
		s.syncMirror(ctx, debited)
	}

	updated, err := s.goals.AddProgress(ctx, goalID, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("goal_id", goalID).
		Float64("amount", amount).
		Msg("goal contribution")
	return goalView(updated, time.Now().UTC()), nil
}

func (s *SavingsService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	return s.goals.Delete(ctx, goalID)
}

func (s *SavingsService) Summary(ctx context.Context, userID string) (*ports.SavingsSummary, error) {
	accounts, err := s.savings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ports.SavingsSummary{
		AccountCount: len(accounts),
		GoalCount:    len(goals),
	}
	for _, a := range accounts {
		summary.TotalBalance += a.Balance
		summary.TotalMonthlyGrowth += domain.MonthlyGrowth(a.Balance, a.APY)
	}
	now := time.Now().UTC()
	for _, g := range goals {
		if g.Status(now) == domain.GoalCompleted {
			summary.GoalsCompleted++
		}
	}
	summary.TotalBalance = round2(summary.TotalBalance)
	summary.TotalMonthlyGrowth = round2(summary.TotalMonthlyGrowth)
	return summary, nil
}

func (s *SavingsService) ownedSavings(ctx context.Context, userID, accountID string) (*domain.SavingsAccount, error) {
	account, err := s.savings.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrSavingsAccountNotFound
	}
	return account, nil
}

func (s *SavingsService) ownedGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	goal, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// syncMirror pushes the savings balance to the mirror row in the accounts
// collection. The savings side is authoritative; a failed sync is logged and
// repaired on the next balance change.
func (s *SavingsService) syncMirror(ctx context.Context, account *domain.SavingsAccount) {
	err := s.accounts.UpdateMirror(ctx, account.AccountNumber, map[string]any{
		"balance":    account.Balance,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("account_number", account.AccountNumber).Msg("failed to sync savings mirror")
	}
}

// generateSavingsNumber returns an 8-digit number unused by both the savings
// and the main accounts collections (mirror rows share the number, so a
// clash in either side would collide).
func (s *SavingsService) generateSavingsNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number, err := randomDigits(8)
		if err != nil {
			return "", err
		}
		inSavings, err := s.savings.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if inSavings {
			continue
		}
		inAccounts, err := s.accounts.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !inAccounts {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique savings account number")
}

func accountView(a *domain.SavingsAccount) *ports.SavingsAccountView {
	return &ports.SavingsAccountView{
		SavingsAccount: *a,
		MonthlyGrowth:  domain.MonthlyGrowth(a.Balance, a.APY),
	}
}

func goalView(g *domain.SavingsGoal, now time.Time) *ports.GoalView {
	percent := 0.0
	if g.TargetAmount > 0 {
		percent, _ = decimal.NewFromFloat(g.CurrentAmount).
			Div(decimal.NewFromFloat(g.TargetAmount)).
			Mul(decimal.NewFromInt(100)).
			Round(1).Float64()
		if percent > 100 {
			percent = 100
		}
	}
	months := g.Deadline.Sub(now).Hours() / 24 / 30
	if months < 0 {
		months = 0
	}
	return &ports.GoalView{
		SavingsGoal:     *g,
		Status:          g.Status(now),
		PercentComplete: percent,
		MonthsRemaining: months,
	}
}

func round2(f float64) float64 {
	out, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return out
}
