package service

import (
	"context"
	"time"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// include checks consent for one attribute and records the read on the trail
// when allowed.
func include(ctx context.Context, allow allowFunc, trail *AccessTrail, attributeID string) (bool, error) {
	ok, err := allow(ctx, attributeID)
	if err != nil {
		return false, err
	}
	if ok {
		trail.Record(attributeID)
	}
	return ok, nil
}

// UserExtractor contributes the user's basic identity. It runs on every
// query so the model can address the user properly.
type UserExtractor struct{}

func NewUserExtractor() *UserExtractor { return &UserExtractor{} }

func (e *UserExtractor) Name() string       { return "user" }
func (e *UserExtractor) Keywords() []string { return nil }

func (e *UserExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	section := make(map[string]any)
	if ok, err := include(ctx, allow, trail, "user.firstName"); err != nil {
		return err
	} else if ok {
		section["first_name"] = user.FirstName
	}
	if ok, err := include(ctx, allow, trail, "user.lastName"); err != nil {
		return err
	} else if ok {
		section["last_name"] = user.LastName
	}
	if ok, err := include(ctx, allow, trail, "user.email"); err != nil {
		return err
	} else if ok {
		section["email"] = user.Email
	}
	if len(section) > 0 {
		snapshot[e.Name()] = section
	}
	return nil
}

// FinancialExtractor contributes the profile attributes used for loan and
// eligibility questions.
type FinancialExtractor struct{}

func NewFinancialExtractor() *FinancialExtractor { return &FinancialExtractor{} }

func (e *FinancialExtractor) Name() string { return "financial_profile" }
func (e *FinancialExtractor) Keywords() []string {
	return []string{"loan", "credit", "eligibility", "income", "money", "borrow", "lend", "debt", "salary"}
}

func (e *FinancialExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	section := make(map[string]any)
	if ok, err := include(ctx, allow, trail, "user.income"); err != nil {
		return err
	} else if ok {
		section["income"] = user.Income
	}
	if ok, err := include(ctx, allow, trail, "user.creditScore"); err != nil {
		return err
	} else if ok {
		section["credit_score"] = user.CreditScore
	}
	if ok, err := include(ctx, allow, trail, "user.dateOfBirth"); err != nil {
		return err
	} else if ok && user.DateOfBirth != nil {
		section["age"] = user.Age(time.Now().UTC())
	}
	if ok, err := include(ctx, allow, trail, "user.employmentStatus"); err != nil {
		return err
	} else if ok {
		section["employment_status"] = user.EmploymentStatus
	}
	if len(section) > 0 {
		snapshot[e.Name()] = section
	}
	return nil
}

// AddressExtractor contributes the user's address for location questions.
type AddressExtractor struct{}

func NewAddressExtractor() *AddressExtractor { return &AddressExtractor{} }

func (e *AddressExtractor) Name() string       { return "address" }
func (e *AddressExtractor) Keywords() []string { return []string{"address", "location", "where"} }

func (e *AddressExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	ok, err := include(ctx, allow, trail, "user.address")
	if err != nil {
		return err
	}
	if !ok || user.Address == nil {
		return nil
	}
	snapshot[e.Name()] = map[string]any{
		"street":   user.Address.Street,
		"city":     user.Address.City,
		"state":    user.Address.State,
		"zip_code": user.Address.ZipCode,
		"country":  user.Address.Country,
	}
	return nil
}

// AccountsExtractor contributes the user's account list. Account numbers are
// disclosed masked to the last four digits.
type AccountsExtractor struct {
	repo ports.AccountRepository
}

func NewAccountsExtractor(repo ports.AccountRepository) *AccountsExtractor {
	return &AccountsExtractor{repo: repo}
}

func (e *AccountsExtractor) Name() string { return "accounts" }
func (e *AccountsExtractor) Keywords() []string {
	return []string{"account", "balance", "savings", "checking", "deposit", "withdraw"}
}

func (e *AccountsExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	withBalance, err := include(ctx, allow, trail, "accounts.balance")
	if err != nil {
		return err
	}
	withType, err := include(ctx, allow, trail, "accounts.accountType")
	if err != nil {
		return err
	}
	withNumber, err := include(ctx, allow, trail, "accounts.accountNumber")
	if err != nil {
		return err
	}
	withStatus, err := include(ctx, allow, trail, "accounts.status")
	if err != nil {
		return err
	}
	if !withBalance && !withType && !withNumber && !withStatus {
		return nil
	}

	accounts, err := e.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		if a.Status == domain.AccountClosed {
			continue
		}
		row := make(map[string]any)
		if withBalance {
			row["balance"] = a.Balance
		}
		if withType {
			row["account_type"] = a.AccountType
		}
		if withNumber {
			row["account_number"] = maskAccountNumber(a.AccountNumber)
		}
		if withStatus {
			row["status"] = string(a.Status)
		}
		rows = append(rows, row)
	}
	snapshot[e.Name()] = rows
	return nil
}

func maskAccountNumber(n string) string {
	if len(n) <= 4 {
		return n
	}
	return "****" + n[len(n)-4:]
}

// recentTransactionLimit bounds how much history goes into the snapshot.
const recentTransactionLimit = 10

// TransactionsExtractor contributes recent transactions for spending
// questions.
type TransactionsExtractor struct {
	repo ports.TransactionRepository
}

func NewTransactionsExtractor(repo ports.TransactionRepository) *TransactionsExtractor {
	return &TransactionsExtractor{repo: repo}
}

func (e *TransactionsExtractor) Name() string { return "transactions" }
func (e *TransactionsExtractor) Keywords() []string {
	return []string{"transaction", "spending", "purchase", "payment", "spent", "expense"}
}

func (e *TransactionsExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	withAmount, err := include(ctx, allow, trail, "transactions.amount")
	if err != nil {
		return err
	}
	withCategory, err := include(ctx, allow, trail, "transactions.category")
	if err != nil {
		return err
	}
	withDescription, err := include(ctx, allow, trail, "transactions.description")
	if err != nil {
		return err
	}
	withType, err := include(ctx, allow, trail, "transactions.type")
	if err != nil {
		return err
	}
	withDate, err := include(ctx, allow, trail, "transactions.createdAt")
	if err != nil {
		return err
	}
	withMerchant, err := include(ctx, allow, trail, "transactions.merchantName")
	if err != nil {
		return err
	}
	if !withAmount && !withCategory && !withDescription && !withType && !withDate && !withMerchant {
		return nil
	}

	txns, err := e.repo.ListRecent(ctx, user.ID, recentTransactionLimit)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, 0, len(txns))
	for _, t := range txns {
		row := make(map[string]any)
		if withAmount {
			row["amount"] = t.Amount
		}
		if withCategory {
			row["category"] = t.Category
		}
		if withDescription {
			row["description"] = t.Description
		}
		if withType {
			row["type"] = t.Type
		}
		if withDate {
			row["date"] = t.CreatedAt.Format("2006-01-02")
		}
		if withMerchant && t.MerchantName != "" {
			row["merchant"] = t.MerchantName
		}
		rows = append(rows, row)
	}
	snapshot[e.Name()] = rows
	return nil
}

// SavingsAccountsExtractor contributes dedicated savings accounts for
// interest and yield questions.
type SavingsAccountsExtractor struct {
	repo ports.SavingsRepository
}

func NewSavingsAccountsExtractor(repo ports.SavingsRepository) *SavingsAccountsExtractor {
	return &SavingsAccountsExtractor{repo: repo}
}

func (e *SavingsAccountsExtractor) Name() string { return "savings_accounts" }
func (e *SavingsAccountsExtractor) Keywords() []string {
	return []string{"savings", "interest", "apy", "yield"}
}

func (e *SavingsAccountsExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	withBalance, err := include(ctx, allow, trail, "savings_accounts.balance")
	if err != nil {
		return err
	}
	withType, err := include(ctx, allow, trail, "savings_accounts.accountType")
	if err != nil {
		return err
	}
	withAPY, err := include(ctx, allow, trail, "savings_accounts.apy")
	if err != nil {
		return err
	}
	withRate, err := include(ctx, allow, trail, "savings_accounts.interestRate")
	if err != nil {
		return err
	}
	if !withBalance && !withType && !withAPY && !withRate {
		return nil
	}

	accounts, err := e.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		row := map[string]any{"name": a.Name}
		if withBalance {
			row["balance"] = a.Balance
		}
		if withType {
			row["account_type"] = a.AccountType
		}
		if withAPY {
			row["apy"] = a.APY
		}
		if withRate {
			row["interest_rate"] = a.InterestRate
		}
		if withBalance && withAPY {
			row["monthly_growth"] = domain.MonthlyGrowth(a.Balance, a.APY)
		}
		rows = append(rows, row)
	}
	snapshot[e.Name()] = rows
	return nil
}

// GoalsExtractor contributes savings goals with their derived status.
type GoalsExtractor struct {
	repo ports.GoalRepository
}

func NewGoalsExtractor(repo ports.GoalRepository) *GoalsExtractor {
	return &GoalsExtractor{repo: repo}
}

func (e *GoalsExtractor) Name() string       { return "savings_goals" }
func (e *GoalsExtractor) Keywords() []string { return []string{"goal", "target", "milestone"} }

func (e *GoalsExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	withTarget, err := include(ctx, allow, trail, "savings_goals.targetAmount")
	if err != nil {
		return err
	}
	withCurrent, err := include(ctx, allow, trail, "savings_goals.currentAmount")
	if err != nil {
		return err
	}
	withContribution, err := include(ctx, allow, trail, "savings_goals.monthlyContribution")
	if err != nil {
		return err
	}
	withStatus, err := include(ctx, allow, trail, "savings_goals.status")
	if err != nil {
		return err
	}
	if !withTarget && !withCurrent && !withContribution && !withStatus {
		return nil
	}

	goals, err := e.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rows := make([]map[string]any, 0, len(goals))
	for _, g := range goals {
		row := map[string]any{"name": g.Name}
		if withTarget {
			row["target_amount"] = g.TargetAmount
		}
		if withCurrent {
			row["current_amount"] = g.CurrentAmount
		}
		if withContribution {
			row["monthly_contribution"] = g.MonthlyContribution
		}
		if withStatus {
			row["status"] = string(g.Status(now))
			row["deadline"] = g.Deadline.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	snapshot[e.Name()] = rows
	return nil
}

// bankOffers is the static promotion catalog disclosed under bank.offers.
var bankOffers = []map[string]any{
	{"title": "High-Yield Savings Boost", "description": "Earn 4.5% APY on new savings accounts for the first 12 months", "category": "savings"},
	{"title": "Cashback Checking", "description": "1% cashback on debit purchases with a qualifying checking account", "category": "checking"},
	{"title": "Personal Loan Rate Discount", "description": "0.25% rate discount on personal loans with autopay", "category": "loan"},
	{"title": "Goal Getter Bonus", "description": "$50 bonus when you complete your first savings goal", "category": "savings"},
}

// OffersExtractor contributes the bank's current promotions.
type OffersExtractor struct{}

func NewOffersExtractor() *OffersExtractor { return &OffersExtractor{} }

func (e *OffersExtractor) Name() string { return "offers" }
func (e *OffersExtractor) Keywords() []string {
	return []string{"offer", "promotion", "discount", "deal", "benefit", "reward"}
}

func (e *OffersExtractor) Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error {
	ok, err := include(ctx, allow, trail, "bank.offers")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	snapshot[e.Name()] = bankOffers
	return nil
}
