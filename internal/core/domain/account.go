package domain

import "time"

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountFrozen   AccountStatus = "frozen"
	AccountClosed   AccountStatus = "closed"
)

// Account types supported by the bank.
const (
	AccountTypeChecking   = "checking"
	AccountTypeSavings    = "savings"
	AccountTypeCredit     = "credit"
	AccountTypeLoan       = "loan"
	AccountTypeInvestment = "investment"
)

// ValidAccountType reports whether t names a supported account type.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeLoan, AccountTypeInvestment:
		return true
	}
	return false
}

// ValidAccountStatus reports whether s names a supported account status.
func ValidAccountStatus(s string) bool {
	switch AccountStatus(s) {
	case AccountActive, AccountInactive, AccountFrozen, AccountClosed:
		return true
	}
	return false
}

// AccountMetadata carries optional product attributes. For savings mirrors it
// records the originating savings product.
type AccountMetadata struct {
	CreditLimit        float64 `json:"credit_limit,omitempty" bson:"credit_limit,omitempty"`
	InterestRate       float64 `json:"interest_rate,omitempty" bson:"interest_rate,omitempty"`
	APY                float64 `json:"apy,omitempty" bson:"apy,omitempty"`
	MinimumBalance     float64 `json:"minimum_balance,omitempty" bson:"minimum_balance,omitempty"`
	OverdraftLimit     float64 `json:"overdraft_limit,omitempty" bson:"overdraft_limit,omitempty"`
	SavingsAccountType string  `json:"savings_account_type,omitempty" bson:"savings_account_type,omitempty"`
	Institution        string  `json:"institution,omitempty" bson:"institution,omitempty"`
}

// Account is a balance-bearing entity owned by exactly one user.
// Account numbers are globally unique across accounts and savings accounts.
// Balances change only through deposit, withdraw, and transfer operations;
// accounts end their life with a transition to "closed", never deletion, and
// only when the balance is exactly zero.
type Account struct {
	ID            string          `json:"id" bson:"-"`
	UserID        string          `json:"user_id" bson:"user_id"`
	AccountNumber string          `json:"account_number" bson:"account_number"`
	AccountType   string          `json:"account_type" bson:"account_type"`
	Balance       float64         `json:"balance" bson:"balance"`
	Currency      string          `json:"currency" bson:"currency"`
	Status        AccountStatus   `json:"status" bson:"status"`
	Name          string          `json:"name,omitempty" bson:"name,omitempty"`
	Metadata      AccountMetadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at"`
}
