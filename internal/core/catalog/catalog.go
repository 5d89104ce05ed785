// Package catalog is the static registry of every disclosable user-data
// attribute. Attribute identifiers are dotted strings of the form
// "category.field" (e.g. "user.income", "accounts.balance"). The catalog is
// purely declarative: it feeds the privacy UI, the default consent table, and
// the reconciliation of model-reported attribute usage.
package catalog

import "strings"

// Attribute describes one disclosable piece of user data.
type Attribute struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category groups attributes that live in the same collection.
type Category struct {
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	Attributes []Attribute `json:"attributes"`
}

// categories is the single source of truth. Order is stable and matters only
// for presentation.
var categories = []Category{
	{
		Key:   "user",
		Label: "Personal Information",
		Attributes: []Attribute{
			{ID: "user.income", Name: "Income", Description: "Annual income for financial analysis"},
			{ID: "user.creditScore", Name: "Credit Score", Description: "Credit score for loan eligibility"},
			{ID: "user.dateOfBirth", Name: "Date of Birth", Description: "Age calculation for eligibility"},
			{ID: "user.employmentStatus", Name: "Employment Status", Description: "Employment status for financial assessment"},
			{ID: "user.address", Name: "Address", Description: "Location data for regional analysis"},
			{ID: "user.email", Name: "Email", Description: "Contact information"},
			{ID: "user.firstName", Name: "First Name", Description: "Personal identification"},
			{ID: "user.lastName", Name: "Last Name", Description: "Personal identification"},
		},
	},
	{
		Key:   "accounts",
		Label: "Account Information",
		Attributes: []Attribute{
			{ID: "accounts.balance", Name: "Account Balance", Description: "Current account balances"},
			{ID: "accounts.accountType", Name: "Account Type", Description: "Types of accounts held"},
			{ID: "accounts.accountNumber", Name: "Account Number", Description: "Account identifiers"},
			{ID: "accounts.status", Name: "Account Status", Description: "Account status information"},
		},
	},
	{
		Key:   "transactions",
		Label: "Transaction Data",
		Attributes: []Attribute{
			{ID: "transactions.amount", Name: "Transaction Amount", Description: "Transaction amounts for spending analysis"},
			{ID: "transactions.category", Name: "Transaction Category", Description: "Spending categories"},
			{ID: "transactions.description", Name: "Transaction Description", Description: "Transaction details"},
			{ID: "transactions.type", Name: "Transaction Type", Description: "Debit or credit transactions"},
			{ID: "transactions.createdAt", Name: "Transaction Date", Description: "When transactions occurred"},
			{ID: "transactions.merchantName", Name: "Merchant Name", Description: "Where transactions occurred"},
		},
	},
	{
		Key:   "savings_accounts",
		Label: "Savings Accounts",
		Attributes: []Attribute{
			{ID: "savings_accounts.balance", Name: "Savings Balance", Description: "Savings account balances"},
			{ID: "savings_accounts.accountType", Name: "Savings Account Type", Description: "Type of savings account"},
			{ID: "savings_accounts.apy", Name: "APY", Description: "Annual percentage yield"},
			{ID: "savings_accounts.interestRate", Name: "Interest Rate", Description: "Interest rate on savings"},
		},
	},
	{
		Key:   "savings_goals",
		Label: "Savings Goals",
		Attributes: []Attribute{
			{ID: "savings_goals.targetAmount", Name: "Goal Target", Description: "Target savings amounts"},
			{ID: "savings_goals.currentAmount", Name: "Goal Progress", Description: "Current progress toward goals"},
			{ID: "savings_goals.monthlyContribution", Name: "Monthly Contribution", Description: "Monthly savings contributions"},
			{ID: "savings_goals.status", Name: "Goal Status", Description: "Status of savings goals"},
		},
	},
	{
		Key:   "bank",
		Label: "Bank Offers",
		Attributes: []Attribute{
			{ID: "bank.offers", Name: "Offers", Description: "Promotions and offers available to the user"},
		},
	},
}

// Categories returns the full grouped catalog.
func Categories() []Category {
	return categories
}

// AttributeIDs returns every attribute identifier in catalog order.
func AttributeIDs() []string {
	var ids []string
	for _, c := range categories {
		for _, a := range c.Attributes {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Total returns the number of attributes in the catalog.
func Total() int {
	n := 0
	for _, c := range categories {
		n += len(c.Attributes)
	}
	return n
}

// KnownPrefix reports whether the identifier's category prefix (the part
// before the first dot) names a catalog category. Used to accept
// syntactically well-formed but untracked claims from the model.
func KnownPrefix(attributeID string) bool {
	prefix, _, ok := strings.Cut(attributeID, ".")
	if !ok || prefix == "" {
		return false
	}
	for _, c := range categories {
		if c.Key == prefix {
			return true
		}
	}
	return false
}
