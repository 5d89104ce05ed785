package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SavingsAccount is a dedicated savings product. Every savings account is
// mirrored into the accounts collection under the same account number so the
// unified account list stays complete.
type SavingsAccount struct {
	ID             string    `json:"id" bson:"-"`
	UserID         string    `json:"user_id" bson:"user_id"`
	Name           string    `json:"name" bson:"name"`
	AccountNumber  string    `json:"account_number" bson:"account_number"`
	Balance        float64   `json:"balance" bson:"balance"`
	InterestRate   float64   `json:"interest_rate" bson:"interest_rate"`
	APY            float64   `json:"apy" bson:"apy"`
	AccountType    string    `json:"account_type" bson:"account_type"`
	Institution    string    `json:"institution" bson:"institution"`
	MinimumBalance float64   `json:"minimum_balance" bson:"minimum_balance"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

/// MonthlyGrowth derives the expected monthly interest from the APY:
// balance * ((1 + apy/100)^(1/12) - 1), rounded to cents.
// Derived on read, never stored.
func MonthlyGrowth(balance, apy float64) float64 {
	if balance <= 0 || apy <= 0 {
		return 0
	}
	monthlyRate := math.Pow(1+apy/100, 1.0/12) - 1
	growth := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(monthlyRate))
	f, _ := growth.Round(2).Float64()
	return f
}
