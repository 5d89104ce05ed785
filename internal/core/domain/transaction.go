package domain

import "time"

// Transaction movement directions.
const (
	TxnDebit  = "debit"
	TxnCredit = "credit"
)

// Transaction processing states.
const (
	TxnPending   = "pending"
	TxnCompleted = "completed"
	TxnFailed    = "failed"
	TxnCancelled = "cancelled"
)

// RiskAnnotation carries optional fraud/risk scoring attached at ingest time.
type RiskAnnotation struct {
	FraudScore   float64 `json:"fraud_score" bson:"fraud_score"`
	RiskLevel    string  `json:"risk_level" bson:"risk_level"`
	AnomalyScore float64 `json:"anomaly_score" bson:"anomaly_score"`
	Explanation  string  `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Transaction is an immutable record of one monetary movement, owned by one
// account and one user. Records are inserted once and never updated.
type Transaction struct {
	ID            string          `json:"id" bson:"-"`
	AccountID     string          `json:"account_id" bson:"account_id"`
	UserID        string          `json:"user_id" bson:"user_id"`
	Type          string          `json:"type" bson:"type"`
	Amount        float64         `json:"amount" bson:"amount"`
	Currency      string          `json:"currency" bson:"currency"`
	Description   string          `json:"description" bson:"description"`
	Category      string          `json:"category" bson:"category"`
	MerchantName  string          `json:"merchant_name,omitempty" bson:"merchant_name,omitempty"`
	Reference     string          `json:"reference,omitempty" bson:"reference,omitempty"`
	Status        string          `json:"status" bson:"status"`
	Risk          *RiskAnnotation `json:"risk,omitempty" bson:"risk,omitempty"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
}
