package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// AnswerQueryInput is one natural-language question from an authenticated
// user.
type AnswerQueryInput struct {
	UserID string
	Query  string
}

// AnswerQueryResult is the response to one query plus its transparency
// report: which attributes were actually read, what the model claimed to
// use, and how the two compared.
type AnswerQueryResult struct {
	Response            string                  `json:"response"`
	QueryType           string                  `json:"query_type"`
	AttributesAccessed  []string                `json:"attributes_accessed"`
	AttributesReported  []string                `json:"attributes_reported"`
	AttributesValidated []string                `json:"attributes_validated"`
	ValidationStatus    domain.ValidationStatus `json:"validation_status"`
	Confidence          *float64                `json:"confidence,omitempty"`
	AuditID             string                  `json:"audit_id"`
	ProcessingTimeMs    float64                 `json:"processing_time_ms"`
}

// ChatService answers user questions over their own financial data, with
// consent filtering on the way in and an audit record on the way out.
type ChatService interface {
	AnswerQuery(ctx context.Context, in AnswerQueryInput) (*AnswerQueryResult, error)
	// History returns the user's past query-log records newest-first.
	History(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error)
}
