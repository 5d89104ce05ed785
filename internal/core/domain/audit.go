package domain

import "time"

// ValidationStatus classifies how the model's self-reported attribute usage
// compared with the attributes actually read.
type ValidationStatus string

const (
	// ValidationMatched means the final filtered attribute set equals, as a
	// set, the attributes actually read by the extractors.
	ValidationMatched ValidationStatus = "matched"
	// ValidationPartial means the sets differ: the model claimed attributes
	// beyond the ground truth, or consent filtered part of it out.
	ValidationPartial ValidationStatus = "partial"
)

// QueryLog is the append-only audit record of one query-answering
// transaction. Once inserted it is never updated or deleted.
type QueryLog struct {
	ID                  string           `json:"id" bson:"-"`
	UserID              string           `json:"user_id" bson:"user_id"`
	QueryType           string           `json:"query_type" bson:"query_type"`
	QueryText           string           `json:"query_text" bson:"query_text"`
	AttributesAccessed  []string         `json:"attributes_accessed" bson:"attributes_accessed"`
	Snapshot            map[string]any   `json:"snapshot" bson:"snapshot"`
	Model               string           `json:"model" bson:"model"`
	ModelRawOutput      string           `json:"model_raw_output" bson:"model_raw_output"`
	AttributesReported  []string         `json:"attributes_reported" bson:"attributes_reported"`
	AttributesValidated []string         `json:"attributes_validated" bson:"attributes_validated"`
	ValidationStatus    ValidationStatus `json:"validation_status" bson:"validation_status"`
	Timestamp           time.Time        `json:"timestamp" bson:"timestamp"`
	ProcessingTimeMs    float64          `json:"processing_time_ms" bson:"processing_time_ms"`
}
