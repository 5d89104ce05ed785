package domain

import "time"

// Perception attribute states. Disputed attributes stay visible but flagged
// until reviewed.
const (
	PerceptionActive    = "active"
	PerceptionDisputed  = "disputed"
	PerceptionCorrected = "corrected"
)

// PerceptionTTL is how long a generated perception stays fresh before the
// next read triggers regeneration.
const PerceptionTTL = 24 * time.Hour

// PerceptionAttribute is one labelled judgement the system holds about a
// user, with the evidence that produced it.
type PerceptionAttribute struct {
	Category    string    `json:"category" bson:"category"`
	Label       string    `json:"label" bson:"label"`
	Confidence  float64   `json:"confidence" bson:"confidence"`
	Evidence    []string  `json:"evidence" bson:"evidence"`
	LastUpdated time.Time `json:"last_updated" bson:"last_updated"`
	Status      string    `json:"status" bson:"status"`
}

// Perception is the cached, time-boxed summary of how the system
// characterizes a user. It is the only entity with a dispute workflow.
type Perception struct {
	ID           string                `json:"id" bson:"-"`
	UserID       string                `json:"user_id" bson:"user_id"`
	Summary      string                `json:"summary" bson:"summary"`
	Attributes   []PerceptionAttribute `json:"attributes" bson:"attributes"`
	LastAnalysis time.Time             `json:"last_analysis" bson:"last_analysis"`
}

// Fresh reports whether the perception is recent enough to serve from cache.
func (p *Perception) Fresh(now time.Time) bool {
	return p != nil && now.Sub(p.LastAnalysis) < PerceptionTTL
}

// PerceptionDispute is a user's objection to one perception attribute.
type PerceptionDispute struct {
	ID         string    `json:"id" bson:"-"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Category   string    `json:"category" bson:"category"`
	Label      string    `json:"label" bson:"label"`
	Reason     string    `json:"reason" bson:"reason"`
	Correction string    `json:"correction,omitempty" bson:"correction,omitempty"`
	Status     string    `json:"status" bson:"status"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}
