package ports

import "context"

// HealthScoreComponent is one scored dimension of financial health.
type HealthScoreComponent struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Max    int    `json:"max"`
	Detail string `json:"detail"`
}

// HealthScore is the locally-computed financial health assessment.
type HealthScore struct {
	Score      int                    `json:"score"` // 0-100
	Grade      string                 `json:"grade"`
	Components []HealthScoreComponent `json:"components"`
}

// SpendingInsights is the model-generated analysis of recent spending.
type SpendingInsights struct {
	Summary         string             `json:"summary"`
	TopCategories   map[string]float64 `json:"top_categories"`
	Observations    []string           `json:"observations"`
	Recommendations []string           `json:"recommendations"`
	Cached          bool               `json:"cached"`
}

// SavingsPlan is one model-generated plan toward the user's goals.
type SavingsPlan struct {
	Title           string   `json:"title"`
	MonthlyAmount   float64  `json:"monthly_amount"`
	Steps           []string `json:"steps"`
	ProjectedImpact string   `json:"projected_impact"`
}

// ComprehensiveInsights bundles every analysis into one report. Sections
// whose generation failed are absent rather than failing the whole report.
type ComprehensiveInsights struct {
	HealthScore  *HealthScore      `json:"health_score,omitempty"`
	Spending     *SpendingInsights `json:"spending,omitempty"`
	SavingsPlans []SavingsPlan     `json:"savings_plans,omitempty"`
}

// InsightsService produces financial analysis. The health score is computed
// locally; spending insights and savings plans come from the completion
// model, filtered by consent and served from cache when fresh.
type InsightsService interface {
	HealthScore(ctx context.Context, userID string) (*HealthScore, error)
	Spending(ctx context.Context, userID string) (*SpendingInsights, error)
	SavingsPlans(ctx context.Context, userID string) ([]SavingsPlan, error)
	// Comprehensive aggregates all three analyses, degrading per section on
	// failure.
	Comprehensive(ctx context.Context, userID string) (*ComprehensiveInsights, error)
}
