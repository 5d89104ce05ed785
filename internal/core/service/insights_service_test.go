package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

func insightsFixture(completion *stubCompletion, gate *stubConsentGate) (*InsightsService, *stubUserRepo, *stubSavingsRepo, *stubTransactionRepo, *stubCache) {
	users := newStubUserRepo()
	savings := newStubSavingsRepo()
	goals := newStubGoalRepo()
	transactions := newStubTransactionRepo()
	cache := newStubCache()
	svc := NewInsightsService(users, savings, goals, transactions, gate, completion, cache, discardLogger)
	return svc, users, savings, transactions, cache
}

func seedSpending(transactions *stubTransactionRepo, userID string, monthly float64) {
	transactions.inserted = append(transactions.inserted, &domain.Transaction{
		ID:        "txn_spend",
		UserID:    userID,
		Type:      domain.TxnDebit,
		Amount:    monthly,
		Category:  "rent",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -5),
	})
}

func TestHealthScore_TopBands(t *testing.T) {
	svc, users, savings, transactions, _ := insightsFixture(&stubCompletion{}, denyAttributes())
	user := users.seed(&domain.User{Income: 120000, CreditScore: 780}) // 10k/month
	seedSpending(transactions, user.ID, 7000)                          // 30% savings rate, 70% spending
	savings.seed(&domain.SavingsAccount{UserID: user.ID, Balance: 50000})

	score, err := svc.HealthScore(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Score != 100 {
		t.Errorf("expected perfect score, got %d: %+v", score.Score, score.Components)
	}
	if score.Grade != "A" {
		t.Errorf("grade: got %q", score.Grade)
	}
	if len(score.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(score.Components))
	}
	for _, c := range score.Components {
		if c.Max != 25 {
			t.Errorf("component %s max: got %d", c.Name, c.Max)
		}
	}
}

func TestHealthScore_MiddleBands(t *testing.T) {
	svc, users, savings, transactions, _ := insightsFixture(&stubCompletion{}, denyAttributes())
	user := users.seed(&domain.User{Income: 120000, CreditScore: 700}) // good, not excellent
	seedSpending(transactions, user.ID, 8500)                         // 15% savings rate, 85% spending
	savings.seed(&domain.SavingsAccount{UserID: user.ID, Balance: 30000})

	score, err := svc.HealthScore(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// savings_rate 15 + credit 20 + emergency fund 3.5 months → 20 + spending 20
	if score.Score != 75 {
		t.Errorf("expected 75, got %d: %+v", score.Score, score.Components)
	}
	if score.Grade != "B" {
		t.Errorf("grade: got %q", score.Grade)
	}
}

func TestHealthScore_RequiresIncome(t *testing.T) {
	svc, users, _, _, _ := insightsFixture(&stubCompletion{}, denyAttributes())
	user := users.seed(&domain.User{CreditScore: 800})

	_, err := svc.HealthScore(context.Background(), user.ID)
	if !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Errorf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestGrade(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A"}, {80, "A"}, {79, "B"}, {60, "B"}, {59, "C"}, {40, "C"}, {39, "D"}, {0, "D"},
	}
	for _, tc := range cases {
		if got := grade(tc.score); got != tc.want {
			t.Errorf("grade(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestSpending_ConsentGatesModelInput(t *testing.T) {
	completion := &stubCompletion{content: `{"summary": "steady", "observations": [], "recommendations": []}`}
	gate := denyAttributes("transactions.amount")
	svc, users, _, transactions, _ := insightsFixture(completion, gate)
	user := users.seed(&domain.User{Income: 50000})
	seedSpending(transactions, user.ID, 1000)

	insights, err := svc.Spending(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights.TopCategories) != 0 {
		t.Errorf("denied amounts must not aggregate by category, got %v", insights.TopCategories)
	}
	// The prompt handed to the model must not carry amounts.
	if len(completion.requests) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(completion.requests))
	}
	var payload struct {
		RecentSpending []map[string]any `json:"recent_spending"`
	}
	if err := json.Unmarshal([]byte(completion.requests[0].Prompt), &payload); err != nil {
		t.Fatalf("prompt must be JSON: %v", err)
	}
	for _, row := range payload.RecentSpending {
		if _, ok := row["amount"]; ok {
			t.Error("denied amount leaked into the model prompt")
		}
	}
}

func TestSpending_ServedFromCache(t *testing.T) {
	completion := &stubCompletion{content: `{"summary": "fresh", "observations": [], "recommendations": []}`}
	svc, users, _, transactions, cache := insightsFixture(completion, denyAttributes())
	user := users.seed(&domain.User{Income: 50000})
	seedSpending(transactions, user.ID, 1000)

	cached, _ := json.Marshal(ports.SpendingInsights{Summary: "from cache"})
	cache.data["insights:spending:"+user.ID] = cached

	insights, err := svc.Spending(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insights.Summary != "from cache" {
		t.Errorf("summary: got %q", insights.Summary)
	}
	if !insights.Cached {
		t.Error("cache hits must be flagged")
	}
	if len(completion.requests) != 0 {
		t.Error("cache hit must not call the model")
	}
}

func TestSpending_PopulatesCacheOnMiss(t *testing.T) {
	completion := &stubCompletion{content: `{"summary": "fresh", "observations": ["x"], "recommendations": []}`}
	svc, users, _, transactions, cache := insightsFixture(completion, denyAttributes())
	user := users.seed(&domain.User{Income: 50000})
	seedSpending(transactions, user.ID, 1000)

	insights, err := svc.Spending(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insights.Summary != "fresh" {
		t.Errorf("summary: got %q", insights.Summary)
	}
	if insights.TopCategories["rent"] != 1000 {
		t.Errorf("category aggregation: got %v", insights.TopCategories)
	}
	if _, ok := cache.data["insights:spending:"+user.ID]; !ok {
		t.Error("miss must populate the cache")
	}
}

func TestSavingsPlans_ParsesModelOutput(t *testing.T) {
	completion := &stubCompletion{content: `{"plans": [{"title": "Boost Rainy Day", "monthly_amount": 250, "steps": ["automate"], "projected_impact": "on track"}]}`}
	svc, users, savings, _, _ := insightsFixture(completion, denyAttributes())
	user := users.seed(&domain.User{Income: 50000})
	savings.seed(&domain.SavingsAccount{UserID: user.ID, Name: "Rainy Day", Balance: 100, APY: 4})

	plans, err := svc.SavingsPlans(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 || plans[0].Title != "Boost Rainy Day" || plans[0].MonthlyAmount != 250 {
		t.Errorf("plans: %+v", plans)
	}
}

func TestSavingsPlans_InvalidModelOutput(t *testing.T) {
	completion := &stubCompletion{content: "no json here"}
	svc, users, _, _, _ := insightsFixture(completion, denyAttributes())
	user := users.seed(&domain.User{})

	_, err := svc.SavingsPlans(context.Background(), user.ID)
	if !errors.Is(err, domain.ErrInvalidCompletionOutput) {
		t.Errorf("expected ErrInvalidCompletionOutput, got %v", err)
	}
}

func TestComprehensive_DegradesPerSection(t *testing.T) {
	// Model down: the report still carries the locally computed health score
	// while the model-backed sections stay empty.
	completion := &stubCompletion{err: domain.ErrCompletionUnavailable}
	svc, users, savings, transactions, _ := insightsFixture(completion, denyAttributes())
	user := users.seed(&domain.User{Income: 120000, CreditScore: 780})
	seedSpending(transactions, user.ID, 7000)
	savings.seed(&domain.SavingsAccount{UserID: user.ID, Balance: 50000})

	report, err := svc.Comprehensive(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HealthScore == nil || report.HealthScore.Score != 100 {
		t.Errorf("health score section missing or wrong: %+v", report.HealthScore)
	}
	if report.Spending != nil {
		t.Error("spending section must be empty when the model is down")
	}
	if report.SavingsPlans != nil {
		t.Error("plans section must be empty when the model is down")
	}
}

func TestComprehensive_UnknownUser(t *testing.T) {
	svc, _, _, _, _ := insightsFixture(&stubCompletion{}, denyAttributes())

	if _, err := svc.Comprehensive(context.Background(), "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
