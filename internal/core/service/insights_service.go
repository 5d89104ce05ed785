package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

const spendingSystemPrompt = `You are a financial analyst reviewing a bank customer's recent spending. Base every observation strictly on the data provided.

Respond with a single JSON object:
{"summary": "<2-3 sentences>", "observations": ["..."], "recommendations": ["..."]}`

const plansSystemPrompt = `You are a financial planner building savings plans for a bank customer from their goals and savings accounts. Base every figure strictly on the data provided.

Respond with a single JSON object:
{"plans": [{"title": "...", "monthly_amount": <number>, "steps": ["..."], "projected_impact": "..."}]}`

// InsightsCache abstracts the generated-insights cache (Redis, 24h TTL).
type InsightsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// InsightsService produces financial analysis. The health score is computed
// locally from consented data; spending insights and savings plans come from
// the completion model and are cached.
type InsightsService struct {
	users        ports.UserRepository
	savings      ports.SavingsRepository
	goals        ports.GoalRepository
	transactions ports.TransactionRepository
	consent      consentGate
	completion   ports.CompletionClient
	cache        InsightsCache
	logger       zerolog.Logger
}

func NewInsightsService(
	users ports.UserRepository,
	savings ports.SavingsRepository,
	goals ports.GoalRepository,
	transactions ports.TransactionRepository,
	consent consentGate,
	completion ports.CompletionClient,
	cache InsightsCache,
	logger zerolog.Logger,
) *InsightsService {
	return &InsightsService{
		users:        users,
		savings:      savings,
		goals:        goals,
		transactions: transactions,
		consent:      consent,
		completion:   completion,
		cache:        cache,
		logger:       logger,
	}
}

// analysisWindow bounds how much transaction history feeds the insights.
const analysisWindow = 50

// HealthScore scores four dimensions out of 25 each: savings rate, credit
// score, emergency fund coverage, and spending discipline.
func (s *InsightsService) HealthScore(ctx context.Context, userID string) (*ports.HealthScore, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Income <= 0 {
		return nil, domain.ErrProfileIncomplete
	}

	monthlyIncome := user.Income / 12
	monthlySpending, err := s.monthlySpending(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalSavings, err := s.totalSavings(ctx, userID)
	if err != nil {
		return nil, err
	}

	var components []ports.HealthScoreComponent

	savingsRate := 0.0
	if monthlyIncome > 0 {
		savingsRate = (monthlyIncome - monthlySpending) / monthlyIncome * 100
	}
	switch {
	case savingsRate >= 20:
		components = append(components, component("savings_rate", 25, "saving 20%+ of income"))
	case savingsRate >= 10:
		components = append(components, component("savings_rate", 15, "saving 10-20% of income"))
	case savingsRate >= 5:
		components = append(components, component("savings_rate", 10, "saving 5-10% of income"))
	default:
		components = append(components, component("savings_rate", 0, "saving under 5% of income"))
	}

	switch {
	case user.CreditScore >= 750:
		components = append(components, component("credit_score", 25, "excellent credit"))
	case user.CreditScore >= 700:
		components = append(components, component("credit_score", 20, "good credit"))
	case user.CreditScore >= 650:
		components = append(components, component("credit_score", 15, "fair credit"))
	default:
		components = append(components, component("credit_score", 0, "credit needs attention"))
	}

	fundMonths := 0.0
	if monthlySpending > 0 {
		fundMonths = totalSavings / monthlySpending
	}
	switch {
	case fundMonths >= 6:
		components = append(components, component("emergency_fund", 25, "6+ months of expenses covered"))
	case fundMonths >= 3:
		components = append(components, component("emergency_fund", 20, "3-6 months of expenses covered"))
	case fundMonths >= 1:
		components = append(components, component("emergency_fund", 10, "1-3 months of expenses covered"))
	default:
		components = append(components, component("emergency_fund", 0, "under 1 month of expenses covered"))
	}

	switch {
	case monthlySpending <= monthlyIncome*0.8:
		components = append(components, component("spending", 25, "spending under 80% of income"))
	case monthlySpending <= monthlyIncome*0.9:
		components = append(components, component("spending", 20, "spending 80-90% of income"))
	case monthlySpending <= monthlyIncome:
		components = append(components, component("spending", 15, "spending within income"))
	default:
		components = append(components, component("spending", 0, "spending exceeds income"))
	}

	total := 0
	for _, c := range components {
		total += c.Score
	}

	return &ports.HealthScore{
		Score:      total,
		Grade:      grade(total),
		Components: components,
	}, nil
}

// Spending returns the model's analysis of recent spending, served from
// cache when a fresh copy exists. Transaction attributes the user has denied
// never reach the model.
func (s *InsightsService) Spending(ctx context.Context, userID string) (*ports.SpendingInsights, error) {
	cacheKey := "insights:spending:" + userID
	if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
		var insights ports.SpendingInsights
		if json.Unmarshal(cached, &insights) == nil {
			insights.Cached = true
			return &insights, nil
		}
	}

	amountOK, err := s.consent.IsAllowed(ctx, userID, "transactions.amount")
	if err != nil {
		return nil, err
	}
	categoryOK, err := s.consent.IsAllowed(ctx, userID, "transactions.category")
	if err != nil {
		return nil, err
	}

	txns, err := s.transactions.ListRecent(ctx, userID, analysisWindow)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]float64)
	rows := make([]map[string]any, 0, len(txns))
	for _, t := range txns {
		if t.Type != domain.TxnDebit {
			continue
		}
		row := make(map[string]any)
		if amountOK {
			row["amount"] = t.Amount
		}
		if categoryOK {
			row["category"] = t.Category
			if amountOK {
				byCategory[t.Category] += t.Amount
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	prompt, err := json.Marshal(map[string]any{"recent_spending": rows})
	if err != nil {
		return nil, err
	}
	resp, err := s.completion.Complete(ctx, ports.CompletionRequest{
		System:   spendingSystemPrompt,
		Prompt:   string(prompt),
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var reply struct {
		Summary         string   `json:"summary"`
		Observations    []string `json:"observations"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCompletionOutput, err)
	}

	insights := &ports.SpendingInsights{
		Summary:         reply.Summary,
		TopCategories:   byCategory,
		Observations:    reply.Observations,
		Recommendations: reply.Recommendations,
	}
	s.storeCache(ctx, cacheKey, insights)
	return insights, nil
}

// SavingsPlans returns model-generated plans toward the user's goals, served
// from cache when fresh.
func (s *InsightsService) SavingsPlans(ctx context.Context, userID string) ([]ports.SavingsPlan, error) {
	cacheKey := "insights:plans:" + userID
	if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
		var plans []ports.SavingsPlan
		if json.Unmarshal(cached, &plans) == nil {
			return plans, nil
		}
	}

	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.savings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	goalRows := make([]map[string]any, 0, len(goals))
	for _, g := range goals {
		goalRows = append(goalRows, map[string]any{
			"name":                 g.Name,
			"target_amount":        g.TargetAmount,
			"current_amount":       g.CurrentAmount,
			"monthly_contribution": g.MonthlyContribution,
			"deadline":             g.Deadline.Format("2006-01-02"),
			"status":               string(g.Status(now)),
		})
	}
	accountRows := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		accountRows = append(accountRows, map[string]any{
			"name":    a.Name,
			"balance": a.Balance,
			"apy":     a.APY,
		})
	}

	prompt, err := json.Marshal(map[string]any{"goals": goalRows, "savings_accounts": accountRows})
	if err != nil {
		return nil, err
	}
	resp, err := s.completion.Complete(ctx, ports.CompletionRequest{
		System:   plansSystemPrompt,
		Prompt:   string(prompt),
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var reply struct {
		Plans []ports.SavingsPlan `json:"plans"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCompletionOutput, err)
	}

	s.storeCache(ctx, cacheKey, reply.Plans)
	return reply.Plans, nil
}

// Comprehensive bundles the health score, spending analysis, and savings
// plans into one report. Each section degrades independently: a failed
// generation is logged and its section left empty rather than failing the
// whole report.
func (s *InsightsService) Comprehensive(ctx context.Context, userID string) (*ports.ComprehensiveInsights, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	out := &ports.ComprehensiveInsights{}

	score, err := s.HealthScore(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("health score unavailable")
	} else {
		out.HealthScore = score
	}

	spending, err := s.Spending(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("spending insights unavailable")
	} else {
		out.Spending = spending
	}

	plans, err := s.SavingsPlans(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("savings plans unavailable")
	} else {
		out.SavingsPlans = plans
	}

	return out, nil
}

func (s *InsightsService) monthlySpending(ctx context.Context, userID string) (float64, error) {
	txns, err := s.transactions.ListRecent(ctx, userID, analysisWindow)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	total := 0.0
	for _, t := range txns {
		if t.Type == domain.TxnDebit && t.CreatedAt.After(cutoff) {
			total += t.Amount
		}
	}
	return total, nil
}

func (s *InsightsService) totalSavings(ctx context.Context, userID string) (float64, error) {
	accounts, err := s.savings.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, a := range accounts {
		total += a.Balance
	}
	return total, nil
}

func (s *InsightsService) storeCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache insights")
	}
}

func component(name string, score int, detail string) ports.HealthScoreComponent {
	return ports.HealthScoreComponent{Name: name, Score: score, Max: 25, Detail: detail}
}

func grade(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}
