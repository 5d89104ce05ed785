package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is derived from goal progress versus time remaining. It is a
// view computed fresh on every read, never a stored source of truth.
type GoalStatus string

const (
	GoalCompleted GoalStatus = "Completed"
	GoalAhead     GoalStatus = "Ahead"
	GoalOnTrack   GoalStatus = "On Track"
	GoalBehind    GoalStatus = "Behind"
)

// Goal priority levels.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// SavingsGoal tracks progress toward a target amount, optionally funded from
// one linked savings account.
type SavingsGoal struct {
	ID                  string    `json:"id" bson:"-"`
	UserID              string    `json:"user_id" bson:"user_id"`
	Name                string    `json:"name" bson:"name"`
	TargetAmount        float64   `json:"target_amount" bson:"target_amount"`
	CurrentAmount       float64   `json:"current_amount" bson:"current_amount"`
	Deadline            time.Time `json:"deadline" bson:"deadline"`
	MonthlyContribution float64   `json:"monthly_contribution" bson:"monthly_contribution"`
	Priority            string    `json:"priority" bson:"priority"`
	Category            string    `json:"category" bson:"category"`
	AccountID           string    `json:"account_id,omitempty" bson:"account_id,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// Status derives the goal state at the given instant:
//
//	Completed  current/target >= 1
//	Ahead      needed_per_month <= contribution * 0.9
//	On Track   needed_per_month <= contribution * 1.1
//	Behind     otherwise
//
// where needed_per_month = (target - current) / months_remaining and
// months_remaining = days until deadline / 30 (a past deadline means the
// required pace is effectively infinite).
func (g *SavingsGoal) Status(now time.Time) GoalStatus {
	if g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount {
		return GoalCompleted
	}

	monthsRemaining := g.Deadline.Sub(now).Hours() / 24 / 30
	if monthsRemaining <= 0 {
		return GoalBehind
	}

	needed := decimal.NewFromFloat(g.TargetAmount - g.CurrentAmount).
		Div(decimal.NewFromFloat(monthsRemaining))
	contribution := decimal.NewFromFloat(g.MonthlyContribution)

	switch {
	case needed.LessThanOrEqual(contribution.Mul(decimal.NewFromFloat(0.9))):
		return GoalAhead
	case needed.LessThanOrEqual(contribution.Mul(decimal.NewFromFloat(1.1))):
		return GoalOnTrack
	default:
		return GoalBehind
	}
}
