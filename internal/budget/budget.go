// Package budget compares category spend against monthly goals and
// classifies each goal for alerting.
package budget

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Status classifies spend relative to a goal's limit.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusNearLimit  Status = "near-limit"
	StatusOverBudget Status = "over-budget"
)

// Alerting reports whether the status is surfaced as an alert.
func (s Status) Alerting() bool {
	return s == StatusNearLimit || s == StatusOverBudget
}

// Thresholds are strict lower bounds, in percent of the limit.
type Thresholds struct {
	NearPercent decimal.Decimal
	OverPercent decimal.Decimal
}

// DefaultThresholds: near above 80%, over above 100%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NearPercent: decimal.NewFromInt(80),
		OverPercent: decimal.NewFromInt(100),
	}
}

// Classify maps a spend percentage to a Status.
func (th Thresholds) Classify(percentage decimal.Decimal) Status {
	switch {
	case percentage.GreaterThan(th.OverPercent):
		return StatusOverBudget
	case percentage.GreaterThan(th.NearPercent):
		return StatusNearLimit
	default:
		return StatusNormal
	}
}

// GoalStatus is the evaluated state of one goal.
type GoalStatus struct {
	Goal       model.BudgetGoal
	Spent      decimal.Decimal
	Percentage decimal.Decimal
	Remaining  decimal.Decimal // negative when over budget
	Status     Status
}

// Alert is a notification for a goal in NearLimit or OverBudget.
type Alert struct {
	Category   string
	Status     Status
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Percentage decimal.Decimal
}

// Evaluation is the result of one evaluation pass.
type Evaluation struct {
	Goals  []GoalStatus
	Alerts []Alert
}

// Evaluate sums expense transactions per goal category and classifies
// every goal. Each alerting goal yields exactly one Alert per call; no
// state is carried between calls.
func Evaluate(txns []model.Transaction, goals []model.BudgetGoal, th Thresholds) Evaluation {
	spent := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != model.TxnExpense {
			continue
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}

	ev := Evaluation{Goals: make([]GoalStatus, 0, len(goals))}
	for _, g := range goals {
		s := spent[g.Category]
		pct := calc.Percent(s, g.MonthlyLimit)
		gs := GoalStatus{
			Goal:       g,
			Spent:      s,
			Percentage: pct,
			Remaining:  g.MonthlyLimit.Sub(s),
			Status:     th.Classify(pct),
		}
		ev.Goals = append(ev.Goals, gs)
		if gs.Status.Alerting() {
			ev.Alerts = append(ev.Alerts, Alert{
				Category:   g.Category,
				Status:     gs.Status,
				Spent:      s,
				Limit:      g.MonthlyLimit,
				Percentage: pct,
			})
		}
	}
	return ev
}

// GoalsForMonth returns the goals that apply to month ("YYYY-MM"): those
// scoped to it plus unscoped ones. A scoped goal replaces an unscoped goal
// for the same category, so each category yields at most one goal.
func GoalsForMonth(goals []model.BudgetGoal, month string) []model.BudgetGoal {
	scoped := make(map[string]bool)
	for _, g := range goals {
		if g.Month == month {
			scoped[categoryKey(g.Category)] = true
		}
	}
	var out []model.BudgetGoal
	for _, g := range goals {
		switch {
		case g.Month == month:
			out = append(out, g)
		case g.Month == "" && !scoped[categoryKey(g.Category)]:
			out = append(out, g)
		}
	}
	return out
}

func categoryKey(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
