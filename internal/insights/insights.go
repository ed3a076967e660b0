// Package insights derives plain-language observations from a transaction
// history. Every rule is a fixed heuristic; nothing here calls out to a
// model or service.
package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/aggregate"
	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Kind groups insights for presentation.
type Kind string

const (
	KindWarning      Kind = "warning"
	KindSaving       Kind = "saving"
	KindOptimization Kind = "optimization"
)

// Impact is a coarse priority.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
)

// Insight is one observation with an optional suggestion.
type Insight struct {
	ID         string
	Kind       Kind
	Impact     Impact
	Title      string
	Message    string
	Suggestion string
}

var (
	topCategoryShare  = decimal.NewFromInt(40)
	expenseRiseLimit  = decimal.NewFromInt(20)
	expenseDropLimit  = decimal.NewFromInt(-10)
	weekendMultiplier = decimal.RequireFromString("1.5")
	lowSavingsRate    = decimal.NewFromInt(10)
	highSavingsRate   = decimal.NewFromInt(30)
	lateBillDay       = decimal.NewFromInt(20)
)

// billKeywords mark a category as a recurring bill when contained in its
// lowercased name.
var billKeywords = []string{"utilities", "rent", "internet", "phone", "insurance"}

// Generate runs every rule over txns in a fixed order. An empty history
// yields no insights.
func Generate(txns []model.Transaction) []Insight {
	if len(txns) == 0 {
		return nil
	}

	var out []Insight
	for _, rule := range []func([]model.Transaction) (Insight, bool){
		topCategory,
		monthOverMonth,
		weekendSpending,
		savingsRate,
		billTiming,
	} {
		if in, ok := rule(txns); ok {
			out = append(out, in)
		}
	}
	return out
}

func topCategory(txns []model.Transaction) (Insight, bool) {
	cats := aggregate.ByCategory(txns, model.TxnExpense)
	if len(cats) == 0 || !cats[0].Share.GreaterThan(topCategoryShare) {
		return Insight{}, false
	}
	top := cats[0]
	return Insight{
		ID:         "high-category",
		Kind:       KindWarning,
		Impact:     ImpactHigh,
		Title:      "High Spending in One Category",
		Message:    fmt.Sprintf("%s accounts for %s%% of your total expenses.", top.Category, top.Share.StringFixed(0)),
		Suggestion: fmt.Sprintf("Consider setting a budget limit for %s and track daily spending in this category.", top.Category),
	}, true
}

func monthOverMonth(txns []model.Transaction) (Insight, bool) {
	months := aggregate.ByMonth(txns)
	if len(months) < 2 {
		return Insight{}, false
	}
	cur, prev := months[len(months)-1], months[len(months)-2]
	if !prev.Expense.IsPositive() {
		return Insight{}, false
	}
	change := calc.Percent(cur.Expense.Sub(prev.Expense), prev.Expense)

	switch {
	case change.GreaterThan(expenseRiseLimit):
		return Insight{
			ID:         "spending-increase",
			Kind:       KindWarning,
			Impact:     ImpactHigh,
			Title:      "Spending Increase Detected",
			Message:    fmt.Sprintf("Your expenses increased by %s%% in %s compared to %s.", change.StringFixed(0), cur.Month, prev.Month),
			Suggestion: "Review recent transactions for one-time expenses and consider a budget goal for the categories that grew.",
		}, true
	case change.LessThan(expenseDropLimit):
		return Insight{
			ID:         "spending-decrease",
			Kind:       KindSaving,
			Impact:     ImpactHigh,
			Title:      "Expenses Reduced",
			Message:    fmt.Sprintf("You reduced your expenses by %s%% in %s.", change.Abs().StringFixed(0), cur.Month),
			Suggestion: "Consider investing the amount saved.",
		}, true
	}
	return Insight{}, false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// weekendSpending compares average spend per active day. A day is active
// when any transaction falls on it.
func weekendSpending(txns []model.Transaction) (Insight, bool) {
	var weekendSpend, weekdaySpend decimal.Decimal
	weekendDays := make(map[string]struct{})
	weekdayDays := make(map[string]struct{})

	for _, t := range txns {
		day := t.Date.Format("2006-01-02")
		weekend := isWeekend(t.Date)
		if weekend {
			weekendDays[day] = struct{}{}
		} else {
			weekdayDays[day] = struct{}{}
		}
		if t.Type != model.TxnExpense {
			continue
		}
		if weekend {
			weekendSpend = weekendSpend.Add(t.Amount)
		} else {
			weekdaySpend = weekdaySpend.Add(t.Amount)
		}
	}
	if len(weekendDays) == 0 || len(weekdayDays) == 0 {
		return Insight{}, false
	}

	weekendAvg := calc.Ratio(weekendSpend, decimal.NewFromInt(int64(len(weekendDays))))
	weekdayAvg := calc.Ratio(weekdaySpend, decimal.NewFromInt(int64(len(weekdayDays))))
	if !weekendAvg.GreaterThan(weekdayAvg.Mul(weekendMultiplier)) {
		return Insight{}, false
	}

	msg := "You spend on weekends but hardly on weekdays."
	if weekdayAvg.IsPositive() {
		more := calc.Percent(weekendAvg.Sub(weekdayAvg), weekdayAvg)
		msg = fmt.Sprintf("You spend %s%% more per day on weekends than on weekdays.", more.StringFixed(0))
	}
	return Insight{
		ID:         "weekend-spending",
		Kind:       KindOptimization,
		Impact:     ImpactMedium,
		Title:      "High Weekend Spending",
		Message:    msg,
		Suggestion: "Plan weekend activities in advance and set a weekend spending budget.",
	}, true
}

func savingsRate(txns []model.Transaction) (Insight, bool) {
	rate := aggregate.Summarize(txns).SavingsRate

	switch {
	case rate.LessThan(lowSavingsRate):
		return Insight{
			ID:         "low-savings",
			Kind:       KindWarning,
			Impact:     ImpactHigh,
			Title:      "Low Savings Rate",
			Message:    fmt.Sprintf("Your current savings rate is %s%%. Saving at least 20%% of income is a common target.", rate.StringFixed(1)),
			Suggestion: "Try the 50/30/20 rule: 50% needs, 30% wants, 20% savings.",
		}, true
	case rate.GreaterThan(highSavingsRate):
		return Insight{
			ID:         "high-savings",
			Kind:       KindSaving,
			Impact:     ImpactHigh,
			Title:      "Excellent Savings Rate",
			Message:    fmt.Sprintf("Your savings rate of %s%% is well above average.", rate.StringFixed(1)),
			Suggestion: "Consider putting the surplus into a SIP for long-term growth.",
		}, true
	}
	return Insight{}, false
}

// IsBill reports whether category looks like a recurring bill.
func IsBill(category string) bool {
	c := strings.ToLower(category)
	for _, kw := range billKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

func billTiming(txns []model.Transaction) (Insight, bool) {
	var days, count int64
	for _, t := range txns {
		if t.Type == model.TxnExpense && IsBill(t.Category) {
			days += int64(t.Date.Day())
			count++
		}
	}
	if count == 0 {
		return Insight{}, false
	}
	avg := calc.Ratio(decimal.NewFromInt(days), decimal.NewFromInt(count))
	if !avg.GreaterThan(lateBillDay) {
		return Insight{}, false
	}
	return Insight{
		ID:         "bill-timing",
		Kind:       KindOptimization,
		Impact:     ImpactMedium,
		Title:      "Optimize Bill Payment Timing",
		Message:    fmt.Sprintf("You pay bills around day %s of the month on average, which may strain cash flow.", avg.StringFixed(0)),
		Suggestion: "Consider paying bills early in the month to manage cash flow and avoid late fees.",
	}, true
}
