// Package store defines the persistence port shared by every backend.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var (
	// ErrNotFound is returned when an id does not match any record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateGoal is returned when a second goal targets the same
	// category and month.
	ErrDuplicateGoal = errors.New("budget goal already exists for category and month")
)

// Repository persists everything the engine reads. Implementations must
// be safe for use by one process at a time; none of them coordinate
// across processes.
type Repository interface {
	// AddTransaction validates t, assigns an ID and stores it.
	AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	// Transactions returns matching transactions ordered by date then ID.
	Transactions(ctx context.Context, f Filter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// SaveGoal inserts g, or replaces the goal with the same ID.
	SaveGoal(ctx context.Context, g model.BudgetGoal) (model.BudgetGoal, error)
	Goals(ctx context.Context) ([]model.BudgetGoal, error)
	DeleteGoal(ctx context.Context, id string) error

	SaveHolding(ctx context.Context, h model.CryptoHolding) (model.CryptoHolding, error)
	Holdings(ctx context.Context) ([]model.CryptoHolding, error)
	DeleteHolding(ctx context.Context, id string) error

	SavePlan(ctx context.Context, p model.SIPPlan) (model.SIPPlan, error)
	Plans(ctx context.Context) ([]model.SIPPlan, error)
	DeletePlan(ctx context.Context, id string) error

	SaveReminder(ctx context.Context, r model.Reminder) (model.Reminder, error)
	Reminders(ctx context.Context) ([]model.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error

	Close() error
}

// Filter narrows a transaction query. Zero fields match everything.
type Filter struct {
	Month    string // "YYYY-MM"
	From     time.Time
	To       time.Time // inclusive
	Type     model.TxnType
	Category string // case-insensitive
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Transaction) bool {
	if f.Month != "" && t.Date.Format("2006-01") != f.Month {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	return true
}

// Apply keeps the transactions matching f, sorted by date then ID.
func (f Filter) Apply(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	SortTransactions(out)
	return out
}

// SortTransactions orders by date, then ID.
func SortTransactions(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

// GoalKey identifies the category a goal applies to.
func GoalKey(g model.BudgetGoal) string {
	return strings.ToLower(strings.TrimSpace(g.Category))
}

// GoalsOverlap reports whether a and b would both apply to some month.
// A goal without a month applies to every month.
func GoalsOverlap(a, b model.BudgetGoal) bool {
	if GoalKey(a) != GoalKey(b) {
		return false
	}
	return a.Month == "" || b.Month == "" || a.Month == b.Month
}

// CheckGoalConflict returns ErrDuplicateGoal when another goal in
// existing overlaps g.
func CheckGoalConflict(existing []model.BudgetGoal, g model.BudgetGoal) error {
	for _, e := range existing {
		if e.ID != g.ID && GoalsOverlap(e, g) {
			return ErrDuplicateGoal
		}
	}
	return nil
}

// SortGoals orders by month, then category.
func SortGoals(goals []model.BudgetGoal) {
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Month != goals[j].Month {
			return goals[i].Month < goals[j].Month
		}
		return goals[i].Category < goals[j].Category
	})
}

// SortHoldings orders by symbol, then ID.
func SortHoldings(hs []model.CryptoHolding) {
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].Symbol != hs[j].Symbol {
			return hs[i].Symbol < hs[j].Symbol
		}
		return hs[i].ID < hs[j].ID
	})
}

// SortPlans orders by tenure, then ID.
func SortPlans(ps []model.SIPPlan) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].TenureYears != ps[j].TenureYears {
			return ps[i].TenureYears < ps[j].TenureYears
		}
		return ps[i].ID < ps[j].ID
	})
}

// SortReminders orders by due date, then title.
func SortReminders(rs []model.Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].DueDate.Equal(rs[j].DueDate) {
			return rs[i].DueDate.Before(rs[j].DueDate)
		}
		return rs[i].Title < rs[j].Title
	})
}
