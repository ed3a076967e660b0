package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// PrepareGoal validates g and assigns an ID if it has none.
func PrepareGoal(g model.BudgetGoal) (model.BudgetGoal, error) {
	if strings.TrimSpace(g.Category) == "" {
		return g, fmt.Errorf("goal: category is required")
	}
	if !g.MonthlyLimit.IsPositive() {
		return g, fmt.Errorf("goal %s: monthly limit must be positive, got %s", g.Category, g.MonthlyLimit)
	}
	if g.Month != "" && !validMonth(g.Month) {
		return g, fmt.Errorf("goal %s: month %q is not YYYY-MM", g.Category, g.Month)
	}
	if g.ID == "" {
		g.ID = id.New()
	}
	return g, nil
}

// PrepareHolding validates h and assigns an ID if it has none.
func PrepareHolding(h model.CryptoHolding) (model.CryptoHolding, error) {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if h.Symbol == "" {
		return h, fmt.Errorf("holding: symbol is required")
	}
	if !h.Amount.IsPositive() {
		return h, fmt.Errorf("holding %s: amount must be positive, got %s", h.Symbol, h.Amount)
	}
	if h.PurchasePrice.IsNegative() || h.CurrentPrice.IsNegative() {
		return h, fmt.Errorf("holding %s: prices must not be negative", h.Symbol)
	}
	if h.ID == "" {
		h.ID = id.New()
	}
	return h, nil
}

// PreparePlan validates p and assigns an ID if it has none.
func PreparePlan(p model.SIPPlan) (model.SIPPlan, error) {
	if !p.MonthlyAmount.IsPositive() {
		return p, fmt.Errorf("plan: monthly amount must be positive, got %s", p.MonthlyAmount)
	}
	if p.ExpectedAnnualReturnPercent.IsNegative() {
		return p, fmt.Errorf("plan: expected return must not be negative, got %s", p.ExpectedAnnualReturnPercent)
	}
	if p.TenureYears <= 0 {
		return p, fmt.Errorf("plan: tenure must be positive, got %d", p.TenureYears)
	}
	if p.ID == "" {
		p.ID = id.New()
	}
	return p, nil
}

// PrepareReminder validates r and assigns an ID if it has none.
func PrepareReminder(r model.Reminder) (model.Reminder, error) {
	if strings.TrimSpace(r.Title) == "" {
		return r, fmt.Errorf("reminder: title is required")
	}
	if r.DueDate.IsZero() {
		return r, fmt.Errorf("reminder %s: due date is required", r.Title)
	}
	if r.Amount.IsNegative() {
		return r, fmt.Errorf("reminder %s: amount must not be negative", r.Title)
	}
	if r.Kind == "" {
		r.Kind = model.ReminderOther
	}
	if !r.Kind.Valid() {
		return r, fmt.Errorf("reminder %s: unknown kind %q", r.Title, r.Kind)
	}
	if r.ID == "" {
		r.ID = id.New()
	}
	return r, nil
}

func validMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}
