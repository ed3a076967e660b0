package store

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterMatch(t *testing.T) {
	txn := model.Transaction{Type: model.TxnExpense, Category: "Food & Dining", Date: date(2025, 4, 10)}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"month", Filter{Month: "2025-04"}, true},
		{"other month", Filter{Month: "2025-05"}, false},
		{"from inclusive", Filter{From: date(2025, 4, 10)}, true},
		{"from after", Filter{From: date(2025, 4, 11)}, false},
		{"to inclusive", Filter{To: date(2025, 4, 10)}, true},
		{"to before", Filter{To: date(2025, 4, 9)}, false},
		{"type", Filter{Type: model.TxnIncome}, false},
		{"category case", Filter{Category: "FOOD & DINING"}, true},
		{"category other", Filter{Category: "Shopping"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.filter.Match(txn), tt.name)
	}
}

func TestFilterApplySorts(t *testing.T) {
	txns := []model.Transaction{
		{ID: "b", Date: date(2025, 4, 2)},
		{ID: "c", Date: date(2025, 4, 1)},
		{ID: "a", Date: date(2025, 4, 2)},
	}
	got := Filter{}.Apply(txns)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestCheckGoalConflict(t *testing.T) {
	existing := []model.BudgetGoal{
		{ID: "1", Category: "Food & Dining", Month: "2025-04"},
		{ID: "2", Category: "Shopping"},
	}

	err := CheckGoalConflict(existing, model.BudgetGoal{Category: " food & dining", Month: "2025-04"})
	assert.True(t, errors.Is(err, ErrDuplicateGoal))

	assert.NoError(t, CheckGoalConflict(existing, model.BudgetGoal{ID: "1", Category: "Food & Dining", Month: "2025-04"}))
	assert.NoError(t, CheckGoalConflict(existing, model.BudgetGoal{Category: "Food & Dining", Month: "2025-05"}))
	assert.Error(t, CheckGoalConflict(existing, model.BudgetGoal{Category: "Shopping"}))
}

func TestCheckGoalConflict_AllMonths(t *testing.T) {
	tests := []struct {
		name     string
		existing model.BudgetGoal
		g        model.BudgetGoal
		conflict bool
	}{
		{"scoped after unscoped", model.BudgetGoal{ID: "1", Category: "Shopping"}, model.BudgetGoal{Category: "Shopping", Month: "2025-04"}, true},
		{"unscoped after scoped", model.BudgetGoal{ID: "1", Category: "Shopping", Month: "2025-04"}, model.BudgetGoal{Category: "shopping"}, true},
		{"other category", model.BudgetGoal{ID: "1", Category: "Rent"}, model.BudgetGoal{Category: "Shopping", Month: "2025-04"}, false},
		{"same goal", model.BudgetGoal{ID: "1", Category: "Shopping"}, model.BudgetGoal{ID: "1", Category: "Shopping", Month: "2025-04"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, GoalsOverlap(tt.existing, tt.g) && tt.existing.ID != tt.g.ID)
			err := CheckGoalConflict([]model.BudgetGoal{tt.existing}, tt.g)
			if tt.conflict {
				assert.True(t, errors.Is(err, ErrDuplicateGoal))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrepareGoal(t *testing.T) {
	g, err := PrepareGoal(model.BudgetGoal{Category: "Food", MonthlyLimit: dec("100"), Month: "2025-04"})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)

	_, err = PrepareGoal(model.BudgetGoal{Category: "Food", MonthlyLimit: dec("100"), Month: "2025-13"})
	assert.Error(t, err)
	_, err = PrepareGoal(model.BudgetGoal{MonthlyLimit: dec("100")})
	assert.Error(t, err)
}

func TestPrepareHolding(t *testing.T) {
	h, err := PrepareHolding(model.CryptoHolding{Symbol: " eth ", Amount: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, "ETH", h.Symbol)

	_, err = PrepareHolding(model.CryptoHolding{Symbol: "ETH", Amount: dec("0")})
	assert.Error(t, err)
	_, err = PrepareHolding(model.CryptoHolding{Symbol: "ETH", Amount: dec("1"), PurchasePrice: dec("-1")})
	assert.Error(t, err)
}

func TestPrepareReminder(t *testing.T) {
	r, err := PrepareReminder(model.Reminder{Title: "Rent", DueDate: date(2025, 4, 1)})
	require.NoError(t, err)
	assert.Equal(t, model.ReminderOther, r.Kind)

	_, err = PrepareReminder(model.Reminder{Title: "Rent", DueDate: date(2025, 4, 1), Kind: "weekly"})
	assert.Error(t, err)
	_, err = PrepareReminder(model.Reminder{Title: "Rent"})
	assert.Error(t, err)
}

func TestSortReminders(t *testing.T) {
	rs := []model.Reminder{
		{Title: "b", DueDate: date(2025, 4, 2)},
		{Title: "z", DueDate: date(2025, 4, 1)},
		{Title: "a", DueDate: date(2025, 4, 2)},
	}
	SortReminders(rs)
	assert.Equal(t, "z", rs[0].Title)
	assert.Equal(t, "a", rs[1].Title)
}
