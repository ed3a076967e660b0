// Package storetest holds the behaviour every store.Repository backend
// must share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// Opener returns an empty repository. It is called once per subtest.
type Opener func(t *testing.T) store.Repository

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Run exercises the full Repository contract.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo store.Repository)
	}{
		{"TransactionRoundTrip", testTransactionRoundTrip},
		{"TransactionRejectsInvalid", testTransactionRejectsInvalid},
		{"TransactionFilter", testTransactionFilter},
		{"TransactionDelete", testTransactionDelete},
		{"Goals", testGoals},
		{"Holdings", testHoldings},
		{"Plans", testPlans},
		{"Reminders", testReminders},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := open(t)
			t.Cleanup(func() { _ = repo.Close() })
			tt.fn(t, repo)
		})
	}
}

func testTransactionRoundTrip(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	in := model.Transaction{
		Type:        model.TxnExpense,
		Amount:      dec("1499.50"),
		Category:    "Food & Dining",
		Description: "Groceries, weekly",
		Date:        date(2025, 4, 12),
		Reference:   "REF-1",
	}

	saved, err := repo.AddTransaction(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.Transactions(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved.ID, got[0].ID)
	assert.Equal(t, in.Type, got[0].Type)
	assert.True(t, in.Amount.Equal(got[0].Amount), "amount %s", got[0].Amount)
	assert.Equal(t, in.Category, got[0].Category)
	assert.Equal(t, in.Description, got[0].Description)
	assert.True(t, in.Date.Equal(got[0].Date), "date %s", got[0].Date)
	assert.Equal(t, in.Reference, got[0].Reference)
}

func testTransactionRejectsInvalid(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	_, err := repo.AddTransaction(ctx, model.Transaction{
		Type:     model.TxnExpense,
		Amount:   dec("-5"),
		Category: "Other",
		Date:     date(2025, 4, 1),
	})
	assert.Error(t, err)

	_, err = repo.AddTransaction(ctx, model.Transaction{
		Type:     model.TxnIncome,
		Amount:   dec("1.005"),
		Category: "Salary",
		Date:     date(2025, 4, 1),
	})
	assert.Error(t, err)

	got, err := repo.Transactions(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testTransactionFilter(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	for _, tx := range []model.Transaction{
		{Type: model.TxnIncome, Amount: dec("50000"), Category: "Salary", Date: date(2025, 4, 1)},
		{Type: model.TxnExpense, Amount: dec("300"), Category: "Food & Dining", Date: date(2025, 4, 20)},
		{Type: model.TxnExpense, Amount: dec("200"), Category: "Food & Dining", Date: date(2025, 4, 3)},
		{Type: model.TxnExpense, Amount: dec("900"), Category: "Shopping", Date: date(2025, 5, 2)},
	} {
		_, err := repo.AddTransaction(ctx, tx)
		require.NoError(t, err)
	}

	all, err := repo.Transactions(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.Before(all[i-1].Date), "ordered by date")
	}

	april, err := repo.Transactions(ctx, store.Filter{Month: "2025-04"})
	require.NoError(t, err)
	assert.Len(t, april, 3)

	food, err := repo.Transactions(ctx, store.Filter{Type: model.TxnExpense, Category: "food & dining"})
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.True(t, food[0].Amount.Equal(dec("200")))

	ranged, err := repo.Transactions(ctx, store.Filter{From: date(2025, 4, 3), To: date(2025, 4, 20)})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func testTransactionDelete(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	a, err := repo.AddTransaction(ctx, model.Transaction{Type: model.TxnExpense, Amount: dec("10"), Category: "Other", Date: date(2025, 4, 1)})
	require.NoError(t, err)
	b, err := repo.AddTransaction(ctx, model.Transaction{Type: model.TxnExpense, Amount: dec("20"), Category: "Other", Date: date(2025, 4, 2)})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTransaction(ctx, a.ID))

	got, err := repo.Transactions(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	err = repo.DeleteTransaction(ctx, a.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	c, err := repo.AddTransaction(ctx, model.Transaction{Type: model.TxnExpense, Amount: dec("30"), Category: "Other", Date: date(2025, 4, 3)})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, c.ID)
}

func testGoals(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	g, err := repo.SaveGoal(ctx, model.BudgetGoal{Category: "Food & Dining", MonthlyLimit: dec("8000"), Month: "2025-04"})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)

	_, err = repo.SaveGoal(ctx, model.BudgetGoal{Category: "food & dining", MonthlyLimit: dec("9000"), Month: "2025-04"})
	assert.True(t, errors.Is(err, store.ErrDuplicateGoal), "got %v", err)

	_, err = repo.SaveGoal(ctx, model.BudgetGoal{Category: "Food & Dining", MonthlyLimit: dec("9000"), Month: "2025-05"})
	require.NoError(t, err, "different month is a different goal")

	g.MonthlyLimit = dec("8500")
	_, err = repo.SaveGoal(ctx, g)
	require.NoError(t, err, "updating in place")

	goals, err := repo.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	var found bool
	for _, got := range goals {
		if got.ID == g.ID {
			found = true
			assert.True(t, got.MonthlyLimit.Equal(dec("8500")))
			assert.Equal(t, "2025-04", got.Month)
		}
	}
	assert.True(t, found)

	_, err = repo.SaveGoal(ctx, model.BudgetGoal{Category: "FOOD & DINING", MonthlyLimit: dec("20000")})
	assert.True(t, errors.Is(err, store.ErrDuplicateGoal), "all-months goal overlaps scoped goals, got %v", err)

	all, err := repo.SaveGoal(ctx, model.BudgetGoal{Category: "Shopping", MonthlyLimit: dec("1000")})
	require.NoError(t, err)
	_, err = repo.SaveGoal(ctx, model.BudgetGoal{Category: "shopping", MonthlyLimit: dec("500"), Month: "2025-04"})
	assert.True(t, errors.Is(err, store.ErrDuplicateGoal), "scoped goal overlaps all-months goal, got %v", err)
	all.Month = "2025-06"
	_, err = repo.SaveGoal(ctx, all)
	require.NoError(t, err, "rescoping the only goal for a category")

	_, err = repo.SaveGoal(ctx, model.BudgetGoal{Category: "Shopping", MonthlyLimit: dec("0")})
	assert.Error(t, err)

	require.NoError(t, repo.DeleteGoal(ctx, g.ID))
	assert.True(t, errors.Is(repo.DeleteGoal(ctx, g.ID), store.ErrNotFound))
}

func testHoldings(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	h, err := repo.SaveHolding(ctx, model.CryptoHolding{
		Symbol:        "btc",
		Amount:        dec("0.015"),
		PurchasePrice: dec("4500000"),
		CurrentPrice:  dec("5000000"),
		Change24h:     dec("-1.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "BTC", h.Symbol)

	got, err := repo.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec("0.015")))
	assert.True(t, got[0].PurchasePrice.Equal(dec("4500000")))
	assert.True(t, got[0].Change24h.Equal(dec("-1.25")))

	h.CurrentPrice = dec("5100000")
	_, err = repo.SaveHolding(ctx, h)
	require.NoError(t, err)
	got, err = repo.Holdings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CurrentPrice.Equal(dec("5100000")))

	require.NoError(t, repo.DeleteHolding(ctx, h.ID))
	assert.True(t, errors.Is(repo.DeleteHolding(ctx, h.ID), store.ErrNotFound))
}

func testPlans(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	p, err := repo.SavePlan(ctx, model.SIPPlan{MonthlyAmount: dec("5000"), ExpectedAnnualReturnPercent: dec("12"), TenureYears: 10})
	require.NoError(t, err)

	got, err := repo.Plans(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.True(t, got[0].ExpectedAnnualReturnPercent.Equal(dec("12")))
	assert.Equal(t, 10, got[0].TenureYears)

	_, err = repo.SavePlan(ctx, model.SIPPlan{MonthlyAmount: dec("5000"), TenureYears: 0})
	assert.Error(t, err)

	require.NoError(t, repo.DeletePlan(ctx, p.ID))
	assert.True(t, errors.Is(repo.DeletePlan(ctx, p.ID), store.ErrNotFound))
}

func testReminders(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	r, err := repo.SaveReminder(ctx, model.Reminder{
		Title:   "Electricity bill",
		DueDate: date(2025, 4, 25),
		Amount:  dec("1800"),
		Kind:    model.ReminderBill,
	})
	require.NoError(t, err)

	other, err := repo.SaveReminder(ctx, model.Reminder{Title: "Review SIP", DueDate: date(2025, 4, 10)})
	require.NoError(t, err)
	assert.Equal(t, model.ReminderOther, other.Kind)

	got, err := repo.Reminders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, other.ID, got[0].ID, "ordered by due date")
	assert.True(t, got[1].DueDate.Equal(date(2025, 4, 25)))
	assert.True(t, got[1].Amount.Equal(dec("1800")))
	assert.Equal(t, model.ReminderBill, got[1].Kind)

	require.NoError(t, repo.DeleteReminder(ctx, r.ID))
	assert.True(t, errors.Is(repo.DeleteReminder(ctx, r.ID), store.ErrNotFound))
}
