package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(typ model.TxnType, category, amount, date string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{Type: typ, Category: category, Amount: dec(amount), Date: d}
}

func fixture() []model.Transaction {
	return []model.Transaction{
		txn(model.TxnIncome, "Salary", "50000", "2025-03-01"),
		txn(model.TxnExpense, "Food & Dining", "5000", "2025-03-05"),
		txn(model.TxnIncome, "Salary", "50000", "2025-04-01"),
		txn(model.TxnExpense, "Food & Dining", "6000", "2025-04-03"),
		txn(model.TxnExpense, "Shopping", "2000", "2025-04-03"),
		txn(model.TxnExpense, "Bills & Utilities", "4000", "2025-04-21"),
		txn(model.TxnIncome, "Freelance", "10000", "2025-04-25"),
	}
}

func TestMonthKeyAndParse(t *testing.T) {
	assert.Equal(t, "2025-04", MonthKey(time.Date(2025, 4, 30, 23, 0, 0, 0, time.UTC)))

	got, err := ParseMonth("2025-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseMonth("April")
	assert.True(t, errors.Is(err, calc.ErrInvalidParameter))

	prev, err := PrevMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", prev)
}

func TestByMonth(t *testing.T) {
	months := ByMonth(fixture())
	require.Len(t, months, 2)

	assert.Equal(t, "2025-03", months[0].Month)
	assert.True(t, months[0].Income.Equal(dec("50000")))
	assert.True(t, months[0].Expense.Equal(dec("5000")))
	assert.True(t, months[0].Net.Equal(dec("45000")))

	assert.Equal(t, "2025-04", months[1].Month)
	assert.True(t, months[1].Income.Equal(dec("60000")))
	assert.True(t, months[1].Expense.Equal(dec("12000")))
}

func TestByMonthEmpty(t *testing.T) {
	assert.Empty(t, ByMonth(nil))
}

func TestTrailing(t *testing.T) {
	series := []MonthTotals{{Month: "2025-01"}, {Month: "2025-02"}, {Month: "2025-03"}}

	got := Trailing(series, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-02", got[0].Month)

	assert.Len(t, Trailing(series, 5), 3)
	assert.Len(t, Trailing(series, 0), 3)
}

func TestByCategory(t *testing.T) {
	cats := ByCategory(FilterMonth(fixture(), "2025-04"), model.TxnExpense)
	require.Len(t, cats, 3)

	assert.Equal(t, "Food & Dining", cats[0].Category)
	assert.True(t, cats[0].Total.Equal(dec("6000")))
	assert.True(t, cats[0].Share.Equal(dec("50")))
	assert.Equal(t, "Bills & Utilities", cats[1].Category)
	assert.Equal(t, "Shopping", cats[2].Category)

	sum := decimal.Zero
	for _, c := range cats {
		sum = sum.Add(c.Share)
	}
	assert.InDelta(t, 100, sum.InexactFloat64(), 1e-9)
}

func TestByCategoryIgnoresOtherType(t *testing.T) {
	cats := ByCategory(fixture(), model.TxnIncome)
	require.Len(t, cats, 2)
	assert.Equal(t, "Salary", cats[0].Category)
	assert.Equal(t, 2, cats[0].Count)
}

func TestByDay(t *testing.T) {
	days, err := ByDay(fixture(), "2025-04")
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, 3, days[1].Date.Day())
	assert.True(t, days[1].Expense.Equal(dec("8000")))
	assert.Equal(t, 2, days[1].Count)
	assert.True(t, days[0].Net().Equal(dec("50000")))

	_, err = ByDay(fixture(), "2025/04")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(FilterMonth(fixture(), "2025-04"))
	assert.True(t, s.Income.Equal(dec("60000")))
	assert.True(t, s.Expense.Equal(dec("12000")))
	assert.True(t, s.Balance.Equal(dec("48000")))
	assert.True(t, s.SavingsRate.Equal(dec("80")))
	assert.Equal(t, 5, s.Count)
}

func TestSummarizeNoIncome(t *testing.T) {
	s := Summarize([]model.Transaction{txn(model.TxnExpense, "Other", "100", "2025-04-01")})
	assert.True(t, s.SavingsRate.IsZero())
	assert.True(t, s.Balance.Equal(dec("-100")))
}

func TestMonthly(t *testing.T) {
	r, err := Monthly(fixture(), "2025-04")
	require.NoError(t, err)

	assert.Equal(t, "2025-03", r.PrevMonth)
	assert.True(t, r.IncomeChange.Equal(dec("20")))
	assert.True(t, r.ExpenseChange.Equal(dec("140")))
	require.Len(t, r.Categories, 3)
	require.Len(t, r.Daily, 2)
	assert.Equal(t, 21, r.Daily[1].Date.Day())
}

func TestMonthlyEmpty(t *testing.T) {
	r, err := Monthly(fixture(), "2026-01")
	require.NoError(t, err)
	assert.True(t, r.Income.IsZero())
	assert.True(t, r.ExpenseChange.IsZero())
	assert.Empty(t, r.Categories)
	assert.Empty(t, r.Daily)

	_, err = Monthly(fixture(), "bad")
	assert.Error(t, err)
}
