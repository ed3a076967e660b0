package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// MonthReport compares one month with the month before it.
type MonthReport struct {
	Month         string
	Income        decimal.Decimal
	Expense       decimal.Decimal
	Balance       decimal.Decimal
	PrevMonth     string
	PrevIncome    decimal.Decimal
	PrevExpense   decimal.Decimal
	IncomeChange  decimal.Decimal // percent vs previous month, 0 when it had none
	ExpenseChange decimal.Decimal
	Categories    []CategoryTotal // expenses only
	Daily         []DayTotals     // days with expenses
	Count         int
}

// Monthly builds the report for month key. A month without transactions
// yields zero totals and empty series.
func Monthly(txns []model.Transaction, key string) (MonthReport, error) {
	prev, err := PrevMonth(key)
	if err != nil {
		return MonthReport{}, err
	}

	current := FilterMonth(txns, key)
	cur := Summarize(current)
	before := Summarize(FilterMonth(txns, prev))

	days, err := ByDay(current, key)
	if err != nil {
		return MonthReport{}, err
	}
	var spending []DayTotals
	for _, d := range days {
		if d.Expense.IsPositive() {
			spending = append(spending, d)
		}
	}

	return MonthReport{
		Month:         key,
		Income:        cur.Income,
		Expense:       cur.Expense,
		Balance:       cur.Balance,
		PrevMonth:     prev,
		PrevIncome:    before.Income,
		PrevExpense:   before.Expense,
		IncomeChange:  change(cur.Income, before.Income),
		ExpenseChange: change(cur.Expense, before.Expense),
		Categories:    ByCategory(current, model.TxnExpense),
		Daily:         spending,
		Count:         cur.Count,
	}, nil
}

func change(now, before decimal.Decimal) decimal.Decimal {
	return calc.Percent(now.Sub(before), before)
}
