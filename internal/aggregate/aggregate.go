// Package aggregate rolls transactions up by month, category and day.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// MonthLayout is the "YYYY-MM" key format.
const MonthLayout = "2006-01"

// MonthKey returns the calendar month key for t.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonth parses a "YYYY-MM" key into the first day of that month.
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return time.Time{}, calc.Invalid("month", key, "expected YYYY-MM")
	}
	return t, nil
}

// PrevMonth returns the key of the month before key.
func PrevMonth(key string) (string, error) {
	t, err := ParseMonth(key)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, -1, 0)), nil
}

// FilterMonth returns the transactions dated in month key.
func FilterMonth(txns []model.Transaction, key string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if MonthKey(t.Date) == key {
			out = append(out, t)
		}
	}
	return out
}

// MonthTotals is income and expense for one calendar month.
type MonthTotals struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// ByMonth groups transactions by calendar month, oldest first.
func ByMonth(txns []model.Transaction) []MonthTotals {
	monthMap := make(map[string]*MonthTotals)
	for _, t := range txns {
		key := MonthKey(t.Date)
		mt, ok := monthMap[key]
		if !ok {
			mt = &MonthTotals{Month: key}
			monthMap[key] = mt
		}
		switch t.Type {
		case model.TxnIncome:
			mt.Income = mt.Income.Add(t.Amount)
		case model.TxnExpense:
			mt.Expense = mt.Expense.Add(t.Amount)
		}
	}

	months := make([]MonthTotals, 0, len(monthMap))
	for _, mt := range monthMap {
		mt.Net = mt.Income.Sub(mt.Expense)
		months = append(months, *mt)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})
	return months
}

// Trailing keeps the most recent n periods of a chronological series.
// n <= 0 keeps everything.
func Trailing(series []MonthTotals, n int) []MonthTotals {
	if n <= 0 || len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// CategoryTotal is the sum for one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Share    decimal.Decimal // percent of the type's total
	Count    int
}

// ByCategory sums transactions of one type per category, largest first.
func ByCategory(txns []model.Transaction, typ model.TxnType) []CategoryTotal {
	catMap := make(map[string]*CategoryTotal)
	total := decimal.Zero
	for _, t := range txns {
		if t.Type != typ {
			continue
		}
		ct, ok := catMap[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			catMap[t.Category] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
		total = total.Add(t.Amount)
	}

	cats := make([]CategoryTotal, 0, len(catMap))
	for _, ct := range catMap {
		ct.Share = calc.Percent(ct.Total, total)
		cats = append(cats, *ct)
	}
	sort.Slice(cats, func(i, j int) bool {
		if !cats[i].Total.Equal(cats[j].Total) {
			return cats[i].Total.GreaterThan(cats[j].Total)
		}
		return cats[i].Category < cats[j].Category
	})
	return cats
}

// DayTotals is the activity on one calendar day.
type DayTotals struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Net is income minus expense for the day.
func (d DayTotals) Net() decimal.Decimal {
	return d.Income.Sub(d.Expense)
}

// ByDay buckets the transactions of month key by calendar day. Days
// without activity are omitted.
func ByDay(txns []model.Transaction, key string) ([]DayTotals, error) {
	if _, err := ParseMonth(key); err != nil {
		return nil, err
	}

	dayMap := make(map[string]*DayTotals)
	for _, t := range FilterMonth(txns, key) {
		dayKey := t.Date.Format("2006-01-02")
		dt, ok := dayMap[dayKey]
		if !ok {
			y, m, d := t.Date.Date()
			dt = &DayTotals{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
			dayMap[dayKey] = dt
		}
		switch t.Type {
		case model.TxnIncome:
			dt.Income = dt.Income.Add(t.Amount)
		case model.TxnExpense:
			dt.Expense = dt.Expense.Add(t.Amount)
		}
		dt.Count++
	}

	days := make([]DayTotals, 0, len(dayMap))
	for _, dt := range dayMap {
		days = append(days, *dt)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, nil
}

// Summary is the dashboard headline figures.
type Summary struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Balance     decimal.Decimal
	SavingsRate decimal.Decimal // percent of income kept; 0 without income
	Count       int
}

// Summarize totals income and expense across txns.
func Summarize(txns []model.Transaction) Summary {
	var s Summary
	for _, t := range txns {
		switch t.Type {
		case model.TxnIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.TxnExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expense)
	s.SavingsRate = calc.Percent(s.Balance, s.Income)
	return s
}
