package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

var salaryKeywords = []string{"salary", "job", "work"}

// IsSalaryCategory reports whether a category name looks like employment income.
func IsSalaryCategory(category string) bool {
	c := strings.ToLower(category)
	for _, k := range salaryKeywords {
		if strings.Contains(c, k) {
			return true
		}
	}
	return false
}

// ProjectAnnualIncome averages salary-like income over the months it
// appears in and scales the average to a year.
func ProjectAnnualIncome(txns []model.Transaction) decimal.Decimal {
	byMonth := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != model.TxnIncome || !IsSalaryCategory(t.Category) {
			continue
		}
		key := t.Date.Format("2006-01")
		byMonth[key] = byMonth[key].Add(t.Amount)
	}
	if len(byMonth) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, v := range byMonth {
		sum = sum.Add(v)
	}
	avg := sum.DivRound(decimal.NewFromInt(int64(len(byMonth))), calc.Precision)
	return calc.Money(avg.Mul(decimal.NewFromInt(12)))
}

var (
	maxDeductibleShare = decimal.RequireFromString("0.3")
	assumedSavingRate  = decimal.RequireFromString("0.2")
)

// Section80CSavings estimates the tax saved by investing the smaller of
// the 80C limit and 30% of income, at an assumed 20% rate.
func Section80CSavings(income, limit decimal.Decimal) decimal.Decimal {
	invest := decimal.Min(limit, income.Mul(maxDeductibleShare))
	return calc.Money(calc.MaxZero(invest).Mul(assumedSavingRate))
}
