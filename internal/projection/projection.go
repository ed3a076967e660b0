// Package projection computes SIP and compound savings growth.
//
// Every function is pure: identical inputs give identical outputs and no
// state is shared between calls.
package projection

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

const monthsPerYear = 12

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(monthsPerYear)
	monthly = decimal.NewFromInt(monthsPerYear * 100) // percent per year -> fraction per month
)

// Point is one sample of a growth series.
type Point struct {
	Period        int // years from the start
	Value         decimal.Decimal
	Contributions decimal.Decimal
	Gain          decimal.Decimal
}

// Projection is the result of a growth calculation.
type Projection struct {
	FutureValue        decimal.Decimal
	TotalContributions decimal.Decimal
	TotalGain          decimal.Decimal
	Yearly             []Point
}

// SIP projects a monthly systematic investment using the annuity-due
// future value formula, sampled at the end of each year 1..TenureYears.
func SIP(plan model.SIPPlan) (Projection, error) {
	if err := calc.NonNegative("monthlyAmount", plan.MonthlyAmount); err != nil {
		return Projection{}, err
	}
	if err := calc.NonNegative("expectedAnnualReturnPercent", plan.ExpectedAnnualReturnPercent); err != nil {
		return Projection{}, err
	}
	if plan.TenureYears < 1 {
		return Projection{}, calc.Invalid("tenureYears", plan.TenureYears, "must be at least 1")
	}

	r := plan.ExpectedAnnualReturnPercent.DivRound(monthly, calc.Precision)

	series := make([]Point, 0, plan.TenureYears)
	for year := 1; year <= plan.TenureYears; year++ {
		months := year * monthsPerYear
		value, err := FutureValue(plan.MonthlyAmount, r, months)
		if err != nil {
			return Projection{}, err
		}
		invested := calc.Money(plan.MonthlyAmount.Mul(decimal.NewFromInt(int64(months))))
		series = append(series, Point{
			Period:        year,
			Value:         value,
			Contributions: invested,
			Gain:          value.Sub(invested),
		})
	}

	last := series[len(series)-1]
	return Projection{
		FutureValue:        last.Value,
		TotalContributions: last.Contributions,
		TotalGain:          last.Gain,
		Yearly:             series,
	}, nil
}

// FutureValue is the annuity-due value of payment p after the given number
// of months at monthly rate r (a fraction). A zero rate accumulates
// linearly.
func FutureValue(p, r decimal.Decimal, months int) (decimal.Decimal, error) {
	if err := calc.NonNegative("payment", p); err != nil {
		return decimal.Zero, err
	}
	if err := calc.NonNegative("monthlyRate", r); err != nil {
		return decimal.Zero, err
	}
	if months < 0 {
		return decimal.Zero, calc.Invalid("months", months, "must not be negative")
	}
	return calc.Money(annuityDue(p, r, months)), nil
}

func annuityDue(p, r decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if r.IsZero() {
		return p.Mul(n)
	}
	growth := calc.Pow(one.Add(r), months)
	return p.Mul(growth.Sub(one)).DivRound(r, calc.Precision).Mul(one.Add(r))
}

// Savings projects a balance that compounds yearly and receives twelve
// monthly contributions per year. The series covers years 0..years.
func Savings(acct model.SavingsAccount, years int) (Projection, error) {
	if err := calc.NonNegative("currentBalance", acct.CurrentBalance); err != nil {
		return Projection{}, err
	}
	if err := calc.NonNegative("annualInterestRatePercent", acct.AnnualInterestRatePercent); err != nil {
		return Projection{}, err
	}
	if err := calc.NonNegative("monthlyContribution", acct.MonthlyContribution); err != nil {
		return Projection{}, err
	}
	if years < 0 {
		return Projection{}, calc.Invalid("years", years, "must not be negative")
	}

	factor := one.Add(calc.FromPercent(acct.AnnualInterestRatePercent))
	yearly := acct.MonthlyContribution.Mul(twelve)

	amount := acct.CurrentBalance
	series := make([]Point, 0, years+1)
	for year := 0; year <= years; year++ {
		contributed := acct.CurrentBalance.Add(yearly.Mul(decimal.NewFromInt(int64(year))))
		value := calc.Money(amount)
		series = append(series, Point{
			Period:        year,
			Value:         value,
			Contributions: calc.Money(contributed),
			Gain:          value.Sub(calc.Money(contributed)),
		})
		amount = amount.Mul(factor).Round(calc.Precision).Add(yearly)
	}

	last := series[len(series)-1]
	return Projection{
		FutureValue:        last.Value,
		TotalContributions: last.Contributions,
		TotalGain:          last.Gain,
		Yearly:             series,
	}, nil
}
