package tax

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Rules holds the flat rates applied outside the slab table.
type Rules struct {
	CryptoRatePercent decimal.Decimal
	LTCGRatePercent   decimal.Decimal
	LTCGExemption     decimal.Decimal
	Section80CLimit   decimal.Decimal
}

// DefaultRules: 30% on crypto, 12.5% LTCG above 1 lakh, 1.5 lakh 80C.
func DefaultRules() Rules {
	return Rules{
		CryptoRatePercent: decimal.NewFromInt(30),
		LTCGRatePercent:   decimal.RequireFromString("12.5"),
		LTCGExemption:     decimal.NewFromInt(100000),
		Section80CLimit:   decimal.NewFromInt(150000),
	}
}

// Input gathers everything a liability depends on.
type Input struct {
	AnnualIncome   decimal.Decimal
	InterestIncome decimal.Decimal
	LongTermGains  decimal.Decimal
	Holdings       []model.CryptoHolding
}

// Liability breaks total tax into its independent parts.
type Liability struct {
	IncomeTax       decimal.Decimal
	InterestTax     decimal.Decimal
	CryptoTax       decimal.Decimal
	CapitalGainsTax decimal.Decimal
	Total           decimal.Decimal
	EffectiveRate   decimal.Decimal // Total / AnnualIncome, 0 without income
	MarginalRate    decimal.Decimal // percent
}

// Calculator combines a slab schedule with the asset-class rules.
type Calculator struct {
	schedule *Schedule
	rules    Rules
}

// NewCalculator creates a Calculator.
func NewCalculator(schedule *Schedule, rules Rules) *Calculator {
	return &Calculator{schedule: schedule, rules: rules}
}

// Schedule returns the slab table in use.
func (c *Calculator) Schedule() *Schedule { return c.schedule }

// Rules returns the flat-rate rules in use.
func (c *Calculator) Rules() Rules { return c.rules }

// Compute returns the total liability for in.
func (c *Calculator) Compute(in Input) (Liability, error) {
	income, err := c.schedule.Tax(in.AnnualIncome)
	if err != nil {
		return Liability{}, err
	}
	interest, err := c.schedule.TaxOnInterest(in.AnnualIncome, in.InterestIncome)
	if err != nil {
		return Liability{}, err
	}
	crypto, err := CryptoGainsTax(in.Holdings, c.rules.CryptoRatePercent)
	if err != nil {
		return Liability{}, err
	}
	ltcg, err := CapitalGainsTax(in.LongTermGains, c.rules.LTCGExemption, c.rules.LTCGRatePercent)
	if err != nil {
		return Liability{}, err
	}

	total := income.Add(interest).Add(crypto).Add(ltcg)
	return Liability{
		IncomeTax:       income,
		InterestTax:     interest,
		CryptoTax:       crypto,
		CapitalGainsTax: ltcg,
		Total:           total,
		EffectiveRate:   calc.Ratio(total, in.AnnualIncome),
		MarginalRate:    c.schedule.MarginalRate(in.AnnualIncome),
	}, nil
}
