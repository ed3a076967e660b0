// Package tax computes progressive income tax and the asset-class taxes
// layered on top of it.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Schedule is a validated, gap-free slab table.
type Schedule struct {
	slabs []model.TaxSlab
}

func bounded(lower, upper, rate int64) model.TaxSlab {
	return model.TaxSlab{
		Lower:       decimal.NewFromInt(lower),
		Upper:       decimal.NullDecimal{Decimal: decimal.NewFromInt(upper), Valid: true},
		RatePercent: decimal.NewFromInt(rate),
	}
}

// DefaultSlabs returns the FY 2024-25 new-regime table.
func DefaultSlabs() []model.TaxSlab {
	return []model.TaxSlab{
		bounded(0, 300000, 0),
		bounded(300000, 700000, 5),
		bounded(700000, 1000000, 10),
		bounded(1000000, 1200000, 15),
		bounded(1200000, 1500000, 20),
		{Lower: decimal.NewFromInt(1500000), RatePercent: decimal.NewFromInt(30)},
	}
}

// DefaultSchedule is NewSchedule(DefaultSlabs()).
func DefaultSchedule() *Schedule {
	s, err := NewSchedule(DefaultSlabs())
	if err != nil {
		panic("default tax slabs are invalid: " + err.Error())
	}
	return s
}

// NewSchedule validates slabs: sorted ascending from zero, contiguous,
// non-negative rates, and only the last slab unbounded.
func NewSchedule(slabs []model.TaxSlab) (*Schedule, error) {
	if len(slabs) == 0 {
		return nil, calc.Invalid("slabs", nil, "table is empty")
	}
	if !slabs[0].Lower.IsZero() {
		return nil, calc.Invalid("slabs[0].lower", slabs[0].Lower, "first slab must start at 0")
	}
	for i, s := range slabs {
		field := fmt.Sprintf("slabs[%d]", i)
		if s.RatePercent.IsNegative() {
			return nil, calc.Invalid(field+".rate", s.RatePercent, "must not be negative")
		}
		last := i == len(slabs)-1
		if s.Unbounded() {
			if !last {
				return nil, calc.Invalid(field+".upper", nil, "only the last slab may be unbounded")
			}
			continue
		}
		if last {
			return nil, calc.Invalid(field+".upper", s.Upper.Decimal, "last slab must be unbounded")
		}
		if !s.Upper.Decimal.GreaterThan(s.Lower) {
			return nil, calc.Invalid(field+".upper", s.Upper.Decimal, "must be greater than lower bound")
		}
		if next := slabs[i+1].Lower; !next.Equal(s.Upper.Decimal) {
			return nil, calc.Invalid(fmt.Sprintf("slabs[%d].lower", i+1), next,
				fmt.Sprintf("must equal previous upper bound %s", s.Upper.Decimal))
		}
	}

	cp := make([]model.TaxSlab, len(slabs))
	copy(cp, slabs)
	return &Schedule{slabs: cp}, nil
}

// Slabs returns a copy of the table.
func (s *Schedule) Slabs() []model.TaxSlab {
	cp := make([]model.TaxSlab, len(s.slabs))
	copy(cp, s.slabs)
	return cp
}

// Tax walks the slabs in order, taxing the part of income that falls in
// each one at that slab's rate.
func (s *Schedule) Tax(income decimal.Decimal) (decimal.Decimal, error) {
	if err := calc.NonNegative("annualIncome", income); err != nil {
		return decimal.Zero, err
	}

	tax := decimal.Zero
	remaining := income
	for _, slab := range s.slabs {
		if !remaining.IsPositive() {
			break
		}
		inSlab := remaining
		if !slab.Unbounded() {
			inSlab = decimal.Min(remaining, slab.Upper.Decimal.Sub(slab.Lower))
		}
		tax = tax.Add(inSlab.Mul(slab.RatePercent).Div(calc.Hundred()))
		remaining = remaining.Sub(inSlab)
	}
	return calc.Money(tax), nil
}

// Cumulative computes the same liability in closed form: the full tax of
// every slab below the one containing income, plus the partial slab.
func (s *Schedule) Cumulative(income decimal.Decimal) (decimal.Decimal, error) {
	if err := calc.NonNegative("annualIncome", income); err != nil {
		return decimal.Zero, err
	}

	below := decimal.Zero
	for _, slab := range s.slabs {
		if slab.Unbounded() || income.LessThan(slab.Upper.Decimal) {
			partial := income.Sub(slab.Lower).Mul(slab.RatePercent).Div(calc.Hundred())
			return calc.Money(below.Add(partial)), nil
		}
		width := slab.Upper.Decimal.Sub(slab.Lower)
		below = below.Add(width.Mul(slab.RatePercent).Div(calc.Hundred()))
	}
	return calc.Money(below), nil
}

// MarginalRate is the percentage applied to the next unit of income.
func (s *Schedule) MarginalRate(income decimal.Decimal) decimal.Decimal {
	for _, slab := range s.slabs {
		if slab.Unbounded() || income.LessThan(slab.Upper.Decimal) {
			return slab.RatePercent
		}
	}
	return decimal.Zero
}

// TaxOnInterest taxes interest at the marginal rates base income already
// reaches: Tax(base+interest) - Tax(base).
func (s *Schedule) TaxOnInterest(base, interest decimal.Decimal) (decimal.Decimal, error) {
	if err := calc.NonNegative("interestIncome", interest); err != nil {
		return decimal.Zero, err
	}
	withInterest, err := s.Tax(base.Add(interest))
	if err != nil {
		return decimal.Zero, err
	}
	without, err := s.Tax(base)
	if err != nil {
		return decimal.Zero, err
	}
	return withInterest.Sub(without), nil
}
