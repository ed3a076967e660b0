package model

import "github.com/shopspring/decimal"

// SIPPlan describes a systematic investment plan.
type SIPPlan struct {
	ID                          string
	MonthlyAmount               decimal.Decimal
	ExpectedAnnualReturnPercent decimal.Decimal
	TenureYears                 int
}

// SavingsAccount is the starting point for a compound savings projection.
type SavingsAccount struct {
	CurrentBalance            decimal.Decimal
	AnnualInterestRatePercent decimal.Decimal
	MonthlyContribution       decimal.Decimal
}

// TaxSlab is one marginal-rate bracket. An invalid Upper means unbounded.
type TaxSlab struct {
	Lower       decimal.Decimal
	Upper       decimal.NullDecimal
	RatePercent decimal.Decimal
}

// Unbounded reports whether the slab extends to infinity.
func (s TaxSlab) Unbounded() bool {
	return !s.Upper.Valid
}
