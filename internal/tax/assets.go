package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// CryptoGainsTax applies a flat rate to each holding's unrealized gain.
// Losses contribute zero and are never netted against other gains.
func CryptoGainsTax(holdings []model.CryptoHolding, flatRatePercent decimal.Decimal) (decimal.Decimal, error) {
	if err := calc.NonNegative("cryptoRatePercent", flatRatePercent); err != nil {
		return decimal.Zero, err
	}
	gains, err := TaxableCryptoGains(holdings)
	if err != nil {
		return decimal.Zero, err
	}
	return calc.Money(gains.Mul(calc.FromPercent(flatRatePercent))), nil
}

// TaxableCryptoGains sums the positive per-holding gains.
func TaxableCryptoGains(holdings []model.CryptoHolding) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, h := range holdings {
		if h.Amount.IsNegative() {
			return decimal.Zero, calc.Invalid(fmt.Sprintf("holdings[%d].amount", i), h.Amount, "must not be negative")
		}
		total = total.Add(calc.MaxZero(h.UnrealizedGain()))
	}
	return total, nil
}

// CapitalGainsTax taxes long-term gains above an exemption threshold.
func CapitalGainsTax(gains, exemption, ratePercent decimal.Decimal) (decimal.Decimal, error) {
	if err := calc.NonNegative("ltcgExemption", exemption); err != nil {
		return decimal.Zero, err
	}
	if err := calc.NonNegative("ltcgRatePercent", ratePercent); err != nil {
		return decimal.Zero, err
	}
	taxable := calc.MaxZero(gains.Sub(exemption))
	return calc.Money(taxable.Mul(calc.FromPercent(ratePercent))), nil
}
