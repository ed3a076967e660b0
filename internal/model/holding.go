package model

import "github.com/shopspring/decimal"

// CryptoHolding is a quantity of one coin bought at a known price.
type CryptoHolding struct {
	ID            string
	Symbol        string
	Amount        decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Change24h     decimal.Decimal // percent, as reported by the price source
}

// UnrealizedGain is (current - purchase) * amount. It may be negative.
func (h CryptoHolding) UnrealizedGain() decimal.Decimal {
	return h.CurrentPrice.Sub(h.PurchasePrice).Mul(h.Amount)
}

// Value is the holding's worth at the current price.
func (h CryptoHolding) Value() decimal.Decimal {
	return h.CurrentPrice.Mul(h.Amount)
}

// Cost is what the holding cost to acquire.
func (h CryptoHolding) Cost() decimal.Decimal {
	return h.PurchasePrice.Mul(h.Amount)
}
