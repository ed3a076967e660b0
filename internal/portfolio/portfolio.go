// Package portfolio values crypto holdings against a price snapshot.
package portfolio

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/calc"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Position is one holding with its derived figures.
type Position struct {
	Holding     model.CryptoHolding
	Value       decimal.Decimal
	Cost        decimal.Decimal
	Gain        decimal.Decimal
	GainPercent decimal.Decimal // 0 when cost is 0
}

// Summary totals a set of positions.
type Summary struct {
	Positions      []Position
	TotalValue     decimal.Decimal
	TotalCost      decimal.Decimal
	UnrealizedGain decimal.Decimal
	GainPercent    decimal.Decimal
	AvgChange24h   decimal.Decimal // simple mean across positions
}

// Value computes positions and totals. Positions are ordered by value,
// largest first.
func Value(holdings []model.CryptoHolding) Summary {
	var s Summary
	changeSum := decimal.Zero
	for _, h := range holdings {
		p := Position{
			Holding: h,
			Value:   h.Value(),
			Cost:    h.Cost(),
			Gain:    h.UnrealizedGain(),
		}
		p.GainPercent = calc.Percent(p.Gain, p.Cost)
		s.Positions = append(s.Positions, p)

		s.TotalValue = s.TotalValue.Add(p.Value)
		s.TotalCost = s.TotalCost.Add(p.Cost)
		changeSum = changeSum.Add(h.Change24h)
	}
	s.UnrealizedGain = s.TotalValue.Sub(s.TotalCost)
	s.GainPercent = calc.Percent(s.UnrealizedGain, s.TotalCost)
	s.AvgChange24h = calc.Ratio(changeSum, decimal.NewFromInt(int64(len(holdings))))

	sort.SliceStable(s.Positions, func(i, j int) bool {
		return s.Positions[i].Value.GreaterThan(s.Positions[j].Value)
	})
	return s
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Apply returns copies of holdings with prices from quotes. Holdings
// without a quote keep their last known price.
func Apply(holdings []model.CryptoHolding, quotes map[string]Quote) []model.CryptoHolding {
	out := make([]model.CryptoHolding, len(holdings))
	for i, h := range holdings {
		if q, ok := quotes[NormalizeSymbol(h.Symbol)]; ok {
			h.CurrentPrice = q.Price
			h.Change24h = q.Change24h
		}
		out[i] = h
	}
	return out
}

// Symbols lists the distinct normalized symbols held, sorted.
func Symbols(holdings []model.CryptoHolding) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range holdings {
		sym := NormalizeSymbol(h.Symbol)
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
