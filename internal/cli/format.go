// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rupee is the currency prefix used by FormatMoney.
const Rupee = "₹"

// GroupIndian inserts separators in the Indian style: the last three
// digits, then groups of two. e.g., 1234567 -> "12,34,567"
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// FormatAmount formats d to two places with Indian grouping.
// e.g., 1234567.5 -> "12,34,567.50"
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	out := GroupIndian(whole) + "." + frac
	if d.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

// FormatMoney is FormatAmount with the rupee prefix.
func FormatMoney(d decimal.Decimal) string {
	if d.Round(2).IsNegative() {
		return "-" + Rupee + FormatAmount(d.Abs())
	}
	return Rupee + FormatAmount(d)
}

// FormatWhole formats d rounded to whole rupees, for projections.
func FormatWhole(d decimal.Decimal) string {
	r := d.Round(0)
	out := Rupee + GroupIndian(r.Abs().String())
	if r.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercent formats a value already in percent, one decimal place.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatRate formats a 0-1 fraction as a percentage.
func FormatRate(f decimal.Decimal) string {
	return FormatPercent(f.Mul(decimal.NewFromInt(100)))
}

// FormatChange formats a percent change with an explicit sign.
func FormatChange(p decimal.Decimal) string {
	if p.IsNegative() {
		return FormatPercent(p)
	}
	return "+" + FormatPercent(p)
}
