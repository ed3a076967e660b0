// Package calc holds the numeric primitives shared by the projection, tax,
// budget and aggregation packages.
package calc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept by intermediate
// divisions and powers.
const Precision = 18

// ErrInvalidParameter is the sentinel wrapped by every ParamError.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError reports a caller-supplied value that violates a precondition.
type ParamError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

// Invalid builds a ParamError.
func Invalid(field string, value any, reason string) error {
	v := ""
	if value != nil {
		v = fmt.Sprint(value)
	}
	return &ParamError{Field: field, Value: v, Reason: reason}
}

// NonNegative rejects v < 0.
func NonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return Invalid(field, v, "must not be negative")
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// Hundred is the constant 100.
func Hundred() decimal.Decimal { return hundred }

// Ratio returns num/den, or zero when den <= 0. A missing denominator
// means "no data yet", not a caller error.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.DivRound(den, Precision)
}

// Percent returns num/den*100 with the same zero guard as Ratio.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Mul(hundred).DivRound(den, Precision)
}

// FromPercent converts a percentage like 12.5 to the fraction 0.125.
func FromPercent(p decimal.Decimal) decimal.Decimal {
	return p.DivRound(hundred, Precision)
}

// Pow raises base to a non-negative integer power by repeated squaring,
// rounding every intermediate product to Precision places.
func Pow(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b).Round(Precision)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b).Round(Precision)
		}
	}
	return result
}

// Money rounds a value to two decimal places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MaxZero returns d, or zero when d is negative.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
