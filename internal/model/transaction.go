package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxnType distinguishes money coming in from money going out.
type TxnType string

const (
	TxnIncome  TxnType = "income"
	TxnExpense TxnType = "expense"
)

// Valid reports whether t is one of the two known variants.
func (t TxnType) Valid() bool {
	return t == TxnIncome || t == TxnExpense
}

// ParseTxnType accepts "income" or "expense" in any case.
func ParseTxnType(s string) (TxnType, error) {
	t := TxnType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string // "YYYY-MM-NNN" in the CSV store, uuid elsewhere
	Type        TxnType
	Amount      decimal.Decimal // always >= 0; Type carries the sign
	Category    string
	Description string
	Date        time.Time
	Reference   string // bank reference for imported rows
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxnExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

var hundred = decimal.NewFromInt(100)

// Validate checks the record-level invariants every store enforces.
func (t Transaction) Validate() error {
	var errs []error
	if !t.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %q is not income or expense", t.Type))
	}
	if t.Amount.IsNegative() {
		errs = append(errs, fmt.Errorf("amount %s is negative", t.Amount))
	}
	if !t.Amount.Mul(hundred).Equal(t.Amount.Mul(hundred).Floor()) {
		errs = append(errs, fmt.Errorf("amount %s has more than 2 decimal places", t.Amount))
	}
	if strings.TrimSpace(t.Category) == "" {
		errs = append(errs, errors.New("category is required"))
	}
	if t.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	return errors.Join(errs...)
}
