package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderKind classifies what a reminder is for.
type ReminderKind string

const (
	ReminderBill       ReminderKind = "bill"
	ReminderInvestment ReminderKind = "investment"
	ReminderOther      ReminderKind = "other"
)

// Reminder is a dated prompt to pay or invest.
type Reminder struct {
	ID      string
	Title   string
	DueDate time.Time
	Amount  decimal.Decimal // zero when not specified
	Kind    ReminderKind
}

// Valid reports whether k is a known kind.
func (k ReminderKind) Valid() bool {
	switch k {
	case ReminderBill, ReminderInvestment, ReminderOther:
		return true
	}
	return false
}
