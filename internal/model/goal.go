package model

import "github.com/shopspring/decimal"

// BudgetGoal caps monthly spend for one category.
type BudgetGoal struct {
	ID           string
	Category     string
	MonthlyLimit decimal.Decimal
	Month        string // "YYYY-MM"; empty applies to every month
}
