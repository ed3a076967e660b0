package categories

import "github.com/fintrack-dev/fintrack/internal/model"

// DefaultChart returns the categories a new data directory starts with.
func DefaultChart() []model.Category {
	return []model.Category{
		{Name: "Salary", Type: model.TxnIncome, Description: "Employment income"},
		{Name: "Freelance", Type: model.TxnIncome, Description: "Contract and consulting work"},
		{Name: "Investment", Type: model.TxnIncome, Description: "Dividends, interest and realized gains"},
		{Name: "Other Income", Type: model.TxnIncome},
		{Name: "Food & Dining", Type: model.TxnExpense, Description: "Groceries and restaurants"},
		{Name: "Transportation", Type: model.TxnExpense, Description: "Fuel, transit and cabs"},
		{Name: "Shopping", Type: model.TxnExpense},
		{Name: "Entertainment", Type: model.TxnExpense, Description: "Movies, subscriptions and events"},
		{Name: "Bills & Utilities", Type: model.TxnExpense, Description: "Electricity, internet, phone and rent"},
		{Name: "Healthcare", Type: model.TxnExpense},
		{Name: "Other", Type: model.TxnExpense},
	}
}
