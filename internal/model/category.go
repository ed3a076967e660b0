package model

// Category is a row in categories.csv.
type Category struct {
	Name        string
	Type        TxnType
	Description string
}
