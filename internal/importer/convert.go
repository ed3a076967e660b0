package importer

import (
	"fmt"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Converted is the outcome of turning bank rows into transactions.
type Converted struct {
	Transactions  []model.Transaction
	Uncategorized int // rows that fell back to a default category
	Skipped       int // zero-amount rows
}

// Convert maps signed bank rows to income and expense transactions.
// References repeated within the batch get a numeric suffix.
func Convert(bank []model.BankTransaction, rules Rules) Converted {
	var out Converted
	seen := make(map[string]int)
	for _, b := range bank {
		if b.Amount.IsZero() {
			out.Skipped++
			continue
		}

		typ := model.TxnIncome
		if b.Amount.IsNegative() {
			typ = model.TxnExpense
		}
		category, matched := rules.Categorize(b.Description, typ)
		if !matched {
			out.Uncategorized++
		}

		ref := b.Reference
		seen[ref]++
		if n := seen[ref]; n > 1 {
			ref = fmt.Sprintf("%s_%d", ref, n)
		}

		out.Transactions = append(out.Transactions, model.Transaction{
			Type:        typ,
			Amount:      b.Amount.Abs(),
			Category:    category,
			Description: strings.TrimSpace(b.Description),
			Date:        b.Date,
			Reference:   ref,
		})
	}
	return out
}

// Dedupe drops transactions whose reference is already present in
// existing. Transactions without a reference are always kept.
func Dedupe(txns, existing []model.Transaction) (fresh []model.Transaction, dupes int) {
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		if e.Reference != "" {
			known[e.Reference] = true
		}
	}
	for _, t := range txns {
		if t.Reference != "" && known[t.Reference] {
			dupes++
			continue
		}
		fresh = append(fresh, t)
	}
	return fresh, dupes
}
