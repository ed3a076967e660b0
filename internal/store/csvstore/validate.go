package csvstore

import (
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Invariants checked by ValidateMonth.
const (
	InvType     = 1 // income or expense
	InvAmount   = 2 // non-negative, at most 2 decimal places
	InvCategory = 3 // known category
	InvDate     = 4 // dated inside the file's month
	InvID       = 5 // well-formed, in this month, unique and increasing
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	TxnID       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TxnID, e.Description)
}

// CategoryChecker tests whether a category name exists.
type CategoryChecker interface {
	Exists(name string) bool
}

// ValidateMonth enforces the month file invariants. A nil checker skips
// the category check.
func ValidateMonth(txns []model.Transaction, cats CategoryChecker, year, month int) []ValidationError {
	var errs []ValidationError

	for _, t := range txns {
		if !t.Type.Valid() {
			errs = append(errs, ValidationError{
				Invariant:   InvType,
				TxnID:       t.ID,
				Description: fmt.Sprintf("type %q is not income or expense", t.Type),
			})
		}

		if t.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   InvAmount,
				TxnID:       t.ID,
				Description: fmt.Sprintf("amount %s is negative", t.Amount),
			})
		}
		if !t.Amount.Equal(t.Amount.Truncate(2)) {
			errs = append(errs, ValidationError{
				Invariant:   InvAmount,
				TxnID:       t.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", t.Amount),
			})
		}

		if cats != nil && !cats.Exists(t.Category) {
			errs = append(errs, ValidationError{
				Invariant:   InvCategory,
				TxnID:       t.ID,
				Description: fmt.Sprintf("unknown category %q", t.Category),
			})
		}

		if t.Date.Year() != year || int(t.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   InvDate,
				TxnID:       t.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", t.Date.Format(dateFormat), year, month),
			})
		}
	}

	// Deletions leave gaps, so sequences only need to increase.
	lastSeq := 0
	for _, t := range txns {
		y, m, seq, err := id.ParseTxnID(t.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   InvID,
				TxnID:       t.ID,
				Description: fmt.Sprintf("invalid transaction ID: %v", err),
			})
			continue
		}
		if y != year || m != month {
			errs = append(errs, ValidationError{
				Invariant:   InvID,
				TxnID:       t.ID,
				Description: fmt.Sprintf("ID belongs to %04d-%02d", y, m),
			})
		}
		if seq <= lastSeq {
			errs = append(errs, ValidationError{
				Invariant:   InvID,
				TxnID:       t.ID,
				Description: fmt.Sprintf("sequence %d does not follow %d", seq, lastSeq),
			})
			continue
		}
		lastSeq = seq
	}

	return errs
}
