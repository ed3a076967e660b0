package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// HDFCParser parses HDFC Bank savings statement CSVs, which carry
// separate withdrawal and deposit columns and Indian digit grouping.
type HDFCParser struct{}

const (
	hdfcNumFields   = 7
	hdfcColDate     = 0
	hdfcColNarr     = 1
	hdfcColRef      = 2
	hdfcColWithdraw = 4
	hdfcColDeposit  = 5
)

// hdfcDateFormats are tried in order; exports use two-digit years but
// older statements spell the year out.
var hdfcDateFormats = []string{"02/01/06", "02/01/2006"}

// Format returns the parser name.
func (p *HDFCParser) Format() string { return "hdfc" }

// Parse reads an HDFC statement CSV and returns BankTransactions.
func (p *HDFCParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = hdfcNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading hdfc CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := parseHDFCRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseHDFCDate(s string) (time.Time, error) {
	var err error
	for _, layout := range hdfcDateFormats {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
}

func parseHDFCRow(rec []string) (model.BankTransaction, error) {
	date, err := parseHDFCDate(rec[hdfcColDate])
	if err != nil {
		return model.BankTransaction{}, err
	}
	withdrawal, err := parseAmount("withdrawal", rec[hdfcColWithdraw])
	if err != nil {
		return model.BankTransaction{}, err
	}
	deposit, err := parseAmount("deposit", rec[hdfcColDeposit])
	if err != nil {
		return model.BankTransaction{}, err
	}

	desc := strings.TrimSpace(rec[hdfcColNarr])

	typ := "DEPOSIT"
	if withdrawal.IsPositive() {
		typ = "WITHDRAWAL"
	}
	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      deposit.Sub(withdrawal),
		Reference:   statementRef("hdfc", rec[hdfcColRef], date, desc),
		Type:        typ,
	}, nil
}
