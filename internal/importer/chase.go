package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ChaseParser parses Chase checking CSV exports. Amounts are signed and
// columns are located by header name, so reordered exports still parse.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// chaseColumns maps the header names Chase uses to the fields we read.
// The slip column is optional.
var chaseColumns = struct {
	date, desc, amount, kind, slip string
}{"posting date", "description", "amount", "type", "check or slip #"}

type chaseLayout struct {
	date, desc, amount, kind, slip int
}

func chaseHeader(header []string) (chaseLayout, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}
	l := chaseLayout{
		date:   col(chaseColumns.date),
		desc:   col(chaseColumns.desc),
		amount: col(chaseColumns.amount),
		kind:   col(chaseColumns.kind),
		slip:   col(chaseColumns.slip),
	}
	for name, i := range map[string]int{
		chaseColumns.date: l.date, chaseColumns.desc: l.desc, chaseColumns.amount: l.amount,
	} {
		if i < 0 {
			return l, fmt.Errorf("missing %q column", name)
		}
	}
	return l, nil
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns BankTransactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	layout, err := chaseHeader(records[0])
	if err != nil {
		return nil, fmt.Errorf("chase header: %w", err)
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		txn, err := layout.row(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (l chaseLayout) field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (l chaseLayout) row(rec []string) (model.BankTransaction, error) {
	raw := l.field(rec, l.date)
	date, err := time.Parse(chaseDateFormat, raw)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}
	amount, err := parseAmount("amount", l.field(rec, l.amount))
	if err != nil {
		return model.BankTransaction{}, err
	}

	desc := l.field(rec, l.desc)
	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   statementRef("chase", l.field(rec, l.slip), date, desc),
		Type:        l.field(rec, l.kind),
	}, nil
}
