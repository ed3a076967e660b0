// Package alertlog records fired budget alerts and the tracker state that
// decides whether an alert is new.
package alertlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/budget"
)

// Entry is one row in the alert log.
type Entry struct {
	Timestamp  time.Time
	Month      string
	Category   string
	Status     budget.Status
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Percentage decimal.Decimal
}

// FromAlert builds a log entry for an alert fired at ts.
func FromAlert(ts time.Time, month string, a budget.Alert) Entry {
	return Entry{
		Timestamp:  ts,
		Month:      month,
		Category:   a.Category,
		Status:     a.Status,
		Spent:      a.Spent,
		Limit:      a.Limit,
		Percentage: a.Percentage,
	}
}

// Header is the CSV header for alert-log.csv.
const Header = "timestamp,month,category,status,spent,limit,percentage"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/alert-log.csv"
	colTimestamp  = 0
	colMonth      = 1
	colCategory   = 2
	colStatus     = 3
	colSpent      = 4
	colLimit      = 5
	colPercentage = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colMonth] = e.Month
	row[colCategory] = e.Category
	row[colStatus] = string(e.Status)
	row[colSpent] = e.Spent.StringFixed(2)
	row[colLimit] = e.Limit.StringFixed(2)
	row[colPercentage] = e.Percentage.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		Month:     record[colMonth],
		Category:  record[colCategory],
		Status:    budget.Status(record[colStatus]),
	}
	for _, f := range []struct {
		name string
		col  int
		dst  *decimal.Decimal
	}{
		{"spent", colSpent, &e.Spent},
		{"limit", colLimit, &e.Limit},
		{"percentage", colPercentage, &e.Percentage},
	} {
		d, err := decimal.NewFromString(record[f.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", f.name, record[f.col], err)
		}
		*f.dst = d
	}
	return e, nil
}

// Append writes entries to <root>/logs/alert-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/alert-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading alert log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
