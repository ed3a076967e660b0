package csvstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// table is a flat CSV file of one record type at the data root.
type table[T any] struct {
	file      string
	header    []string
	marshal   func(T) []string
	unmarshal func([]string) (T, error)
	id        func(T) string
}

func (tb table[T]) read(root string) ([]T, error) {
	path := filepath.Join(root, tb.file)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", tb.file, err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(tb.header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", tb.file, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []T
	for i, rec := range records[1:] {
		v, err := tb.unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", tb.file, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (tb table[T]) write(root string, rows []T) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(tb.header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, v := range rows {
		if err := cw.Write(tb.marshal(v)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(root, tb.file), buf.Bytes())
}

// upsert replaces the row with v's ID or appends v.
func (tb table[T]) upsert(rows []T, v T) []T {
	for i := range rows {
		if tb.id(rows[i]) == tb.id(v) {
			rows[i] = v
			return rows
		}
	}
	return append(rows, v)
}

// remove drops the row with the given ID.
func (tb table[T]) remove(rows []T, id string) ([]T, bool) {
	for i := range rows {
		if tb.id(rows[i]) == id {
			return append(rows[:i], rows[i+1:]...), true
		}
	}
	return rows, false
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func parseDec(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

var goalTable = table[model.BudgetGoal]{
	file:   "goals.csv",
	header: []string{"goal_id", "category", "monthly_limit", "month"},
	marshal: func(g model.BudgetGoal) []string {
		return []string{g.ID, g.Category, g.MonthlyLimit.StringFixed(2), g.Month}
	},
	unmarshal: func(rec []string) (model.BudgetGoal, error) {
		limit, err := parseDec("monthly_limit", rec[2])
		if err != nil {
			return model.BudgetGoal{}, err
		}
		return model.BudgetGoal{ID: rec[0], Category: rec[1], MonthlyLimit: limit, Month: rec[3]}, nil
	},
	id: func(g model.BudgetGoal) string { return g.ID },
}

var holdingTable = table[model.CryptoHolding]{
	file:   "holdings.csv",
	header: []string{"holding_id", "symbol", "amount", "purchase_price", "current_price", "change_24h"},
	marshal: func(h model.CryptoHolding) []string {
		return []string{h.ID, h.Symbol, h.Amount.String(), h.PurchasePrice.String(), h.CurrentPrice.String(), h.Change24h.String()}
	},
	unmarshal: func(rec []string) (model.CryptoHolding, error) {
		h := model.CryptoHolding{ID: rec[0], Symbol: rec[1]}
		var err error
		if h.Amount, err = parseDec("amount", rec[2]); err != nil {
			return h, err
		}
		if h.PurchasePrice, err = parseDec("purchase_price", rec[3]); err != nil {
			return h, err
		}
		if h.CurrentPrice, err = parseDec("current_price", rec[4]); err != nil {
			return h, err
		}
		if h.Change24h, err = parseDec("change_24h", rec[5]); err != nil {
			return h, err
		}
		return h, nil
	},
	id: func(h model.CryptoHolding) string { return h.ID },
}

var planTable = table[model.SIPPlan]{
	file:   "plans.csv",
	header: []string{"plan_id", "monthly_amount", "expected_return_pct", "tenure_years"},
	marshal: func(p model.SIPPlan) []string {
		return []string{p.ID, p.MonthlyAmount.String(), p.ExpectedAnnualReturnPercent.String(), strconv.Itoa(p.TenureYears)}
	},
	unmarshal: func(rec []string) (model.SIPPlan, error) {
		p := model.SIPPlan{ID: rec[0]}
		var err error
		if p.MonthlyAmount, err = parseDec("monthly_amount", rec[1]); err != nil {
			return p, err
		}
		if p.ExpectedAnnualReturnPercent, err = parseDec("expected_return_pct", rec[2]); err != nil {
			return p, err
		}
		if p.TenureYears, err = strconv.Atoi(rec[3]); err != nil {
			return p, fmt.Errorf("parsing tenure_years %q: %w", rec[3], err)
		}
		return p, nil
	},
	id: func(p model.SIPPlan) string { return p.ID },
}

var reminderTable = table[model.Reminder]{
	file:   "reminders.csv",
	header: []string{"reminder_id", "title", "due_date", "amount", "kind"},
	marshal: func(r model.Reminder) []string {
		amount := ""
		if !r.Amount.IsZero() {
			amount = r.Amount.StringFixed(2)
		}
		return []string{r.ID, r.Title, r.DueDate.Format(dateFormat), amount, string(r.Kind)}
	},
	unmarshal: func(rec []string) (model.Reminder, error) {
		due, err := time.Parse(dateFormat, rec[2])
		if err != nil {
			return model.Reminder{}, fmt.Errorf("parsing due_date %q: %w", rec[2], err)
		}
		amount, err := parseDec("amount", rec[3])
		if err != nil {
			return model.Reminder{}, err
		}
		return model.Reminder{ID: rec[0], Title: rec[1], DueDate: due, Amount: amount, Kind: model.ReminderKind(rec[4])}, nil
	},
	id: func(r model.Reminder) string { return r.ID },
}
