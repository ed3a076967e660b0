// Package sqlitestore provides a SQLite-backed store.Repository.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateFormat = "2006-01-02"

// Store implements store.Repository on a single SQLite file.
type Store struct {
	db *sql.DB
}

var _ store.Repository = (*Store)(nil)

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY inside the process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func parseDec(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}

// execOne runs a DELETE and maps zero affected rows to ErrNotFound.
func (s *Store) execOne(ctx context.Context, what, rowID, query string) error {
	res, err := s.db.ExecContext(ctx, query, rowID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, rowID, store.ErrNotFound)
	}
	return nil
}

// AddTransaction validates and inserts t with a fresh ID.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid transaction: %w", err)
	}
	t.ID = id.New()

	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(txn_id, date, type, amount, category, description, reference)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.Format(dateFormat), string(t.Type), t.Amount.StringFixed(2),
		t.Category, t.Description, t.Reference,
	)
	if err != nil {
		return t, fmt.Errorf("inserting transaction: %w", err)
	}
	return t, nil
}

// Transactions queries with the filter pushed into SQL.
func (s *Store) Transactions(ctx context.Context, f store.Filter) ([]model.Transaction, error) {
	var where []string
	var args []any
	if f.Month != "" {
		where = append(where, "substr(date, 1, 7) = ?")
		args = append(args, f.Month)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.Format(dateFormat))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.To.Format(dateFormat))
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "lower(category) = lower(?)")
		args = append(args, f.Category)
	}

	query := "SELECT txn_id, date, type, amount, category, description, reference FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, txn_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, typ, amount string
		if err := rows.Scan(&t.ID, &dateStr, &typ, &amount, &t.Category, &t.Description, &t.Reference); err != nil {
			return nil, err
		}
		t.Type = model.TxnType(typ)
		if t.Date, err = parseDate("date", dateStr); err != nil {
			return nil, err
		}
		if t.Amount, err = parseDec("amount", amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Filter.Match uses the same semantics, so this only re-sorts.
	return f.Apply(out), nil
}

// DeleteTransaction removes a transaction by ID.
func (s *Store) DeleteTransaction(ctx context.Context, txnID string) error {
	return s.execOne(ctx, "transaction", txnID, "DELETE FROM transactions WHERE txn_id = ?")
}

// SaveGoal upserts g, rejecting a second goal for the same category that
// applies to an overlapping month.
func (s *Store) SaveGoal(ctx context.Context, g model.BudgetGoal) (model.BudgetGoal, error) {
	g, err := store.PrepareGoal(g)
	if err != nil {
		return g, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return g, err
	}
	defer func() { _ = tx.Rollback() }()

	var other string
	err = tx.QueryRowContext(ctx,
		`SELECT goal_id FROM goals WHERE category_key = ? AND goal_id <> ?
		AND (month = ? OR month = '' OR ? = '') LIMIT 1`,
		store.GoalKey(g), g.ID, g.Month, g.Month).Scan(&other)
	switch {
	case err == nil:
		return g, fmt.Errorf("goal %s %s: %w", g.Category, g.Month, store.ErrDuplicateGoal)
	case !errors.Is(err, sql.ErrNoRows):
		return g, fmt.Errorf("checking goals: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO goals
		(goal_id, category, category_key, monthly_limit, month) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Category, store.GoalKey(g), g.MonthlyLimit.String(), g.Month)
	if err != nil {
		return g, fmt.Errorf("saving goal: %w", err)
	}
	return g, tx.Commit()
}

// Goals returns every budget goal.
func (s *Store) Goals(ctx context.Context) ([]model.BudgetGoal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT goal_id, category, monthly_limit, month FROM goals")
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.BudgetGoal
	for rows.Next() {
		var g model.BudgetGoal
		var limit string
		if err := rows.Scan(&g.ID, &g.Category, &limit, &g.Month); err != nil {
			return nil, err
		}
		if g.MonthlyLimit, err = parseDec("monthly_limit", limit); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortGoals(out)
	return out, nil
}

// DeleteGoal removes a goal by ID.
func (s *Store) DeleteGoal(ctx context.Context, goalID string) error {
	return s.execOne(ctx, "goal", goalID, "DELETE FROM goals WHERE goal_id = ?")
}

// SaveHolding upserts h.
func (s *Store) SaveHolding(ctx context.Context, h model.CryptoHolding) (model.CryptoHolding, error) {
	h, err := store.PrepareHolding(h)
	if err != nil {
		return h, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO holdings
		(holding_id, symbol, amount, purchase_price, current_price, change_24h) VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.Symbol, h.Amount.String(), h.PurchasePrice.String(), h.CurrentPrice.String(), h.Change24h.String())
	if err != nil {
		return h, fmt.Errorf("saving holding: %w", err)
	}
	return h, nil
}

// Holdings returns every crypto holding.
func (s *Store) Holdings(ctx context.Context) ([]model.CryptoHolding, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT holding_id, symbol, amount, purchase_price, current_price, change_24h FROM holdings")
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CryptoHolding
	for rows.Next() {
		var h model.CryptoHolding
		var amount, purchase, current, change string
		if err := rows.Scan(&h.ID, &h.Symbol, &amount, &purchase, &current, &change); err != nil {
			return nil, err
		}
		if h.Amount, err = parseDec("amount", amount); err != nil {
			return nil, err
		}
		if h.PurchasePrice, err = parseDec("purchase_price", purchase); err != nil {
			return nil, err
		}
		if h.CurrentPrice, err = parseDec("current_price", current); err != nil {
			return nil, err
		}
		if h.Change24h, err = parseDec("change_24h", change); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortHoldings(out)
	return out, nil
}

// DeleteHolding removes a holding by ID.
func (s *Store) DeleteHolding(ctx context.Context, holdingID string) error {
	return s.execOne(ctx, "holding", holdingID, "DELETE FROM holdings WHERE holding_id = ?")
}

// SavePlan upserts p.
func (s *Store) SavePlan(ctx context.Context, p model.SIPPlan) (model.SIPPlan, error) {
	p, err := store.PreparePlan(p)
	if err != nil {
		return p, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO plans
		(plan_id, monthly_amount, expected_return_pct, tenure_years) VALUES (?, ?, ?, ?)`,
		p.ID, p.MonthlyAmount.String(), p.ExpectedAnnualReturnPercent.String(), p.TenureYears)
	if err != nil {
		return p, fmt.Errorf("saving plan: %w", err)
	}
	return p, nil
}

// Plans returns every saved SIP plan.
func (s *Store) Plans(ctx context.Context) ([]model.SIPPlan, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT plan_id, monthly_amount, expected_return_pct, tenure_years FROM plans")
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SIPPlan
	for rows.Next() {
		var p model.SIPPlan
		var amount, rate string
		if err := rows.Scan(&p.ID, &amount, &rate, &p.TenureYears); err != nil {
			return nil, err
		}
		if p.MonthlyAmount, err = parseDec("monthly_amount", amount); err != nil {
			return nil, err
		}
		if p.ExpectedAnnualReturnPercent, err = parseDec("expected_return_pct", rate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortPlans(out)
	return out, nil
}

// DeletePlan removes a plan by ID.
func (s *Store) DeletePlan(ctx context.Context, planID string) error {
	return s.execOne(ctx, "plan", planID, "DELETE FROM plans WHERE plan_id = ?")
}

// SaveReminder upserts r.
func (s *Store) SaveReminder(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	r, err := store.PrepareReminder(r)
	if err != nil {
		return r, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO reminders
		(reminder_id, title, due_date, amount, kind) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.DueDate.Format(dateFormat), r.Amount.String(), string(r.Kind))
	if err != nil {
		return r, fmt.Errorf("saving reminder: %w", err)
	}
	return r, nil
}

// Reminders returns every reminder ordered by due date.
func (s *Store) Reminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT reminder_id, title, due_date, amount, kind FROM reminders")
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var due, amount, kind string
		if err := rows.Scan(&r.ID, &r.Title, &due, &amount, &kind); err != nil {
			return nil, err
		}
		r.Kind = model.ReminderKind(kind)
		if r.DueDate, err = parseDate("due_date", due); err != nil {
			return nil, err
		}
		if r.Amount, err = parseDec("amount", amount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortReminders(out)
	return out, nil
}

// DeleteReminder removes a reminder by ID.
func (s *Store) DeleteReminder(ctx context.Context, reminderID string) error {
	return s.execOne(ctx, "reminder", reminderID, "DELETE FROM reminders WHERE reminder_id = ?")
}
