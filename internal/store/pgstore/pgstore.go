// Package pgstore provides a PostgreSQL-backed store.Repository for
// sharing one dataset between machines.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// DefaultDSNEnv is the variable read when the config names none.
const DefaultDSNEnv = "FINTRACK_DATABASE_URL"

// DSNFromEnv loads any .env files given (missing ones are skipped) and
// returns the connection string held in envVar.
func DSNFromEnv(envVar string, envFiles ...string) (string, error) {
	if envVar == "" {
		envVar = DefaultDSNEnv
	}
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return "", fmt.Errorf("loading env files: %w", err)
		}
	}

	dsn := os.Getenv(envVar)
	if dsn == "" {
		return "", fmt.Errorf("%s is not set", envVar)
	}
	return dsn, nil
}

// Store implements store.Repository on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Repository = (*Store)(nil)

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Reset empties every table. Used by tests against a scratch database.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE transactions, goals, holdings, plans, reminders")
	return err
}

func parseDec(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Store) deleteOne(ctx context.Context, what, rowID, query string) error {
	tag, err := s.pool.Exec(ctx, query, rowID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
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

	_, err := s.pool.Exec(ctx, `INSERT INTO transactions
		(txn_id, date, type, amount, category, description, reference)
		VALUES ($1, $2::date, $3, $4::numeric, $5, $6, $7)`,
		t.ID, t.Date.Format("2006-01-02"), string(t.Type), t.Amount.StringFixed(2),
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
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Month != "" {
		where = append(where, "to_char(date, 'YYYY-MM') = "+arg(f.Month))
	}
	if !f.From.IsZero() {
		where = append(where, "date >= "+arg(f.From.Format("2006-01-02"))+"::date")
	}
	if !f.To.IsZero() {
		where = append(where, "date <= "+arg(f.To.Format("2006-01-02"))+"::date")
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.Category != "" {
		where = append(where, "lower(category) = lower("+arg(f.Category)+")")
	}

	query := "SELECT txn_id, date, type, amount::text, category, description, reference FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var typ, amount string
		if err := rows.Scan(&t.ID, &t.Date, &typ, &amount, &t.Category, &t.Description, &t.Reference); err != nil {
			return nil, err
		}
		t.Date = utcDate(t.Date)
		t.Type = model.TxnType(typ)
		if t.Amount, err = parseDec("amount", amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return f.Apply(out), nil
}

// DeleteTransaction removes a transaction by ID.
func (s *Store) DeleteTransaction(ctx context.Context, txnID string) error {
	return s.deleteOne(ctx, "transaction", txnID, "DELETE FROM transactions WHERE txn_id = $1")
}

// SaveGoal upserts g, rejecting a second goal for the same category that
// applies to an overlapping month.
func (s *Store) SaveGoal(ctx context.Context, g model.BudgetGoal) (model.BudgetGoal, error) {
	g, err := store.PrepareGoal(g)
	if err != nil {
		return g, err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var other string
		err := tx.QueryRow(ctx,
			`SELECT goal_id FROM goals WHERE lower(category) = $1 AND goal_id <> $2
			AND (month = $3 OR month = '' OR $3 = '') LIMIT 1`,
			store.GoalKey(g), g.ID, g.Month).Scan(&other)
		switch {
		case err == nil:
			return fmt.Errorf("goal %s %s: %w", g.Category, g.Month, store.ErrDuplicateGoal)
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("checking goals: %w", err)
		}

		_, err = tx.Exec(ctx, `INSERT INTO goals (goal_id, category, monthly_limit, month)
			VALUES ($1, $2, $3::numeric, $4)
			ON CONFLICT (goal_id) DO UPDATE
			SET category = EXCLUDED.category, monthly_limit = EXCLUDED.monthly_limit, month = EXCLUDED.month`,
			g.ID, strings.TrimSpace(g.Category), g.MonthlyLimit.String(), g.Month)
		if err != nil {
			return fmt.Errorf("saving goal: %w", err)
		}
		return nil
	})
	return g, err
}

// Goals returns every budget goal.
func (s *Store) Goals(ctx context.Context) ([]model.BudgetGoal, error) {
	rows, err := s.pool.Query(ctx, "SELECT goal_id, category, monthly_limit::text, month FROM goals")
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

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
	return s.deleteOne(ctx, "goal", goalID, "DELETE FROM goals WHERE goal_id = $1")
}

// SaveHolding upserts h.
func (s *Store) SaveHolding(ctx context.Context, h model.CryptoHolding) (model.CryptoHolding, error) {
	h, err := store.PrepareHolding(h)
	if err != nil {
		return h, err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO holdings
		(holding_id, symbol, amount, purchase_price, current_price, change_24h)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::numeric)
		ON CONFLICT (holding_id) DO UPDATE
		SET symbol = EXCLUDED.symbol, amount = EXCLUDED.amount,
		    purchase_price = EXCLUDED.purchase_price, current_price = EXCLUDED.current_price,
		    change_24h = EXCLUDED.change_24h`,
		h.ID, h.Symbol, h.Amount.String(), h.PurchasePrice.String(), h.CurrentPrice.String(), h.Change24h.String())
	if err != nil {
		return h, fmt.Errorf("saving holding: %w", err)
	}
	return h, nil
}

// Holdings returns every crypto holding.
func (s *Store) Holdings(ctx context.Context) ([]model.CryptoHolding, error) {
	rows, err := s.pool.Query(ctx, `SELECT holding_id, symbol, amount::text, purchase_price::text,
		current_price::text, change_24h::text FROM holdings`)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

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
	return s.deleteOne(ctx, "holding", holdingID, "DELETE FROM holdings WHERE holding_id = $1")
}

// SavePlan upserts p.
func (s *Store) SavePlan(ctx context.Context, p model.SIPPlan) (model.SIPPlan, error) {
	p, err := store.PreparePlan(p)
	if err != nil {
		return p, err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO plans (plan_id, monthly_amount, expected_return_pct, tenure_years)
		VALUES ($1, $2::numeric, $3::numeric, $4)
		ON CONFLICT (plan_id) DO UPDATE
		SET monthly_amount = EXCLUDED.monthly_amount, expected_return_pct = EXCLUDED.expected_return_pct,
		    tenure_years = EXCLUDED.tenure_years`,
		p.ID, p.MonthlyAmount.String(), p.ExpectedAnnualReturnPercent.String(), p.TenureYears)
	if err != nil {
		return p, fmt.Errorf("saving plan: %w", err)
	}
	return p, nil
}

// Plans returns every saved SIP plan.
func (s *Store) Plans(ctx context.Context) ([]model.SIPPlan, error) {
	rows, err := s.pool.Query(ctx, "SELECT plan_id, monthly_amount::text, expected_return_pct::text, tenure_years FROM plans")
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var out []model.SIPPlan
	for rows.Next() {
		var p model.SIPPlan
		var amount, rate string
		var tenure int32
		if err := rows.Scan(&p.ID, &amount, &rate, &tenure); err != nil {
			return nil, err
		}
		p.TenureYears = int(tenure)
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
	return s.deleteOne(ctx, "plan", planID, "DELETE FROM plans WHERE plan_id = $1")
}

// SaveReminder upserts r.
func (s *Store) SaveReminder(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	r, err := store.PrepareReminder(r)
	if err != nil {
		return r, err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO reminders (reminder_id, title, due_date, amount, kind)
		VALUES ($1, $2, $3::date, $4::numeric, $5)
		ON CONFLICT (reminder_id) DO UPDATE
		SET title = EXCLUDED.title, due_date = EXCLUDED.due_date, amount = EXCLUDED.amount, kind = EXCLUDED.kind`,
		r.ID, r.Title, r.DueDate.Format("2006-01-02"), r.Amount.String(), string(r.Kind))
	if err != nil {
		return r, fmt.Errorf("saving reminder: %w", err)
	}
	return r, nil
}

// Reminders returns every reminder ordered by due date.
func (s *Store) Reminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.pool.Query(ctx, "SELECT reminder_id, title, due_date, amount::text, kind FROM reminders")
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var amount, kind string
		if err := rows.Scan(&r.ID, &r.Title, &r.DueDate, &amount, &kind); err != nil {
			return nil, err
		}
		r.DueDate = utcDate(r.DueDate)
		r.Kind = model.ReminderKind(kind)
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
	return s.deleteOne(ctx, "reminder", reminderID, "DELETE FROM reminders WHERE reminder_id = $1")
}
