// Package csvstore keeps fintrack data as plain CSV files: one
// transactions.csv per month under YYYY/MM/, plus flat files for goals,
// holdings, plans and reminders at the data root.
package csvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

const txnFile = "transactions.csv"

// Store implements store.Repository over a directory tree.
type Store struct {
	root string
	cats CategoryChecker

	mu sync.Mutex
}

var _ store.Repository = (*Store)(nil)

// Open returns a Store rooted at root, creating the directory if needed.
// cats may be nil to accept any category.
func Open(root string, cats CategoryChecker) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{root: root, cats: cats}, nil
}

// Root returns the data directory.
func (s *Store) Root() string { return s.root }

// Close is a no-op; every write is flushed immediately.
func (s *Store) Close() error { return nil }

// AddTransaction validates t against its month and appends it to the
// month's transactions.csv. Returns t with its ID.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return t, err
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	year, month := t.Date.Year(), int(t.Date.Month())
	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return t, err
	}

	t.ID = id.FormatTxnID(year, month, nextSeq(existing))

	all := append(existing, t)
	if verrs := ValidateMonth(all, s.cats, year, month); len(verrs) > 0 {
		return t, joinValidation(verrs)
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return t, fmt.Errorf("creating month dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return t, fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return t, fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendTransactions(f, []model.Transaction{t}); err != nil {
		return t, fmt.Errorf("appending transaction: %w", err)
	}
	return t, nil
}

func joinValidation(verrs []ValidationError) error {
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func nextSeq(txns []model.Transaction) int {
	maxSeq := 0
	for _, t := range txns {
		_, _, seq, err := id.ParseTxnID(t.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// Transactions reads every month file the filter can match.
func (s *Store) Transactions(ctx context.Context, f store.Filter) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, m := range months {
		if f.Month != "" && m.Key() != f.Month {
			continue
		}
		txns, err := s.ReadMonth(m.Year, m.Month)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return f.Apply(all), nil
}

// DeleteTransaction rewrites the owning month without id.
func (s *Store) DeleteTransaction(ctx context.Context, txnID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	year, month, _, err := id.ParseTxnID(txnID)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", txnID, store.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}
	kept := txns[:0]
	found := false
	for _, t := range txns {
		if t.ID == txnID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("transaction %s: %w", txnID, store.ErrNotFound)
	}
	return s.writeMonth(year, month, kept)
}

// MonthRef names one month directory.
type MonthRef struct {
	Year  int
	Month int
}

// Key returns "YYYY-MM".
func (m MonthRef) Key() string { return fmt.Sprintf("%04d-%02d", m.Year, m.Month) }

// Months lists the months that have a transactions file, oldest first.
func (s *Store) Months() ([]MonthRef, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", txnFile))
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}

	var out []MonthRef
	for _, path := range matches {
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		var m MonthRef
		if _, err := fmt.Sscanf(parts[0]+"-"+parts[1], "%04d-%02d", &m.Year, &m.Month); err != nil {
			continue
		}
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", path, err)
	}
	return txns, nil
}

// Check validates every month file and returns violations keyed by month.
func (s *Store) Check(ctx context.Context) (map[string][]ValidationError, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	months, err := s.Months()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]ValidationError)
	for _, m := range months {
		txns, err := s.ReadMonth(m.Year, m.Month)
		if err != nil {
			return nil, err
		}
		if verrs := ValidateMonth(txns, s.cats, m.Year, m.Month); len(verrs) > 0 {
			out[m.Key()] = verrs
		}
	}
	return out, nil
}

func (s *Store) writeMonth(year, month int, txns []model.Transaction) error {
	var b strings.Builder
	if err := WriteTransactions(&b, txns); err != nil {
		return err
	}
	return writeFileAtomic(s.monthPath(year, month), []byte(b.String()))
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), txnFile)
}

// SaveGoal inserts or replaces g in goals.csv.
func (s *Store) SaveGoal(ctx context.Context, g model.BudgetGoal) (model.BudgetGoal, error) {
	if err := ctx.Err(); err != nil {
		return g, err
	}
	g, err := store.PrepareGoal(g)
	if err != nil {
		return g, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := goalTable.read(s.root)
	if err != nil {
		return g, err
	}
	if err := store.CheckGoalConflict(goals, g); err != nil {
		return g, fmt.Errorf("goal %s %s: %w", g.Category, g.Month, err)
	}
	return g, goalTable.write(s.root, goalTable.upsert(goals, g))
}

// Goals returns every budget goal.
func (s *Store) Goals(ctx context.Context) ([]model.BudgetGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := goalTable.read(s.root)
	if err != nil {
		return nil, err
	}
	store.SortGoals(goals)
	return goals, nil
}

// DeleteGoal removes a goal by ID.
func (s *Store) DeleteGoal(ctx context.Context, goalID string) error {
	return deleteRow(ctx, s, goalTable, goalID)
}

// SaveHolding inserts or replaces h in holdings.csv.
func (s *Store) SaveHolding(ctx context.Context, h model.CryptoHolding) (model.CryptoHolding, error) {
	if err := ctx.Err(); err != nil {
		return h, err
	}
	h, err := store.PrepareHolding(h)
	if err != nil {
		return h, err
	}
	return h, saveRow(s, holdingTable, h)
}

// Holdings returns every crypto holding.
func (s *Store) Holdings(ctx context.Context) ([]model.CryptoHolding, error) {
	hs, err := readRows(ctx, s, holdingTable)
	store.SortHoldings(hs)
	return hs, err
}

// DeleteHolding removes a holding by ID.
func (s *Store) DeleteHolding(ctx context.Context, holdingID string) error {
	return deleteRow(ctx, s, holdingTable, holdingID)
}

// SavePlan inserts or replaces p in plans.csv.
func (s *Store) SavePlan(ctx context.Context, p model.SIPPlan) (model.SIPPlan, error) {
	if err := ctx.Err(); err != nil {
		return p, err
	}
	p, err := store.PreparePlan(p)
	if err != nil {
		return p, err
	}
	return p, saveRow(s, planTable, p)
}

// Plans returns every saved SIP plan.
func (s *Store) Plans(ctx context.Context) ([]model.SIPPlan, error) {
	ps, err := readRows(ctx, s, planTable)
	store.SortPlans(ps)
	return ps, err
}

// DeletePlan removes a plan by ID.
func (s *Store) DeletePlan(ctx context.Context, planID string) error {
	return deleteRow(ctx, s, planTable, planID)
}

// SaveReminder inserts or replaces r in reminders.csv.
func (s *Store) SaveReminder(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return r, err
	}
	r, err := store.PrepareReminder(r)
	if err != nil {
		return r, err
	}
	return r, saveRow(s, reminderTable, r)
}

// Reminders returns every reminder ordered by due date.
func (s *Store) Reminders(ctx context.Context) ([]model.Reminder, error) {
	rs, err := readRows(ctx, s, reminderTable)
	store.SortReminders(rs)
	return rs, err
}

// DeleteReminder removes a reminder by ID.
func (s *Store) DeleteReminder(ctx context.Context, reminderID string) error {
	return deleteRow(ctx, s, reminderTable, reminderID)
}

func saveRow[T any](s *Store, tb table[T], v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := tb.read(s.root)
	if err != nil {
		return err
	}
	return tb.write(s.root, tb.upsert(rows, v))
}

func readRows[T any](ctx context.Context, s *Store, tb table[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return tb.read(s.root)
}

func deleteRow[T any](ctx context.Context, s *Store, tb table[T], rowID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := tb.read(s.root)
	if err != nil {
		return err
	}
	rows, ok := tb.remove(rows, rowID)
	if !ok {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(tb.file, "s.csv"), rowID, store.ErrNotFound)
	}
	return tb.write(s.root, rows)
}
