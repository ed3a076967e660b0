package alertlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fintrack-dev/fintrack/internal/budget"
)

const stateFile = "logs/alert-state.csv"

var stateHeader = []string{"month", "category", "status"}

// LoadTracker returns a tracker primed with the alerts active for month
// on the previous run.
func LoadTracker(root, month string) (*budget.Tracker, error) {
	all, err := readState(root)
	if err != nil {
		return nil, err
	}
	t := budget.NewTracker()
	t.Restore(all[month])
	return t, nil
}

// SaveTracker persists the tracker's active alerts for month, leaving
// other months untouched.
func SaveTracker(root, month string, t *budget.Tracker) error {
	all, err := readState(root)
	if err != nil {
		return err
	}
	all[month] = t.Snapshot()

	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	f, err := os.Create(filepath.Join(root, stateFile))
	if err != nil {
		return fmt.Errorf("creating alert state: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(stateHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range sortedMonths(all) {
		for _, k := range all[m] {
			if err := cw.Write([]string{m, k.Category, string(k.Status)}); err != nil {
				return fmt.Errorf("writing state: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func readState(root string) (map[string][]budget.Key, error) {
	out := make(map[string][]budget.Key)
	f, err := os.Open(filepath.Join(root, stateFile))
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening alert state: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(stateHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading alert state: %w", err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		out[rec[0]] = append(out[rec[0]], budget.Key{Category: rec[1], Status: budget.Status(rec[2])})
	}
	return out, nil
}

func sortedMonths(m map[string][]budget.Key) []string {
	months := make([]string, 0, len(m))
	for k := range m {
		months = append(months, k)
	}
	sort.Strings(months)
	return months
}
