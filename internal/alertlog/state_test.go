package alertlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/budget"
)

func TestTrackerStateSurvivesRuns(t *testing.T) {
	dir := t.TempDir()
	alert := budget.Alert{Category: "Shopping", Status: budget.StatusNearLimit}

	tr, err := LoadTracker(dir, "2025-04")
	require.NoError(t, err)
	assert.Len(t, tr.Filter([]budget.Alert{alert}), 1)
	require.NoError(t, SaveTracker(dir, "2025-04", tr))

	// Second run: same alert is not new.
	tr, err = LoadTracker(dir, "2025-04")
	require.NoError(t, err)
	assert.Empty(t, tr.Filter([]budget.Alert{alert}))

	// A different month has its own state.
	other, err := LoadTracker(dir, "2025-05")
	require.NoError(t, err)
	assert.Len(t, other.Filter([]budget.Alert{alert}), 1)
}

func TestSaveTrackerKeepsOtherMonths(t *testing.T) {
	dir := t.TempDir()

	april := budget.NewTracker()
	april.Restore([]budget.Key{{Category: "Food & Dining", Status: budget.StatusOverBudget}})
	require.NoError(t, SaveTracker(dir, "2025-04", april))

	may := budget.NewTracker()
	may.Restore([]budget.Key{{Category: "Shopping", Status: budget.StatusNearLimit}})
	require.NoError(t, SaveTracker(dir, "2025-05", may))

	got, err := LoadTracker(dir, "2025-04")
	require.NoError(t, err)
	assert.Equal(t, april.Snapshot(), got.Snapshot())

	got, err = LoadTracker(dir, "2025-05")
	require.NoError(t, err)
	assert.Equal(t, may.Snapshot(), got.Snapshot())
}
