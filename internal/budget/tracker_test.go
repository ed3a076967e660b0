package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alert(category string, status Status) Alert {
	return Alert{Category: category, Status: status}
}

func TestTracker_FiresOncePerCrossing(t *testing.T) {
	tr := NewTracker()

	fresh := tr.Filter([]Alert{alert("Food", StatusNearLimit)})
	require.Len(t, fresh, 1)

	// Same state on the next tick: nothing new.
	assert.Empty(t, tr.Filter([]Alert{alert("Food", StatusNearLimit)}))

	// Escalation is a new key.
	fresh = tr.Filter([]Alert{alert("Food", StatusOverBudget)})
	require.Len(t, fresh, 1)
	assert.Equal(t, StatusOverBudget, fresh[0].Status)

	// Back to normal, then crossing again fires again.
	assert.Empty(t, tr.Filter(nil))
	fresh = tr.Filter([]Alert{alert("Food", StatusOverBudget)})
	assert.Len(t, fresh, 1)
}

func TestTracker_IndependentCategories(t *testing.T) {
	tr := NewTracker()
	tr.Filter([]Alert{alert("Food", StatusNearLimit)})
	fresh := tr.Filter([]Alert{alert("Food", StatusNearLimit), alert("Rent", StatusOverBudget)})
	require.Len(t, fresh, 1)
	assert.Equal(t, "Rent", fresh[0].Category)
}

func TestTracker_SnapshotRestore(t *testing.T) {
	tr := NewTracker()
	tr.Filter([]Alert{alert("Shopping", StatusOverBudget), alert("Food", StatusNearLimit)})

	snap := tr.Snapshot()
	assert.Equal(t, []Key{
		{Category: "Food", Status: StatusNearLimit},
		{Category: "Shopping", Status: StatusOverBudget},
	}, snap)

	restored := NewTracker()
	restored.Restore(snap)
	assert.Empty(t, restored.Filter([]Alert{alert("Shopping", StatusOverBudget), alert("Food", StatusNearLimit)}))
}
