package budget

import "sort"

// Key identifies an alert state.
type Key struct {
	Category string
	Status   Status
}

// Tracker remembers which (category, status) pairs were alerting on the
// previous pass so a caller notifies once per threshold crossing.
type Tracker struct {
	active map[Key]bool
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[Key]bool)}
}

// Filter returns the alerts that are new since the previous call and
// replaces the remembered state with the current alerts. A category that
// drops back to normal and later crosses again is reported again.
func (t *Tracker) Filter(alerts []Alert) []Alert {
	next := make(map[Key]bool, len(alerts))
	var fresh []Alert
	for _, a := range alerts {
		k := Key{Category: a.Category, Status: a.Status}
		next[k] = true
		if !t.active[k] {
			fresh = append(fresh, a)
		}
	}
	t.active = next
	return fresh
}

// Snapshot returns the active keys sorted by category then status.
func (t *Tracker) Snapshot() []Key {
	keys := make([]Key, 0, len(t.active))
	for k := range t.active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Status < keys[j].Status
	})
	return keys
}

// Restore replaces the active state with keys.
func (t *Tracker) Restore(keys []Key) {
	t.active = make(map[Key]bool, len(keys))
	for _, k := range keys {
		t.active[k] = true
	}
}
