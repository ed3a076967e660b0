package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	reminders := []model.Reminder{
		{ID: "late", DueDate: date(2025, 6, 9)},
		{ID: "edge", DueDate: date(2025, 6, 17)},
		{ID: "today", DueDate: date(2025, 6, 10)},
		{ID: "far", DueDate: date(2025, 6, 18)},
		{ID: "soon", DueDate: date(2025, 6, 12)},
	}
	got := Upcoming(reminders, now, DefaultWindowDays)
	require.Len(t, got, 3)
	assert.Equal(t, "today", got[0].ID)
	assert.Equal(t, "soon", got[1].ID)
	assert.Equal(t, "edge", got[2].ID)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysUntil(model.Reminder{DueDate: date(2025, 6, 12)}, now))
	assert.Equal(t, 0, DaysUntil(model.Reminder{DueDate: date(2025, 6, 10)}, now))
}
