// Package reminder selects reminders that are coming due.
package reminder

import (
	"sort"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// DefaultWindowDays is how far ahead Upcoming looks by default.
const DefaultWindowDays = 7

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Upcoming returns reminders due between today and today+days inclusive,
// earliest first. Overdue reminders are excluded.
func Upcoming(reminders []model.Reminder, now time.Time, days int) []model.Reminder {
	today := dayOf(now)
	until := today.AddDate(0, 0, days)

	var out []model.Reminder
	for _, r := range reminders {
		due := dayOf(r.DueDate)
		if due.Before(today) || due.After(until) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// DaysUntil is the number of calendar days from now to the reminder's due date.
func DaysUntil(r model.Reminder, now time.Time) int {
	return int(dayOf(r.DueDate).Sub(dayOf(now)).Hours() / 24)
}
