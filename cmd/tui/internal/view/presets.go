package view

import (
	"time"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

// Preset is a named date range the filter bar can fill in.
type Preset int

const (
	PresetThisWeek Preset = iota
	PresetLastWeek
	PresetThisMonth
	PresetLastMonth
	PresetThisYear
)

var presets = []Preset{PresetThisWeek, PresetLastWeek, PresetThisMonth, PresetLastMonth, PresetThisYear}

func (p Preset) String() string {
	switch p {
	case PresetThisWeek:
		return "This Week"
	case PresetLastWeek:
		return "Last Week"
	case PresetThisMonth:
		return "This Month"
	case PresetLastMonth:
		return "Last Month"
	case PresetThisYear:
		return "This Year"
	}

	return "Unknown"
}

// Range returns the inclusive bounds of p relative to now, formatted as
// expense dates. Weeks start on Monday.
func (p Preset) Range(now time.Time) (from, to string) {
	var start, end time.Time

	switch p {
	case PresetThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		} // Sunday -> 7

		start = now.AddDate(0, 0, -offset+1)
		end = now
	case PresetLastWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		end = now.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case PresetThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case PresetLastMonth:
		lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		start = lastMonth
		end = lastMonth.AddDate(0, 1, -1)
	case PresetThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = now
	}

	return start.Format(expense.DateLayout), end.Format(expense.DateLayout)
}
