package continuity

import (
	"slices"
	"time"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

// WindowDays is how far the candidate window reaches past each end of the
// target month.
const WindowDays = 15

// Window returns the inclusive date range searched for candidates in the
// given month. January does not look back into the previous year.
func Window(year int, month time.Month) (from, to time.Time) {
	first, last := calendar.MonthBounds(year, month)
	from = first.AddDate(0, 0, -WindowDays)
	if month == time.January {
		from = first
	}
	return from, last.AddDate(0, 0, WindowDays)
}

// BuildPool returns the events of year that fall inside Window(year, month).
//
// The pool is sorted by date ascending; events on the same date keep their
// source order. Match breaks distance ties by this order.
func BuildPool(events []Event, year int, month time.Month) []Event {
	from, to := Window(year, month)

	var pool []Event
	for _, e := range events {
		d := calendar.Truncate(e.Date)
		if d.Year() != year || d.Before(from) || d.After(to) {
			continue
		}
		pool = append(pool, e)
	}
	sortByDate(pool)
	return pool
}

// References returns the events of the year before year that fall in month,
// sorted by date ascending (stable).
func References(events []Event, year int, month time.Month) []Event {
	var refs []Event
	for _, e := range events {
		if e.Date.Year() == year-1 && e.Date.Month() == month {
			refs = append(refs, e)
		}
	}
	sortByDate(refs)
	return refs
}

func sortByDate(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return calendar.Truncate(a.Date).Compare(calendar.Truncate(b.Date))
	})
}
