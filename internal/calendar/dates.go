package calendar

import (
	"time"
)

// DayLayout is the storage format of calendar dates.
const DayLayout = "2006-01-02"

// Epoch is the date malformed day strings degrade to.
var Epoch = Date(1970, time.January, 1)

// Date builds a civil date at UTC midnight. All dates handled by this
// package use this representation so day arithmetic never crosses a DST
// boundary.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a civil date.
// Unparseable input returns Epoch and false; callers that only need a
// date can ignore the flag.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return Epoch, false
	}
	return t, true
}

// FormatDay formats a date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Truncate drops the time-of-day and zone of t, keeping its civil date.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysBetween returns the signed number of calendar days from b to a.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(a).Sub(Truncate(b)).Hours() / 24)
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year int, month time.Month) (first, last time.Time) {
	first = Date(year, month, 1)
	last = first.AddDate(0, 1, -1)
	return first, last
}
