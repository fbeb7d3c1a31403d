package continuity

import (
	"strings"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

const (
	// YearShift is the expected gap between a booking and its repeat:
	// 52 weeks, so the weekday is preserved.
	YearShift = 364

	// MaxDistance is the largest distance at which a candidate is still
	// accepted as the same booking.
	MaxDistance = 7
)

// Score compares a prior-year reference with a current-year candidate.
//
// A candidate is eligible when the municipalities match, the weekdays match
// and, if both venues are filled in, the venues match. For eligible pairs the
// distance is how far, in days, the candidate sits from where the reference
// would be expected this year: 364 days later for ordinary events, or the
// same offset from Carnival Tuesday for Carnival events.
func Score(ref, cand Event) (distance int, eligible bool) {
	if Normalize(cand.Municipality) != Normalize(ref.Municipality) {
		return 0, false
	}
	if cand.Date.Weekday() != ref.Date.Weekday() {
		return 0, false
	}
	refVenue, candVenue := strings.TrimSpace(ref.Venue), strings.TrimSpace(cand.Venue)
	if refVenue != "" && candVenue != "" && Normalize(refVenue) != Normalize(candVenue) {
		return 0, false
	}

	if IsCarnival(ref) {
		prev := calendar.DaysBetween(ref.Date, calendar.CarnivalTuesday(ref.Date.Year()))
		curr := calendar.DaysBetween(cand.Date, calendar.CarnivalTuesday(cand.Date.Year()))
		return abs(curr - prev), true
	}
	return abs(calendar.DaysBetween(cand.Date, ref.Date) - YearShift), true
}

// Acceptable reports whether a distance is close enough to count as a match.
func Acceptable(distance int) bool {
	return distance <= MaxDistance
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
