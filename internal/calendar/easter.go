// Package calendar provides the civil-date helpers and movable-feast
// calculations used to line up bookings from one year with the next.
package calendar

import (
	"time"
)

// CarnivalOffset is the number of days from Carnival Tuesday to Easter Sunday.
const CarnivalOffset = 47

// EasterSunday calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is the anonymous Gregorian method (Meeus/Jones/Butcher)
// and is valid for all years of the Gregorian calendar.
func EasterSunday(year int) time.Time {
	a := year % 19 // golden number - 1
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30 // epact
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7 // days to the following Sunday
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date(year, time.Month(month), day)
}

// CarnivalTuesday returns the Tuesday 47 days before Easter Sunday.
// Carnival-season bookings move with this date rather than with the
// calendar.
func CarnivalTuesday(year int) time.Time {
	return EasterSunday(year).AddDate(0, 0, -CarnivalOffset)
}

// CarnivalSaturday returns the Saturday opening the Carnival weekend.
func CarnivalSaturday(year int) time.Time {
	return CarnivalTuesday(year).AddDate(0, 0, -3)
}

// AshWednesday calculates Ash Wednesday for a given year.
// It closes the Carnival season, 46 days before Easter.
func AshWednesday(year int) time.Time {
	return EasterSunday(year).AddDate(0, 0, -46)
}
