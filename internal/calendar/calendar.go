// Package calendar provides timezone-agnostic calendar-day arithmetic for
// night-based occupancy.  A stay occupies the half-open interval
// [checkIn, checkOut): the check-out day itself is never occupied, which
// permits same-day turnover.  Every date is normalized to midnight UTC
// before comparison or storage; the correctness of the whole engine
// depends on dates always being compared at the same time of day.
package calendar

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a range's check-out date is not strictly
// after its check-in date.
var ErrInvalidRange = errors.New("calendar: check-out date must be after check-in date")

// DayFormat is the canonical wire format for calendar days.
const DayFormat = "2006-01-02"

// Normalize truncates t to midnight UTC, discarding any time-of-day and
// zone information.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day once
// normalized.
func SameDay(a, b time.Time) bool {
	return Normalize(a).Equal(Normalize(b))
}

// NightsBetween returns the number of nights in [checkIn, checkOut).  It
// returns ErrInvalidRange when checkOut is not after checkIn.
func NightsBetween(checkIn, checkOut time.Time) (int, error) {
	in, out := Normalize(checkIn), Normalize(checkOut)
	if !out.After(in) {
		return 0, ErrInvalidRange
	}
	return int(out.Sub(in).Hours() / 24), nil
}

// Nights returns every calendar day from checkIn inclusive to checkOut
// exclusive, ascending.  The slice is finite and may be iterated any number
// of times.  An empty slice is returned for an inverted or empty range.
func Nights(checkIn, checkOut time.Time) []time.Time {
	in, out := Normalize(checkIn), Normalize(checkOut)
	if !out.After(in) {
		return nil
	}
	nights := make([]time.Time, 0, int(out.Sub(in).Hours()/24))
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// Contains reports whether night falls within the half-open interval
// [checkIn, checkOut).
func Contains(checkIn, checkOut, night time.Time) bool {
	d := Normalize(night)
	return !d.Before(Normalize(checkIn)) && d.Before(Normalize(checkOut))
}
