package metrics

import (
	"math"
	"time"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// DayKey returns the calendar date (YYYY-MM-DD) of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(records.DateLayout)
}

// civil lifts a date string onto a UTC midnight so day arithmetic is not
// affected by DST transitions.
func civil(date string) (time.Time, bool) {
	return records.ParseDate(date, time.UTC)
}

// normalizeDate trims a date or timestamp string to its YYYY-MM-DD prefix,
// rejecting malformed values.
func normalizeDate(date string) (string, bool) {
	t, ok := civil(date)
	if !ok {
		return "", false
	}
	return t.Format(records.DateLayout), true
}

// DaysBetween returns the signed number of calendar days from `from` to
// `to`. ok is false if either date is malformed.
func DaysBetween(from, to string) (int, bool) {
	a, ok := civil(from)
	if !ok {
		return 0, false
	}
	b, ok := civil(to)
	if !ok {
		return 0, false
	}
	return int(math.Round(b.Sub(a).Hours() / 24)), true
}

// ShiftDate returns date moved by n calendar days.
func ShiftDate(date string, n int) string {
	t, ok := civil(date)
	if !ok {
		return date
	}
	return t.AddDate(0, 0, n).Format(records.DateLayout)
}

// WindowDates returns the windowDays consecutive calendar dates ending at
// today (inclusive), oldest first. A window smaller than one day is
// treated as one day.
func WindowDates(today time.Time, windowDays int) []string {
	if windowDays < 1 {
		windowDays = 1
	}
	end := DayKey(today, today.Location())
	dates := make([]string, windowDays)
	for i := range windowDays {
		dates[i] = ShiftDate(end, i-(windowDays-1))
	}
	return dates
}
