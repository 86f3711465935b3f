package metrics

import (
	"sort"
	"time"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// streakTolerance is the largest gap, in calendar days, allowed between the
// expected day and the log matched to it. It absorbs a log saved shortly
// after local midnight.
const streakTolerance = 1

// DayStatus is one calendar day's outcome for a compliance predicate.
type DayStatus struct {
	Date      string `json:"date"`
	Compliant bool   `json:"compliant"`
}

// ComputeStreak counts consecutive compliant days walking backward from
// today. Days are sorted newest first; the i-th day is matched against
// today-i and must fall within streakTolerance of it. The walk stops at the
// first gap wider than the tolerance or the first non-compliant day.
//
// The tolerance applies on both sides, so a log dated tomorrow (written from
// a zone ahead of today's) is matched to today. Malformed dates are ignored.
// Several entries for the same date collapse into one, compliant only if all
// of them are.
func ComputeStreak(today time.Time, days []DayStatus) int {
	todayKey := DayKey(today, today.Location())

	byDate := make(map[string]bool, len(days))
	for _, d := range days {
		date, ok := normalizeDate(d.Date)
		if !ok {
			continue
		}
		if prev, seen := byDate[date]; seen {
			byDate[date] = prev && d.Compliant
			continue
		}
		byDate[date] = d.Compliant
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 0
	for i, date := range dates {
		expected := ShiftDate(todayKey, -i)
		gap, _ := DaysBetween(date, expected)
		if gap < -streakTolerance || gap > streakTolerance {
			break
		}
		if !byDate[date] {
			break
		}
		streak++
	}
	return streak
}

// DopamineStreak is the number of consecutive days, ending today, spent at
// or under the daily limit.
func DopamineStreak(today time.Time, logs []records.DopamineLog) int {
	days := make([]DayStatus, 0, len(logs))
	for _, l := range logs {
		days = append(days, DayStatus{
			Date:      l.LogDate,
			Compliant: l.Compliant(),
		})
	}
	return ComputeStreak(today, days)
}

// ActivityStreak is the number of consecutive days, ending today, that have
// any recorded activity. Each date in activeDates counts as compliant.
func ActivityStreak(today time.Time, activeDates []string) int {
	days := make([]DayStatus, 0, len(activeDates))
	for _, d := range activeDates {
		days = append(days, DayStatus{Date: d, Compliant: true})
	}
	return ComputeStreak(today, days)
}

// ActiveDates collects the calendar dates (in today's location) on which a
// task was completed, a focus session was completed, or a health or
// dopamine log was saved.
func ActiveDates(today time.Time, tasks []records.Task, sessions []records.FocusSession, health []records.HealthLog, dopamine []records.DopamineLog) []string {
	loc := today.Location()
	seen := make(map[string]bool)
	add := func(date string) {
		if date != "" {
			seen[date] = true
		}
	}

	for _, t := range tasks {
		if t.Completed && !t.UpdatedAt.IsZero() {
			add(DayKey(t.UpdatedAt, loc))
		}
	}
	for _, s := range sessions {
		if s.Completed && !s.StartedAt.IsZero() {
			add(DayKey(s.StartedAt, loc))
		}
	}
	for _, h := range health {
		if d, ok := normalizeDate(h.LogDate); ok {
			add(d)
		}
	}
	for _, l := range dopamine {
		if d, ok := normalizeDate(l.LogDate); ok {
			add(d)
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
