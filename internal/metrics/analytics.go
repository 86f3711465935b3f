package metrics

import (
	"time"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// DefaultWindowDays is the default analytics lookback.
const DefaultWindowDays = 14

// DailyFocusPoint is one day of completed focus minutes.
type DailyFocusPoint struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// DailyTaskPoint is one day of task activity.
type DailyTaskPoint struct {
	Date      string `json:"date"`
	Added     int    `json:"added"`
	Completed int    `json:"completed"`
}

// AggregateFocusSeries buckets completed focus-session minutes by the
// session's start date. Incomplete sessions contribute nothing.
func AggregateFocusSeries(today time.Time, sessions []records.FocusSession, windowDays int) []DailyFocusPoint {
	series := Bucket(today, windowDays, sessions,
		func(s records.FocusSession) (time.Time, bool) { return s.StartedAt, s.Completed },
		func(s records.FocusSession) int { return nonNegative(s.DurationMinutes) },
	)

	out := make([]DailyFocusPoint, len(series))
	for i, p := range series {
		out[i] = DailyFocusPoint{Date: p.Date, Minutes: p.Value}
	}
	return out
}

// AggregateTaskSeries buckets tasks added (by creation date) and tasks
// completed (by last update date of completed tasks) over the same window.
//
// Completion is attributed to UpdatedAt because records carry no dedicated
// completion timestamp; an edit to an already completed task moves it.
func AggregateTaskSeries(today time.Time, tasks []records.Task, windowDays int) []DailyTaskPoint {
	one := func(records.Task) int { return 1 }

	added := Bucket(today, windowDays, tasks,
		func(t records.Task) (time.Time, bool) { return t.CreatedAt, true },
		one,
	)
	completed := Bucket(today, windowDays, tasks,
		func(t records.Task) (time.Time, bool) { return t.UpdatedAt, t.Completed },
		one,
	)

	out := make([]DailyTaskPoint, len(added))
	for i := range added {
		out[i] = DailyTaskPoint{
			Date:      added[i].Date,
			Added:     added[i].Value,
			Completed: completed[i].Value,
		}
	}
	return out
}

// FocusToday sums completed focus minutes started on today's date.
func FocusToday(today time.Time, sessions []records.FocusSession) int {
	return AggregateFocusSeries(today, sessions, 1)[0].Minutes
}

// TotalFocusMinutes sums a focus series.
func TotalFocusMinutes(series []DailyFocusPoint) int {
	total := 0
	for _, p := range series {
		total += p.Minutes
	}
	return total
}

// TaskTotals sums a task series.
func TaskTotals(series []DailyTaskPoint) (added, completed int) {
	for _, p := range series {
		added += p.Added
		completed += p.Completed
	}
	return added, completed
}
