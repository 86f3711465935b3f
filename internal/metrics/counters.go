package metrics

import "github.com/blackwell-systems/disciplineos/internal/records"

// CounterInputs carries the raw collections that activity counters are
// computed from. Nil slices count as empty.
type CounterInputs struct {
	Tasks         []records.Task
	FocusSessions []records.FocusSession
	HealthLogs    []records.HealthLog
	Books         []records.Book
	DopamineLogs  []records.DopamineLog
	Transactions  []records.Transaction
	Gamification  records.GamificationState
}

// BuildCounters recomputes the activity counter snapshot from raw data.
// Health days count distinct log dates; the streak counter is the
// persisted gamification value.
func BuildCounters(in CounterInputs) Counters {
	c := Counters{
		DopamineCompliantDays: CompliantDays(in.DopamineLogs),
		TransactionCount:      len(in.Transactions),
		StreakDays:            nonNegative(in.Gamification.StreakDays),
	}
	for _, t := range in.Tasks {
		if t.Completed {
			c.CompletedTasks++
		}
	}
	for _, s := range in.FocusSessions {
		if s.Completed {
			c.CompletedFocusSessions++
		}
	}
	healthDays := make(map[string]bool, len(in.HealthLogs))
	for _, h := range in.HealthLogs {
		if d, ok := normalizeDate(h.LogDate); ok {
			healthDays[d] = true
		}
	}
	c.HealthLoggedDays = len(healthDays)
	for _, b := range in.Books {
		if b.Completed {
			c.CompletedBooks++
		}
	}
	return c
}
