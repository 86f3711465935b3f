package metrics

import (
	"math"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// PerfectScore is the dopamine score of a day with no recorded distraction.
const PerfectScore = 100

// Score converts a day's time spent against its limit into a 0-100
// discipline score: round((1 - spent/limit) * 100), clamped. A zero limit
// scores 100 only when nothing was spent. 100 is reserved for zero time
// spent, so a tiny non-zero usage that would round up scores 99. Plain
// rounding would give Score(1, 1000) == 100; this returns 99.
func Score(timeSpent, limit int) int {
	timeSpent = nonNegative(timeSpent)
	limit = nonNegative(limit)

	if limit == 0 {
		if timeSpent == 0 {
			return PerfectScore
		}
		return 0
	}

	ratio := float64(timeSpent) / float64(limit)
	score := clamp(int(math.Round((1-ratio)*100)), 0, PerfectScore)
	if score == PerfectScore && timeSpent > 0 {
		score = PerfectScore - 1
	}
	return score
}

// DopamineScore scores a day's log. A missing log is a perfect day.
func DopamineScore(log *records.DopamineLog) int {
	if log == nil {
		return PerfectScore
	}
	return Score(log.TimeSpentMinutes, log.DailyLimitMinutes)
}

// ScoreLabel buckets a score into a short verdict.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Disciplined"
	case score >= 50:
		return "Moderate"
	default:
		return "Needs Work"
	}
}

// UsagePercent is the share of the limit already used, capped at 100.
func UsagePercent(timeSpent, limit int) float64 {
	timeSpent = nonNegative(timeSpent)
	limit = nonNegative(limit)
	if limit == 0 {
		return 0
	}
	return math.Min(100, float64(timeSpent)/float64(limit)*100)
}

// DopamineUsage summarizes a single day's usage against its limit.
type DopamineUsage struct {
	TimeSpentMinutes  int     `json:"time_spent_minutes"`
	DailyLimitMinutes int     `json:"daily_limit_minutes"`
	RemainingMinutes  int     `json:"remaining_minutes"`
	UsagePercent      float64 `json:"usage_percent"`
	OverLimit         bool    `json:"over_limit"`
	Score             int     `json:"score"`
	Label             string  `json:"label"`
}

// Usage derives the usage summary for a log. When log is nil the day is
// reported as untouched against defaultLimit.
func Usage(log *records.DopamineLog, defaultLimit int) DopamineUsage {
	spent, limit := 0, nonNegative(defaultLimit)
	if log != nil {
		spent = nonNegative(log.TimeSpentMinutes)
		limit = nonNegative(log.DailyLimitMinutes)
	}
	score := DopamineScore(log)
	return DopamineUsage{
		TimeSpentMinutes:  spent,
		DailyLimitMinutes: limit,
		RemainingMinutes:  limit - spent,
		UsagePercent:      UsagePercent(spent, limit),
		OverLimit:         spent > limit,
		Score:             score,
		Label:             ScoreLabel(score),
	}
}

// CompliantDays counts logs that stayed at or under their limit.
func CompliantDays(logs []records.DopamineLog) int {
	n := 0
	for _, l := range logs {
		if nonNegative(l.TimeSpentMinutes) <= nonNegative(l.DailyLimitMinutes) {
			n++
		}
	}
	return n
}

// FindLog returns the log for the given date, or nil.
func FindLog(logs []records.DopamineLog, date string) *records.DopamineLog {
	for i := range logs {
		if d, ok := normalizeDate(logs[i].LogDate); ok && d == date {
			return &logs[i]
		}
	}
	return nil
}
