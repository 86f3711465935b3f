package metrics

import (
	"math"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// HealthGoals are the daily targets for each health component.
type HealthGoals struct {
	WaterGlasses      int `json:"water_glasses"`
	StretchingMinutes int `json:"stretching_minutes"`
	ExerciseMinutes   int `json:"exercise_minutes"`
}

// DefaultHealthGoals are 8 glasses of water, 15 minutes of stretching, and
// 30 minutes of exercise.
var DefaultHealthGoals = HealthGoals{
	WaterGlasses:      8,
	StretchingMinutes: 15,
	ExerciseMinutes:   30,
}

// goalRatio is min(value/goal, 1), or 0 for a non-positive goal.
func goalRatio(value, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(float64(nonNegative(value))/float64(goal), 1)
}

// HealthScore averages the three goal ratios into a 0-100 score. ok is
// false when there is no log for the day.
func HealthScore(log *records.HealthLog, goals HealthGoals) (score int, ok bool) {
	if log == nil {
		return 0, false
	}
	w := goalRatio(log.WaterGlasses, goals.WaterGlasses)
	s := goalRatio(log.StretchingMinutes, goals.StretchingMinutes)
	e := goalRatio(log.ExerciseMinutes, goals.ExerciseMinutes)
	return int(math.Round((w + s + e) / 3 * 100)), true
}

// GoalPercent is the share of a single goal reached, capped at 100.
func GoalPercent(value, goal int) float64 {
	return goalRatio(value, goal) * 100
}

// FindHealthLog returns the log for the given date, or nil.
func FindHealthLog(logs []records.HealthLog, date string) *records.HealthLog {
	for i := range logs {
		if d, ok := normalizeDate(logs[i].LogDate); ok && d == date {
			return &logs[i]
		}
	}
	return nil
}
