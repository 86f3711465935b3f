package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

func TestScore_Properties(t *testing.T) {
	for _, limit := range []int{1, 15, 60, 240} {
		assert.Equal(t, 100, Score(0, limit), "zero spent, limit %d", limit)
		assert.Equal(t, 0, Score(limit, limit), "at limit %d", limit)
		assert.Equal(t, 0, Score(2*limit, limit), "double limit %d", limit)
	}
}

func TestScore_ZeroLimit(t *testing.T) {
	assert.Equal(t, 100, Score(0, 0))
	assert.Equal(t, 0, Score(1, 0))
	assert.Equal(t, 0, Score(500, 0))
}

func TestScore_Values(t *testing.T) {
	tests := []struct {
		spent, limit, want int
	}{
		{20, 60, 67},
		{30, 60, 50},
		{45, 60, 25},
		{1, 1000, 99}, // rounds to 100 but only zero usage is perfect
		{-10, 60, 100},
		{10, -60, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Score(tc.spent, tc.limit), "Score(%d, %d)", tc.spent, tc.limit)
	}
}

func TestScore_MonotonicInTimeSpent(t *testing.T) {
	const limit = 90
	prev := Score(0, limit)
	for spent := 1; spent <= 3*limit; spent++ {
		s := Score(spent, limit)
		assert.LessOrEqual(t, s, prev, "score rose at spent=%d", spent)
		assert.GreaterOrEqual(t, s, 0)
		prev = s
	}
}

func TestDopamineScore_NoLogIsPerfect(t *testing.T) {
	assert.Equal(t, 100, DopamineScore(nil))
	log := records.DopamineLog{TimeSpentMinutes: 30, DailyLimitMinutes: 60}
	assert.Equal(t, 50, DopamineScore(&log))
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, "Disciplined", ScoreLabel(100))
	assert.Equal(t, "Disciplined", ScoreLabel(80))
	assert.Equal(t, "Moderate", ScoreLabel(79))
	assert.Equal(t, "Moderate", ScoreLabel(50))
	assert.Equal(t, "Needs Work", ScoreLabel(49))
}

func TestUsage(t *testing.T) {
	u := Usage(&records.DopamineLog{TimeSpentMinutes: 90, DailyLimitMinutes: 60}, 60)
	assert.True(t, u.OverLimit)
	assert.Equal(t, -30, u.RemainingMinutes)
	assert.Equal(t, 100.0, u.UsagePercent)
	assert.Equal(t, 0, u.Score)
	assert.Equal(t, "Needs Work", u.Label)

	empty := Usage(nil, 45)
	assert.False(t, empty.OverLimit)
	assert.Equal(t, 45, empty.DailyLimitMinutes)
	assert.Equal(t, 45, empty.RemainingMinutes)
	assert.Equal(t, 100, empty.Score)

	assert.Equal(t, 0.0, UsagePercent(10, 0))
}

func TestCompliantDaysAndFindLog(t *testing.T) {
	logs := []records.DopamineLog{
		dopamineDay("2024-03-12", 20, 60),
		dopamineDay("2024-03-13", 70, 60),
		dopamineDay("2024-03-14", 60, 60),
	}
	assert.Equal(t, 2, CompliantDays(logs))

	found := FindLog(logs, "2024-03-13")
	if assert.NotNil(t, found) {
		assert.Equal(t, 70, found.TimeSpentMinutes)
	}
	assert.Nil(t, FindLog(logs, "2024-03-01"))
}
