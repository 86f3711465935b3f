package output

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "████████░░ 80/100", ScoreBar(80, 10))
	assert.Equal(t, "░░░░░░░░░░ 0/100", ScoreBar(0, 10))
	assert.Equal(t, "██████████ 100/100", ScoreBar(130, 10), "label and bar both clamp")
	assert.Equal(t, "░░░░░░░░░░ 0/100", ScoreBar(-20, 10))
}

func TestProgressBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "█████░░░░░  50%", ProgressBar(50, 10))
	assert.Equal(t, "░░░░░░░░░░   0%", ProgressBar(math.NaN(), 10))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▁▁", Sparkline([]int{0, 0, 0}))
	assert.Equal(t, "▁█", Sparkline([]int{0, 4}))
	assert.Equal(t, "▁▅█", Sparkline([]float64{0, 0.5, 1}))
	assert.Empty(t, Sparkline([]int(nil)))
}

func TestMinutes(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		45:  "45m",
		60:  "1h",
		75:  "1h 15m",
		-5:  "0m",
		605: "10h 5m",
	}
	for in, want := range tests {
		assert.Equal(t, want, Minutes(in), "Minutes(%d)", in)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.50", Money(12.5))
	assert.Equal(t, "-$3.00", Money(-3))
	assert.Equal(t, "$0.00", Money(0))
}
