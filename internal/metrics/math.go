package metrics

import "math"

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func nonNegativeFloat(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(f, lo, hi float64) float64 {
	if math.IsNaN(f) {
		return lo
	}
	return math.Max(lo, math.Min(hi, f))
}

// percent is round(part/whole*100), or 0 when whole is not positive.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(nonNegative(part)) / float64(whole) * 100))
}

// roundCents rounds a money amount to two decimal places.
func roundCents(f float64) float64 {
	return math.Round(f*100) / 100
}
