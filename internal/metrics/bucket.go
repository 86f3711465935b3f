package metrics

import "time"

// Number is the set of accumulator types a bucket can hold.
type Number interface {
	~int | ~int64 | ~float64
}

// DayValue is one calendar day of a bucketed series.
type DayValue[N Number] struct {
	Date  string `json:"date"`
	Value N      `json:"value"`
}

// Bucket folds records into a zero-filled series of windowDays calendar
// days ending at today. key extracts the record's timestamp (ok=false
// skips the record) and value its contribution. Timestamps are mapped to
// the calendar date in today's location; records landing outside the
// window are dropped. Contributions to the same date accumulate.
//
// The result is sorted ascending by date with no gaps or duplicates.
func Bucket[R any, N Number](today time.Time, windowDays int, recs []R, key func(R) (time.Time, bool), value func(R) N) []DayValue[N] {
	dates := WindowDates(today, windowDays)

	series := make([]DayValue[N], len(dates))
	index := make(map[string]int, len(dates))
	for i, d := range dates {
		series[i].Date = d
		index[d] = i
	}

	loc := today.Location()
	for _, r := range recs {
		ts, ok := key(r)
		if !ok || ts.IsZero() {
			continue
		}
		if i, ok := index[DayKey(ts, loc)]; ok {
			series[i].Value += value(r)
		}
	}

	return series
}

// SeriesTotal sums every bucket in a series.
func SeriesTotal[N Number](series []DayValue[N]) N {
	var total N
	for _, p := range series {
		total += p.Value
	}
	return total
}
