package records

import "time"

// ParseTimestamp parses an ISO-8601 timestamp. It accepts RFC3339 with or
// without fractional seconds, PostgREST's "+00:00" offsets, and bare
// datetimes without a zone (interpreted as UTC). Unparseable input yields
// the zero time.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999-07:00",
		"2006-01-02 15:04:05.999999-07",
		"2006-01-02T15:04:05",
		DateLayout,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseDate parses a calendar date in the given location, returning
// midnight local time. ok is false for malformed input.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TimestampLayout is the fixed-width UTC storage format. Stored values sort
// lexically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in the storage format.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}
