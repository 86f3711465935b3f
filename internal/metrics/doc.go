// Package metrics is the derived-metrics engine: pure functions that turn
// already-fetched habit records into scores, streaks, achievement state,
// and zero-filled daily series.
//
// Every function here is deterministic and side-effect free. Calendar-day
// arithmetic is done in the location carried by the "today" argument, so
// callers choose the viewer's time zone by choosing today's location.
// Malformed numeric input (negative minutes, pages, or amounts) is clamped
// to zero, and ratios guard against division by zero.
package metrics
