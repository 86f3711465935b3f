// Package reminder schedules recurring health reminders (water, stretch,
// exercise) and delivers them through a Notifier.
package reminder

import "time"

// Kind identifies a reminder type.
type Kind string

// Reminder kinds.
const (
	KindWater    Kind = "water"
	KindStretch  Kind = "stretch"
	KindExercise Kind = "exercise"
)

// Kinds lists every reminder kind.
var Kinds = []Kind{KindWater, KindStretch, KindExercise}

// Setting controls one reminder kind.
type Setting struct {
	Enabled         bool `json:"enabled" yaml:"enabled"`
	IntervalMinutes int  `json:"interval_minutes" yaml:"interval_minutes"`
}

// Config holds the setting of every kind.
type Config struct {
	Water    Setting `json:"water" yaml:"water"`
	Stretch  Setting `json:"stretch" yaml:"stretch"`
	Exercise Setting `json:"exercise" yaml:"exercise"`
}

// DefaultConfig has every reminder disabled with 30, 45, and 60 minute
// intervals.
func DefaultConfig() Config {
	return Config{
		Water:    Setting{IntervalMinutes: 30},
		Stretch:  Setting{IntervalMinutes: 45},
		Exercise: Setting{IntervalMinutes: 60},
	}
}

// For returns the setting for a kind.
func (c Config) For(k Kind) Setting {
	switch k {
	case KindWater:
		return c.Water
	case KindStretch:
		return c.Stretch
	case KindExercise:
		return c.Exercise
	}
	return Setting{}
}

// Active reports whether a kind is enabled with a usable interval.
func (c Config) Active(k Kind) bool {
	s := c.For(k)
	return s.Enabled && s.IntervalMinutes > 0
}

// AnyActive reports whether at least one kind would fire.
func (c Config) AnyActive() bool {
	for _, k := range Kinds {
		if c.Active(k) {
			return true
		}
	}
	return false
}

// Reminder is a single delivered reminder.
type Reminder struct {
	Kind  Kind
	Title string
	Body  string
	At    time.Time
}

var labels = map[Kind]struct{ title, body string }{
	KindWater:    {"💧 Hydration Reminder", "Time to drink a glass of water!"},
	KindStretch:  {"🧘 Stretch Break", "Stand up and stretch for a few minutes."},
	KindExercise: {"🏃 Movement Reminder", "Time to get some exercise in!"},
}

// New builds the reminder for a kind at the given time.
func New(k Kind, at time.Time) Reminder {
	l := labels[k]
	return Reminder{Kind: k, Title: l.title, Body: l.body, At: at}
}
