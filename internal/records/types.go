// Package records defines the raw, already-fetched rows that the metrics
// engine consumes. Storage collaborators (local SQLite, hosted Supabase)
// produce these; nothing in this package performs I/O.
package records

import "time"

// DateLayout is the calendar-date format used for log and transaction dates.
const DateLayout = "2006-01-02"

// Task is a to-do item.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Priority         string    `json:"priority"`
	Category         string    `json:"category"`
	DueDate          string    `json:"due_date,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	Completed        bool      `json:"completed"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FocusSession is a single timed focus (pomodoro-style) block.
type FocusSession struct {
	ID              string     `json:"id"`
	DurationMinutes int        `json:"duration_minutes"`
	SessionType     string     `json:"session_type"`
	Completed       bool       `json:"completed"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// DopamineLog records one day's time spent on a tracked distraction against
// the limit committed for that day. There is at most one row per LogDate.
type DopamineLog struct {
	ID                string    `json:"id"`
	LogDate           string    `json:"log_date"`
	TimeSpentMinutes  int       `json:"time_spent_minutes"`
	DailyLimitMinutes int       `json:"daily_limit_minutes"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Compliant reports whether the day stayed at or below its limit. Negative
// values count as zero.
func (l DopamineLog) Compliant() bool {
	return max(l.TimeSpentMinutes, 0) <= max(l.DailyLimitMinutes, 0)
}

// HealthLog records one day's hydration, stretching, and exercise.
// There is at most one row per LogDate.
type HealthLog struct {
	ID                string    `json:"id"`
	LogDate           string    `json:"log_date"`
	WaterGlasses      int       `json:"water_glasses"`
	StretchingMinutes int       `json:"stretching_minutes"`
	ExerciseMinutes   int       `json:"exercise_minutes"`
	ExerciseType      string    `json:"exercise_type,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Book is a reading-list entry with page progress.
type Book struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TotalPages     int       `json:"total_pages"`
	CurrentPage    int       `json:"current_page"`
	DailyGoalPages int       `json:"daily_goal_pages"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID              string    `json:"id"`
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Category        string    `json:"category,omitempty"`
	Description     string    `json:"description,omitempty"`
	TransactionDate string    `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// GamificationState is the persisted XP/level/streak record.
type GamificationState struct {
	XP         int       `json:"xp"`
	Level      int       `json:"level"`
	StreakDays int       `json:"streak_days"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultGamification is the state used when no record exists yet.
func DefaultGamification() GamificationState {
	return GamificationState{Level: 1}
}
