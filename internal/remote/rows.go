package remote

import "github.com/blackwell-systems/disciplineos/internal/records"

// Row types mirror the PostgREST JSON of each table. Nullable columns are
// pointers.

type taskRow struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Priority         string  `json:"priority"`
	Category         string  `json:"category"`
	DueDate          *string `json:"due_date"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Completed        bool    `json:"completed"`
	SortOrder        int     `json:"sort_order"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func (r taskRow) record() records.Task {
	return records.Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      deref(r.Description),
		Priority:         r.Priority,
		Category:         r.Category,
		DueDate:          deref(r.DueDate),
		EstimatedMinutes: derefInt(r.EstimatedMinutes),
		Completed:        r.Completed,
		SortOrder:        r.SortOrder,
		CreatedAt:        records.ParseTimestamp(r.CreatedAt),
		UpdatedAt:        records.ParseTimestamp(r.UpdatedAt),
	}
}

type focusRow struct {
	ID              string  `json:"id"`
	DurationMinutes int     `json:"duration_minutes"`
	SessionType     string  `json:"session_type"`
	Completed       bool    `json:"completed"`
	StartedAt       string  `json:"started_at"`
	CompletedAt     *string `json:"completed_at"`
}

func (r focusRow) record() records.FocusSession {
	s := records.FocusSession{
		ID:              r.ID,
		DurationMinutes: r.DurationMinutes,
		SessionType:     r.SessionType,
		Completed:       r.Completed,
		StartedAt:       records.ParseTimestamp(r.StartedAt),
	}
	if t := records.ParseTimestamp(deref(r.CompletedAt)); !t.IsZero() {
		s.CompletedAt = &t
	}
	return s
}

type dopamineRow struct {
	ID                string  `json:"id"`
	LogDate           string  `json:"log_date"`
	TimeSpentMinutes  int     `json:"time_spent_minutes"`
	DailyLimitMinutes int     `json:"daily_limit_minutes"`
	Notes             *string `json:"notes"`
	CreatedAt         string  `json:"created_at"`
}

func (r dopamineRow) record() records.DopamineLog {
	return records.DopamineLog{
		ID:                r.ID,
		LogDate:           r.LogDate,
		TimeSpentMinutes:  r.TimeSpentMinutes,
		DailyLimitMinutes: r.DailyLimitMinutes,
		Notes:             deref(r.Notes),
		CreatedAt:         records.ParseTimestamp(r.CreatedAt),
	}
}

type healthRow struct {
	ID                string  `json:"id"`
	LogDate           string  `json:"log_date"`
	WaterGlasses      int     `json:"water_glasses"`
	StretchingMinutes int     `json:"stretching_minutes"`
	ExerciseMinutes   int     `json:"exercise_minutes"`
	ExerciseType      *string `json:"exercise_type"`
	Notes             *string `json:"notes"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func (r healthRow) record() records.HealthLog {
	return records.HealthLog{
		ID:                r.ID,
		LogDate:           r.LogDate,
		WaterGlasses:      r.WaterGlasses,
		StretchingMinutes: r.StretchingMinutes,
		ExerciseMinutes:   r.ExerciseMinutes,
		ExerciseType:      deref(r.ExerciseType),
		Notes:             deref(r.Notes),
		CreatedAt:         records.ParseTimestamp(r.CreatedAt),
		UpdatedAt:         records.ParseTimestamp(r.UpdatedAt),
	}
}

type bookRow struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalPages     int    `json:"total_pages"`
	CurrentPage    int    `json:"current_page"`
	DailyGoalPages int    `json:"daily_goal_pages"`
	Completed      bool   `json:"completed"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func (r bookRow) record() records.Book {
	return records.Book{
		ID:             r.ID,
		Title:          r.Title,
		TotalPages:     r.TotalPages,
		CurrentPage:    r.CurrentPage,
		DailyGoalPages: r.DailyGoalPages,
		Completed:      r.Completed,
		CreatedAt:      records.ParseTimestamp(r.CreatedAt),
		UpdatedAt:      records.ParseTimestamp(r.UpdatedAt),
	}
}

type financeRow struct {
	ID              string  `json:"id"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Category        *string `json:"category"`
	Description     *string `json:"description"`
	TransactionDate string  `json:"transaction_date"`
	CreatedAt       string  `json:"created_at"`
}

func (r financeRow) record() records.Transaction {
	return records.Transaction{
		ID:              r.ID,
		Amount:          r.Amount,
		TransactionType: r.TransactionType,
		Category:        deref(r.Category),
		Description:     deref(r.Description),
		TransactionDate: r.TransactionDate,
		CreatedAt:       records.ParseTimestamp(r.CreatedAt),
	}
}

type gamificationRow struct {
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	StreakDays int    `json:"streak_days"`
	UpdatedAt  string `json:"updated_at"`
}

func (r gamificationRow) record() records.GamificationState {
	g := records.GamificationState{
		XP:         r.XP,
		Level:      r.Level,
		StreakDays: r.StreakDays,
		UpdatedAt:  records.ParseTimestamp(r.UpdatedAt),
	}
	if g.Level < 1 {
		g.Level = 1
	}
	return g
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func convert[R interface{ record() T }, T any](rows []R) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}
