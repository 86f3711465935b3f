package metrics

import "sort"

// Category ties an achievement to one activity counter.
type Category string

// Achievement categories.
const (
	CategoryTasks    Category = "tasks"
	CategoryFocus    Category = "focus"
	CategoryHealth   Category = "health"
	CategoryReading  Category = "reading"
	CategoryDopamine Category = "dopamine"
	CategoryStreak   Category = "streak"
	CategoryFinance  Category = "finance"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTasks,
	CategoryFocus,
	CategoryHealth,
	CategoryReading,
	CategoryDopamine,
	CategoryStreak,
	CategoryFinance,
}

// Title returns the display heading for a category.
func (c Category) Title() string {
	switch c {
	case CategoryTasks:
		return "Tasks"
	case CategoryFocus:
		return "Focus"
	case CategoryHealth:
		return "Health"
	case CategoryReading:
		return "Reading"
	case CategoryDopamine:
		return "Dopamine Control"
	case CategoryStreak:
		return "Streaks"
	case CategoryFinance:
		return "Finance"
	default:
		return string(c)
	}
}

// CatalogVersion identifies the achievement catalog revision. New entries
// may be appended; existing entries are never changed or removed.
const CatalogVersion = 1

// Definition is an immutable catalog entry.
type Definition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Requirement int      `json:"requirement"`
}

// Achievement is a definition evaluated against a counter snapshot.
type Achievement struct {
	Definition
	Unlocked bool `json:"unlocked"`
	// Progress is the category counter capped at the requirement.
	Progress int `json:"progress"`
}

var catalog = []Definition{
	{ID: "tasks_1", Name: "First Step", Description: "Complete your first task", Icon: "✅", Category: CategoryTasks, Requirement: 1},
	{ID: "tasks_10", Name: "Task Crusher", Description: "Complete 10 tasks", Icon: "💪", Category: CategoryTasks, Requirement: 10},
	{ID: "tasks_50", Name: "Productivity Machine", Description: "Complete 50 tasks", Icon: "⚡", Category: CategoryTasks, Requirement: 50},
	{ID: "tasks_100", Name: "Centurion", Description: "Complete 100 tasks", Icon: "🏆", Category: CategoryTasks, Requirement: 100},

	{ID: "focus_1", Name: "Laser Focus", Description: "Complete 1 focus session", Icon: "🎯", Category: CategoryFocus, Requirement: 1},
	{ID: "focus_10", Name: "Deep Worker", Description: "Complete 10 focus sessions", Icon: "🧠", Category: CategoryFocus, Requirement: 10},
	{ID: "focus_50", Name: "Flow State Master", Description: "Complete 50 focus sessions", Icon: "🔥", Category: CategoryFocus, Requirement: 50},

	{ID: "health_7", Name: "Health Habit", Description: "Log health 7 days", Icon: "💚", Category: CategoryHealth, Requirement: 7},
	{ID: "health_30", Name: "Wellness Warrior", Description: "Log health 30 days", Icon: "🏋️", Category: CategoryHealth, Requirement: 30},

	{ID: "books_1", Name: "Bookworm", Description: "Finish your first book", Icon: "📖", Category: CategoryReading, Requirement: 1},
	{ID: "books_5", Name: "Avid Reader", Description: "Finish 5 books", Icon: "📚", Category: CategoryReading, Requirement: 5},

	{ID: "dopamine_7", Name: "Digital Detox", Description: "Stay under limit 7 days", Icon: "🛡️", Category: CategoryDopamine, Requirement: 7},
	{ID: "dopamine_30", Name: "Mind Fortress", Description: "Stay under limit 30 days", Icon: "🏰", Category: CategoryDopamine, Requirement: 30},

	{ID: "streak_3", Name: "On a Roll", Description: "3-day activity streak", Icon: "🔥", Category: CategoryStreak, Requirement: 3},
	{ID: "streak_7", Name: "Week Warrior", Description: "7-day activity streak", Icon: "⭐", Category: CategoryStreak, Requirement: 7},
	{ID: "streak_30", Name: "Monthly Legend", Description: "30-day activity streak", Icon: "👑", Category: CategoryStreak, Requirement: 30},

	{ID: "finance_10", Name: "Budget Tracker", Description: "Log 10 transactions", Icon: "💰", Category: CategoryFinance, Requirement: 10},
	{ID: "finance_50", Name: "Financial Guru", Description: "Log 50 transactions", Icon: "📊", Category: CategoryFinance, Requirement: 50},
}

// Catalog returns a copy of the built-in achievement catalog.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Counters is a snapshot of per-category activity counts.
type Counters struct {
	CompletedTasks         int `json:"completed_tasks"`
	CompletedFocusSessions int `json:"completed_focus_sessions"`
	HealthLoggedDays       int `json:"health_logged_days"`
	CompletedBooks         int `json:"completed_books"`
	DopamineCompliantDays  int `json:"dopamine_compliant_days"`
	TransactionCount       int `json:"transaction_count"`
	StreakDays             int `json:"streak_days"`
}

// For returns the counter backing a category. Unknown categories read 0.
func (c Counters) For(cat Category) int {
	var n int
	switch cat {
	case CategoryTasks:
		n = c.CompletedTasks
	case CategoryFocus:
		n = c.CompletedFocusSessions
	case CategoryHealth:
		n = c.HealthLoggedDays
	case CategoryReading:
		n = c.CompletedBooks
	case CategoryDopamine:
		n = c.DopamineCompliantDays
	case CategoryStreak:
		n = c.StreakDays
	case CategoryFinance:
		n = c.TransactionCount
	}
	return nonNegative(n)
}

// Evaluate marks each catalog entry unlocked when its category counter
// meets the requirement. Entries are evaluated independently and returned
// in catalog order.
func Evaluate(counters Counters, defs []Definition) []Achievement {
	out := make([]Achievement, 0, len(defs))
	for _, def := range defs {
		n := counters.For(def.Category)
		out = append(out, Achievement{
			Definition: def,
			Unlocked:   def.Requirement > 0 && n >= def.Requirement,
			Progress:   min(n, max(def.Requirement, 0)),
		})
	}
	return out
}

// EvaluateAchievements evaluates the built-in catalog.
func EvaluateAchievements(counters Counters) []Achievement {
	return Evaluate(counters, catalog)
}

// UnlockedCount returns how many achievements are unlocked.
func UnlockedCount(achievements []Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// ByCategory groups achievements by category, preserving catalog order
// within each group.
func ByCategory(achievements []Achievement) map[Category][]Achievement {
	groups := make(map[Category][]Achievement)
	for _, a := range achievements {
		groups[a.Category] = append(groups[a.Category], a)
	}
	return groups
}

// NextMilestones returns the locked achievements closest to unlocking,
// ordered by remaining distance, at most limit entries.
func NextMilestones(achievements []Achievement, counters Counters, limit int) []Achievement {
	var locked []Achievement
	for _, a := range achievements {
		if !a.Unlocked {
			locked = append(locked, a)
		}
	}
	sort.SliceStable(locked, func(i, j int) bool {
		ri := locked[i].Requirement - counters.For(locked[i].Category)
		rj := locked[j].Requirement - counters.For(locked[j].Category)
		return ri < rj
	})
	if limit >= 0 && len(locked) > limit {
		locked = locked[:limit]
	}
	return locked
}
