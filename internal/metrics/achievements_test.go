package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

func findAchievement(t *testing.T, achs []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range achs {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not found", id)
	return Achievement{}
}

func TestCatalog_Shape(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 18)

	seen := make(map[string]bool)
	for _, d := range defs {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Positive(t, d.Requirement, d.ID)
		assert.Contains(t, Categories, d.Category, d.ID)
	}

	defs[0].Requirement = 999
	assert.Equal(t, 1, Catalog()[0].Requirement, "Catalog returns a copy")
}

func TestEvaluateAchievements_TaskThresholds(t *testing.T) {
	achs := EvaluateAchievements(Counters{CompletedTasks: 10})

	assert.True(t, findAchievement(t, achs, "tasks_1").Unlocked)
	assert.True(t, findAchievement(t, achs, "tasks_10").Unlocked)
	assert.False(t, findAchievement(t, achs, "tasks_50").Unlocked)
	assert.Equal(t, 10, findAchievement(t, achs, "tasks_50").Progress)
	assert.Equal(t, 1, findAchievement(t, achs, "tasks_1").Progress, "progress caps at requirement")
	assert.Equal(t, 2, UnlockedCount(achs))
	assert.Len(t, achs, len(Catalog()))
}

func TestEvaluateAchievements_Monotonic(t *testing.T) {
	base := Counters{
		CompletedTasks:         5,
		CompletedFocusSessions: 5,
		HealthLoggedDays:       5,
		CompletedBooks:         1,
		DopamineCompliantDays:  5,
		TransactionCount:       5,
		StreakDays:             5,
	}
	before := EvaluateAchievements(base)

	bumps := map[Category]func(*Counters){
		CategoryTasks:    func(c *Counters) { c.CompletedTasks += 100 },
		CategoryFocus:    func(c *Counters) { c.CompletedFocusSessions += 100 },
		CategoryHealth:   func(c *Counters) { c.HealthLoggedDays += 100 },
		CategoryReading:  func(c *Counters) { c.CompletedBooks += 100 },
		CategoryDopamine: func(c *Counters) { c.DopamineCompliantDays += 100 },
		CategoryStreak:   func(c *Counters) { c.StreakDays += 100 },
		CategoryFinance:  func(c *Counters) { c.TransactionCount += 100 },
	}

	for cat, bump := range bumps {
		t.Run(string(cat), func(t *testing.T) {
			c := base
			bump(&c)
			after := EvaluateAchievements(c)

			assert.GreaterOrEqual(t, UnlockedCount(after), UnlockedCount(before))
			for i := range before {
				if before[i].Category != cat {
					assert.Equal(t, before[i].Unlocked, after[i].Unlocked, "%s changed", before[i].ID)
				} else if before[i].Unlocked {
					assert.True(t, after[i].Unlocked, "%s relocked", before[i].ID)
				}
			}
		})
	}
}

func TestEvaluate_AppendedDefinitionsDoNotAffectOthers(t *testing.T) {
	counters := Counters{CompletedTasks: 3, StreakDays: 7}
	before := Evaluate(counters, Catalog())

	extended := append(Catalog(), Definition{ID: "tasks_3", Category: CategoryTasks, Requirement: 3})
	after := Evaluate(counters, extended)

	require.Len(t, after, len(before)+1)
	for i := range before {
		assert.Equal(t, before[i], after[i])
	}
	assert.True(t, after[len(after)-1].Unlocked)
}

func TestEvaluate_UnknownCategoryAndBadRequirement(t *testing.T) {
	defs := []Definition{
		{ID: "mystery", Category: Category("mystery"), Requirement: 1},
		{ID: "zero", Category: CategoryTasks, Requirement: 0},
	}
	achs := Evaluate(Counters{CompletedTasks: 5}, defs)
	assert.False(t, achs[0].Unlocked)
	assert.False(t, achs[1].Unlocked)
}

func TestCounters_ForClampsNegative(t *testing.T) {
	assert.Equal(t, 0, Counters{CompletedTasks: -4}.For(CategoryTasks))
}

func TestBuildCounters(t *testing.T) {
	in := CounterInputs{
		Tasks:         []records.Task{{Completed: true}, {Completed: false}, {Completed: true}},
		FocusSessions: []records.FocusSession{{Completed: true}, {Completed: false}},
		HealthLogs:    []records.HealthLog{{LogDate: "2024-03-13"}, {LogDate: "2024-03-14"}, {LogDate: "2024-03-14"}},
		Books:         []records.Book{{Completed: true}, {Completed: false}},
		DopamineLogs: []records.DopamineLog{
			dopamineDay("2024-03-13", 10, 60),
			dopamineDay("2024-03-14", 90, 60),
		},
		Transactions: make([]records.Transaction, 4),
		Gamification: records.GamificationState{StreakDays: 3},
	}

	assert.Equal(t, Counters{
		CompletedTasks:         2,
		CompletedFocusSessions: 1,
		HealthLoggedDays:       2,
		CompletedBooks:         1,
		DopamineCompliantDays:  1,
		TransactionCount:       4,
		StreakDays:             3,
	}, BuildCounters(in))

	assert.Equal(t, Counters{}, BuildCounters(CounterInputs{}))
}

func TestNextMilestones(t *testing.T) {
	counters := Counters{CompletedTasks: 9, StreakDays: 2}
	achs := EvaluateAchievements(counters)
	next := NextMilestones(achs, counters, 2)
	require.Len(t, next, 2)
	assert.Equal(t, "tasks_10", next[0].ID)
	assert.Equal(t, "focus_1", next[1].ID, "ties keep catalog order")
}

func TestByCategory(t *testing.T) {
	groups := ByCategory(EvaluateAchievements(Counters{}))
	assert.Len(t, groups[CategoryTasks], 4)
	assert.Len(t, groups[CategoryFinance], 2)
	assert.Equal(t, "Dopamine Control", CategoryDopamine.Title())
}
