package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_CreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "disciplineos.db")
	db, err := Open(path)
	require.NoError(t, err)

	var version int
	require.NoError(t, db.Conn().QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
	require.NoError(t, db.Close())

	// Reopening an already migrated database is a no-op.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestTasks_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	task, err := db.AddTask(ctx, TaskInput{Title: "Write report", EstimatedMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, CategoryToday, task.Category)
	assert.Len(t, task.ID, 36)

	_, err = db.AddTask(ctx, TaskInput{Title: "Plan quarter", Category: CategoryLongTerm, Priority: PriorityHigh})
	require.NoError(t, err)

	all, err := db.ListTasks(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	today, err := db.ListTasks(ctx, CategoryToday)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Write report", today[0].Title)
	assert.Equal(t, 30, today[0].EstimatedMinutes)

	require.NoError(t, db.UpdateTask(ctx, task.ID, TaskInput{Title: "Write final report", DueDate: "2024-03-20"}))
	got, err := db.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write final report", got.Title)
	assert.Equal(t, "2024-03-20", got.DueDate)

	require.NoError(t, db.DeleteTask(ctx, task.ID))
	_, err = db.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteTask(ctx, task.ID), ErrNotFound)
}

func TestSetTaskCompleted_BumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	task, err := db.AddTask(ctx, TaskInput{Title: "Stretch"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	require.NoError(t, db.SetTaskCompleted(ctx, task.ID, true))
	got, err := db.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	assert.ErrorIs(t, db.SetTaskCompleted(ctx, "missing", true), ErrNotFound)
}

func TestAddTask_Validation(t *testing.T) {
	db := openTestDB(t)
	_, err := db.AddTask(context.Background(), TaskInput{Priority: "urgent", DueDate: "tomorrow", EstimatedMinutes: -5})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Problems, "title is required")
	assert.Contains(t, ve.Problems, "priority must be one of: low medium high")
	assert.Contains(t, ve.Problems, "duedate must be a date like 2006-01-02")
	assert.Contains(t, ve.Problems, "estimatedminutes must be at least 0")
}

func TestFocusSessions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	s, err := db.StartFocusSession(ctx, FocusInput{DurationMinutes: 25})
	require.NoError(t, err)
	assert.Equal(t, SessionPomodoro, s.SessionType)

	open, err := db.LatestOpenFocusSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, open.ID)

	require.NoError(t, db.CompleteFocusSession(ctx, s.ID))
	assert.ErrorIs(t, db.CompleteFocusSession(ctx, s.ID), ErrNotFound, "already completed")
	_, err = db.LatestOpenFocusSession(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	sessions, err := db.ListFocusSessions(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Completed)
	require.NotNil(t, sessions[0].CompletedAt)

	later, err := db.ListFocusSessions(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, later)

	_, err = db.StartFocusSession(ctx, FocusInput{DurationMinutes: 0})
	assert.Error(t, err)
}

func TestUpsertDopamineLog_NeverDuplicates(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first, err := db.UpsertDopamineLog(ctx, DopamineInput{LogDate: "2024-03-14", TimeSpentMinutes: 20, DailyLimitMinutes: 60})
	require.NoError(t, err)
	second, err := db.UpsertDopamineLog(ctx, DopamineInput{LogDate: "2024-03-14", TimeSpentMinutes: 70, DailyLimitMinutes: 60, Notes: "binge"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "update happens in place")
	assert.Equal(t, 70, second.TimeSpentMinutes)
	assert.Equal(t, "binge", second.Notes)

	_, err = db.UpsertDopamineLog(ctx, DopamineInput{LogDate: "2024-03-13", TimeSpentMinutes: 10, DailyLimitMinutes: 60})
	require.NoError(t, err)

	logs, err := db.ListDopamineLogs(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-03-14", logs[0].LogDate)

	since, err := db.ListDopamineLogs(ctx, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, since, 1)

	_, err = db.UpsertDopamineLog(ctx, DopamineInput{LogDate: "14/03/2024"})
	assert.Error(t, err)
}

func TestUpsertHealthLog(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.UpsertHealthLog(ctx, HealthInput{LogDate: "2024-03-14", WaterGlasses: 3})
	require.NoError(t, err)
	h, err := db.UpsertHealthLog(ctx, HealthInput{LogDate: "2024-03-14", WaterGlasses: 8, ExerciseMinutes: 30, ExerciseType: "run"})
	require.NoError(t, err)
	assert.Equal(t, 8, h.WaterGlasses)
	assert.Equal(t, "run", h.ExerciseType)

	logs, err := db.ListHealthLogs(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestBooks_LogPages(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	b, err := db.AddBook(ctx, BookInput{Title: "Dune", TotalPages: 100, CurrentPage: 80, DailyGoalPages: 10})
	require.NoError(t, err)
	assert.False(t, b.Completed)

	b, err = db.LogPages(ctx, b.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 95, b.CurrentPage)
	assert.False(t, b.Completed)

	b, err = db.LogPages(ctx, b.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 100, b.CurrentPage, "capped at total pages")
	assert.True(t, b.Completed)

	books, err := db.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.True(t, books[0].Completed)

	_, err = db.LogPages(ctx, "missing", 5)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.LogPages(ctx, b.ID, 0)
	assert.Error(t, err)

	require.NoError(t, db.UpdateBook(ctx, b.ID, BookInput{Title: "Dune", TotalPages: 200, CurrentPage: 100}))
	books, err = db.ListBooks(ctx)
	require.NoError(t, err)
	assert.False(t, books[0].Completed, "more pages reopen the book")

	require.NoError(t, db.DeleteBook(ctx, b.ID))
	assert.ErrorIs(t, db.DeleteBook(ctx, b.ID), ErrNotFound)
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tx, err := db.AddTransaction(ctx, TransactionInput{Amount: 12.5, TransactionType: records.TransactionExpense, TransactionDate: "2024-03-14"})
	require.NoError(t, err)
	assert.Equal(t, "Other", tx.Category)

	_, err = db.AddTransaction(ctx, TransactionInput{Amount: 1000, TransactionType: records.TransactionIncome, Category: "Salary"})
	require.NoError(t, err)

	txs, err := db.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	_, err = db.AddTransaction(ctx, TransactionInput{Amount: -1, TransactionType: "gift"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)

	require.NoError(t, db.DeleteTransaction(ctx, tx.ID))
	txs, err = db.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestGamification(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	g, err := db.Gamification(ctx)
	require.NoError(t, err)
	assert.Equal(t, records.DefaultGamification(), g)

	require.NoError(t, db.SaveStreak(ctx, 4, "2024-03-14"))
	g, err = db.Gamification(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, g.StreakDays)
	assert.Equal(t, 1, g.Level)

	g, err = db.AwardXP(ctx, 650)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Level)
	assert.Equal(t, 150, g.XP)
	assert.Equal(t, 4, g.StreakDays, "xp does not touch the streak")

	require.NoError(t, db.SaveStreak(ctx, 5, "2024-03-15"))
	g, err = db.Gamification(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, g.XP, "streak does not touch xp")
	assert.Equal(t, 5, g.StreakDays)
}

func TestAddXP(t *testing.T) {
	xp, level := addXP(0, 1, 1600)
	// 500 for level 1, 1000 for level 2, 100 left at level 3.
	assert.Equal(t, 100, xp)
	assert.Equal(t, 3, level)

	xp, level = addXP(10, 0, 5)
	assert.Equal(t, 15, xp)
	assert.Equal(t, 1, level)
}

func TestResolveID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	a, err := db.AddTask(ctx, TaskInput{Title: "a"})
	require.NoError(t, err)
	_, err = db.AddTask(ctx, TaskInput{Title: "b"})
	require.NoError(t, err)

	id, err := db.ResolveID(ctx, TableTasks, a.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = db.ResolveID(ctx, TableTasks, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.ResolveID(ctx, TableTasks, "%")
	assert.ErrorIs(t, err, ErrNotFound, "wildcards are literal")
	_, err = db.ResolveID(ctx, "sqlite_master", "a")
	assert.Error(t, err)
}

func TestSource_FeedsSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	task, err := db.AddTask(ctx, TaskInput{Title: "done"})
	require.NoError(t, err)
	require.NoError(t, db.SetTaskCompleted(ctx, task.ID, true))
	s, err := db.StartFocusSession(ctx, FocusInput{DurationMinutes: 25})
	require.NoError(t, err)
	require.NoError(t, db.CompleteFocusSession(ctx, s.ID))
	today := time.Now().Format(records.DateLayout)
	_, err = db.UpsertDopamineLog(ctx, DopamineInput{LogDate: today, TimeSpentMinutes: 10, DailyLimitMinutes: 60})
	require.NoError(t, err)

	snap, err := snapshot.Load(ctx, db, snapshot.LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, snap.Unavailable)

	d := snapshot.Derive(snap, time.Now(), snapshot.DefaultDeriveOptions())
	assert.Equal(t, 1, d.Counters.CompletedTasks)
	assert.Equal(t, 1, d.Counters.CompletedFocusSessions)
	assert.Equal(t, 25, d.FocusToday)
	assert.Equal(t, 1, d.ActivityStreak)
	assert.True(t, d.StreakChanged())

	require.NoError(t, db.SaveStreak(ctx, d.ActivityStreak, d.Date))
	g, err := db.Gamification(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, g.StreakDays)
}
