package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

var refDay = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	tasks    []records.Task
	sessions []records.FocusSession
	dopamine []records.DopamineLog
	health   []records.HealthLog
	books    []records.Book
	txs      []records.Transaction
	game     records.GamificationState
	fail     map[string]error
	since    time.Time
	block    bool
}

func (f *fakeSource) err(ctx context.Context, name string) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.fail[name]
}

func (f *fakeSource) Tasks(ctx context.Context) ([]records.Task, error) {
	return f.tasks, f.err(ctx, CollectionTasks)
}

func (f *fakeSource) FocusSessions(ctx context.Context, since time.Time) ([]records.FocusSession, error) {
	f.since = since
	return f.sessions, f.err(ctx, CollectionFocusSessions)
}

func (f *fakeSource) DopamineLogs(ctx context.Context, _ time.Time) ([]records.DopamineLog, error) {
	return f.dopamine, f.err(ctx, CollectionDopamineLogs)
}

func (f *fakeSource) HealthLogs(ctx context.Context, _ time.Time) ([]records.HealthLog, error) {
	return f.health, f.err(ctx, CollectionHealthLogs)
}

func (f *fakeSource) Books(ctx context.Context) ([]records.Book, error) {
	return f.books, f.err(ctx, CollectionBooks)
}

func (f *fakeSource) Transactions(ctx context.Context) ([]records.Transaction, error) {
	return f.txs, f.err(ctx, CollectionTransactions)
}

func (f *fakeSource) Gamification(ctx context.Context) (records.GamificationState, error) {
	return f.game, f.err(ctx, CollectionGamification)
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func populated() *fakeSource {
	return &fakeSource{
		tasks: []records.Task{
			{Title: "a", Completed: true, CreatedAt: ts("2024-03-12T09:00:00Z"), UpdatedAt: ts("2024-03-14T09:00:00Z")},
			{Title: "b", CreatedAt: ts("2024-03-13T09:00:00Z"), UpdatedAt: ts("2024-03-13T09:00:00Z")},
		},
		sessions: []records.FocusSession{
			{DurationMinutes: 45, Completed: true, StartedAt: ts("2024-03-10T09:00:00Z")},
			{DurationMinutes: 30, Completed: true, StartedAt: ts("2024-03-10T14:00:00Z")},
			{DurationMinutes: 25, Completed: true, StartedAt: ts("2024-03-14T08:00:00Z")},
		},
		dopamine: []records.DopamineLog{
			{LogDate: "2024-03-13", TimeSpentMinutes: 20, DailyLimitMinutes: 60},
			{LogDate: "2024-03-14", TimeSpentMinutes: 30, DailyLimitMinutes: 60},
		},
		health: []records.HealthLog{
			{LogDate: "2024-03-14", WaterGlasses: 8, StretchingMinutes: 15, ExerciseMinutes: 30},
		},
		books: []records.Book{
			{Title: "Dune", CurrentPage: 100, TotalPages: 400, DailyGoalPages: 50},
		},
		txs: []records.Transaction{
			{Amount: 1000, TransactionType: records.TransactionIncome, TransactionDate: "2024-03-01"},
			{Amount: 250, TransactionType: records.TransactionExpense, Category: "Food", TransactionDate: "2024-03-13"},
		},
		game: records.GamificationState{XP: 250, Level: 1, StreakDays: 1},
	}
}

func TestLoad_AllCollections(t *testing.T) {
	src := populated()
	since := ts("2024-03-01T00:00:00Z")
	snap, err := Load(context.Background(), src, LoadOptions{Since: since})
	require.NoError(t, err)

	assert.Len(t, snap.Tasks, 2)
	assert.Len(t, snap.FocusSessions, 3)
	assert.Len(t, snap.DopamineLogs, 2)
	assert.Len(t, snap.HealthLogs, 1)
	assert.Len(t, snap.Books, 1)
	assert.Len(t, snap.Transactions, 2)
	assert.Equal(t, 250, snap.Gamification.XP)
	assert.Empty(t, snap.Unavailable)
	assert.Equal(t, since, src.since)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestLoad_FailedFetchIsEmpty(t *testing.T) {
	src := populated()
	src.fail = map[string]error{
		CollectionFocusSessions: errors.New("connection reset"),
		CollectionGamification:  errors.New("timeout"),
	}

	snap, err := Load(context.Background(), src, LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, snap.FocusSessions)
	assert.Equal(t, records.DefaultGamification(), snap.Gamification)
	assert.Equal(t, []string{CollectionFocusSessions, CollectionGamification}, snap.Unavailable)
	assert.Len(t, snap.Tasks, 2)

	d := Derive(snap, refDay, DefaultDeriveOptions())
	require.Len(t, d.Analytics.Focus, 14)
	assert.Zero(t, d.Analytics.FocusMinutes)
	assert.Equal(t, snap.Unavailable, d.Unavailable)
}

func TestLoad_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := populated()
	src.block = true

	done := make(chan struct{})
	var err error
	go func() {
		_, err = Load(ctx, src, LoadOptions{})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Load did not return after cancel")
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDerive_Dashboard(t *testing.T) {
	snap, err := Load(context.Background(), populated(), LoadOptions{})
	require.NoError(t, err)

	d := Derive(snap, refDay, DefaultDeriveOptions())
	assert.Equal(t, "2024-03-14", d.Date)

	assert.True(t, d.Dopamine.Logged)
	assert.Equal(t, 50, d.Dopamine.Score)
	assert.Equal(t, "Moderate", d.Dopamine.Label)
	assert.Equal(t, 2, d.Dopamine.Streak)
	assert.Equal(t, 2, d.Dopamine.CompliantDays)

	assert.True(t, d.Health.Logged)
	assert.Equal(t, 100, d.Health.Score)

	assert.Equal(t, TaskView{Open: 1, Completed: 1}, d.Tasks)
	assert.Equal(t, 25, d.FocusToday)
	require.NotNil(t, d.ActiveBook)
	assert.Equal(t, 6, d.ActiveBook.DaysLeft)

	assert.Equal(t, 500, d.Level.XPForNextLevel)
	assert.InDelta(t, 50.0, d.Level.XPProgressPercent, 1e-9)

	// Active on 03-10, 03-13 and 03-14; the gap before 03-13 ends the run.
	assert.Equal(t, 2, d.ActivityStreak)
	assert.True(t, d.StreakChanged())
	assert.Equal(t, 1, d.Counters.StreakDays, "counters use the persisted streak")

	assert.Equal(t, 18, d.TotalCount)
	assert.Equal(t, 2, d.UnlockedCount, "tasks_1 and focus_1")
	assert.Len(t, d.NextMilestones, 3)

	require.Len(t, d.Analytics.Focus, 14)
	assert.Equal(t, 100, d.Analytics.FocusMinutes)
	assert.Equal(t, 2, d.Analytics.TasksAdded)
	assert.Equal(t, 1, d.Analytics.TasksCompleted)

	assert.Equal(t, 75, d.Finance.Month.SavingsRate)
	require.Len(t, d.Finance.Spending, 7)
	assert.Equal(t, 250.0, d.Finance.Spending[5].Value)
	assert.Len(t, d.Finance.Growth, 6)
}

func TestDerive_Deterministic(t *testing.T) {
	snap, err := Load(context.Background(), populated(), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, Derive(snap, refDay, DeriveOptions{}), Derive(snap, refDay, DeriveOptions{}))
}

func TestDerive_EmptySnapshot(t *testing.T) {
	d := Derive(nil, refDay, DeriveOptions{})
	assert.False(t, d.Dopamine.Logged)
	assert.Equal(t, 100, d.Dopamine.Score)
	assert.Equal(t, 60, d.Dopamine.RemainingMinutes)
	assert.False(t, d.Health.Logged)
	assert.Nil(t, d.ActiveBook)
	assert.Zero(t, d.ActivityStreak)
	assert.Zero(t, d.UnlockedCount)
	assert.Len(t, d.Analytics.Tasks, 14)
	assert.Equal(t, 1, d.Level.Level)
}

func TestDeriveAnalytics_Window(t *testing.T) {
	snap, err := Load(context.Background(), populated(), LoadOptions{})
	require.NoError(t, err)

	a := DeriveAnalytics(snap, refDay, 3)
	require.Len(t, a.Focus, 3)
	assert.Equal(t, "2024-03-12", a.Focus[0].Date)
	assert.Equal(t, 25, a.FocusMinutes)
	require.Len(t, a.Reading, 1)
	assert.Equal(t, 25, a.Reading[0].Percent)
}
