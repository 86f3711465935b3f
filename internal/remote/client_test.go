package remote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

// fakeFetcher serves canned PostgREST JSON per table.
type fakeFetcher struct {
	mu      sync.Mutex
	bodies  map[string]string
	err     error
	queries []query
}

func (f *fakeFetcher) fetch(q query, dst any) error {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	body, ok := f.bodies[q.table]
	if !ok {
		body = "[]"
	}
	return json.Unmarshal([]byte(body), dst)
}

var fixtures = map[string]string{
	"tasks": `[{"id":"t1","title":"Read","description":null,"priority":"high","category":"today",
		"due_date":"2024-03-20","estimated_minutes":null,"completed":true,"sort_order":0,
		"created_at":"2024-03-12T09:00:00.123456+00:00","updated_at":"2024-03-14T09:00:00+00:00"}]`,
	"focus_sessions": `[{"id":"f1","duration_minutes":45,"session_type":"pomodoro","completed":true,
		"started_at":"2024-03-10T09:00:00+00:00","completed_at":"2024-03-10T09:45:00+00:00"},
		{"id":"f2","duration_minutes":30,"session_type":"custom","completed":false,
		"started_at":"2024-03-10T12:00:00+00:00","completed_at":null}]`,
	"dopamine_logs": `[{"id":"d1","log_date":"2024-03-13","time_spent_minutes":70,"daily_limit_minutes":60,
		"notes":null,"created_at":"2024-03-13T22:00:00+00:00"}]`,
	"health_logs": `[{"id":"h1","log_date":"2024-03-14","water_glasses":6,"stretching_minutes":10,
		"exercise_minutes":20,"exercise_type":"yoga","notes":null,
		"created_at":"2024-03-14T08:00:00+00:00","updated_at":"2024-03-14T08:00:00+00:00"}]`,
	"books": `[{"id":"b1","title":"Dune","total_pages":400,"current_page":120,"daily_goal_pages":20,
		"completed":false,"created_at":"2024-03-01T08:00:00+00:00","updated_at":"2024-03-01T08:00:00+00:00"}]`,
	"finances": `[{"id":"x1","amount":19.99,"transaction_type":"expense","category":null,"description":"lunch",
		"transaction_date":"2024-03-14","created_at":"2024-03-14T12:00:00+00:00"}]`,
	"gamification": `[{"xp":120,"level":2,"streak_days":4,"updated_at":"2024-03-14T12:00:00+00:00"}]`,
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{URL: "https://example.supabase.co"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_DecodesRows(t *testing.T) {
	ctx := context.Background()
	c := newClient(&fakeFetcher{bodies: fixtures}, "", DefaultBreakerConfig(), nil)

	tasks, err := c.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "", tasks[0].Description)
	assert.Equal(t, 0, tasks[0].EstimatedMinutes)
	assert.Equal(t, time.Date(2024, 3, 12, 9, 0, 0, 123456000, time.UTC), tasks[0].CreatedAt.UTC())

	sessions, err := c.FocusSessions(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.NotNil(t, sessions[0].CompletedAt)
	assert.Nil(t, sessions[1].CompletedAt)

	dopamine, err := c.DopamineLogs(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, dopamine, 1)
	assert.False(t, dopamine[0].Compliant())

	health, err := c.HealthLogs(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "yoga", health[0].ExerciseType)

	books, err := c.Books(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, books[0].CurrentPage)

	txs, err := c.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 19.99, txs[0].Amount)
	assert.Equal(t, "", txs[0].Category)

	g, err := c.Gamification(ctx)
	require.NoError(t, err)
	assert.Equal(t, records.GamificationState{XP: 120, Level: 2, StreakDays: 4, UpdatedAt: g.UpdatedAt}, g)
}

func TestClient_Filters(t *testing.T) {
	f := &fakeFetcher{bodies: fixtures}
	c := newClient(f, "user-1", DefaultBreakerConfig(), nil)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.FocusSessions(context.Background(), from)
	require.NoError(t, err)
	_, err = c.DopamineLogs(context.Background(), from)
	require.NoError(t, err)

	require.Len(t, f.queries, 2)
	assert.Equal(t, "started_at", f.queries[0].gteCol)
	assert.Equal(t, "2024-03-01T00:00:00Z", f.queries[0].gteVal)
	assert.Equal(t, [][2]string{{"user_id", "user-1"}}, f.queries[0].eq)
	assert.Equal(t, "2024-03-01", f.queries[1].gteVal)
}

func TestClient_EmptyGamificationIsDefault(t *testing.T) {
	c := newClient(&fakeFetcher{bodies: map[string]string{}}, "", DefaultBreakerConfig(), nil)
	g, err := c.Gamification(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records.DefaultGamification(), g)
}

func TestClient_BreakerTrips(t *testing.T) {
	f := &fakeFetcher{err: errors.New("503 service unavailable")}
	c := newClient(f, "", DefaultBreakerConfig(), nil)
	ctx := context.Background()

	for range 3 {
		_, err := c.Tasks(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.Tasks(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, f.queries, 3, "open breaker short-circuits the fetch")
}

func TestClient_CanceledContext(t *testing.T) {
	f := &fakeFetcher{bodies: fixtures}
	c := newClient(f, "", DefaultBreakerConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Books(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.queries)
}

func TestClient_FailuresBecomeEmptySnapshot(t *testing.T) {
	c := newClient(&fakeFetcher{err: errors.New("offline")}, "", DefaultBreakerConfig(), nil)
	snap, err := snapshot.Load(context.Background(), c, snapshot.LoadOptions{})
	require.NoError(t, err)
	assert.Len(t, snap.Unavailable, 7)
	assert.Equal(t, records.DefaultGamification(), snap.Gamification)
}
