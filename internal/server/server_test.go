package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.DB) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := New(db, Options{Derive: snapshot.DefaultDeriveOptions()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDashboard(t *testing.T) {
	ts, db := newTestServer(t)
	ctx := context.Background()

	for range 10 {
		task, err := db.AddTask(ctx, store.TaskInput{Title: "t"})
		require.NoError(t, err)
		require.NoError(t, db.SetTaskCompleted(ctx, task.ID, true))
	}
	_, err := db.UpsertDopamineLog(ctx, store.DopamineInput{
		LogDate: time.Now().Format(records.DateLayout), TimeSpentMinutes: 15, DailyLimitMinutes: 60,
	})
	require.NoError(t, err)

	var d snapshot.Dashboard
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/dashboard", &d))
	assert.Equal(t, 75, d.Dopamine.Score)
	assert.Equal(t, 10, d.Counters.CompletedTasks)
	assert.Equal(t, 18, d.TotalCount)
	assert.Equal(t, 2, d.UnlockedCount)
	assert.Len(t, d.Analytics.Focus, 14)
}

func TestAchievements(t *testing.T) {
	ts, _ := newTestServer(t)
	var body achievementsResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/achievements", &body))
	assert.Len(t, body.Achievements, 18)
	assert.Zero(t, body.UnlockedCount)
	assert.Equal(t, 1, body.Version)
	assert.Equal(t, 500, body.Level.XPForNextLevel)
}

func TestAnalytics_Days(t *testing.T) {
	ts, _ := newTestServer(t)

	var a snapshot.Analytics
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/analytics?days=7", &a))
	assert.Equal(t, 7, a.WindowDays)
	assert.Len(t, a.Focus, 7)
	assert.Len(t, a.Tasks, 7)

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/analytics", &a))
	assert.Len(t, a.Focus, 14)

	for _, bad := range []string{"0", "-3", "abc", "1000"} {
		var e map[string]string
		assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/analytics?days="+bad, &e), bad)
		assert.NotEmpty(t, e["error"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/dashboard", nil))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `disciplineos_derivations_total{endpoint="dashboard"} 1`), text)
	assert.Contains(t, text, "disciplineos_snapshot_load_seconds_count 1")
	assert.Contains(t, text, `route="/api/dashboard"`)
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(db, Options{}).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
