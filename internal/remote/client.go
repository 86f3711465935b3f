// Package remote reads disciplineos records from a hosted Supabase
// (PostgREST) project. It is read-only; writes go through the local store.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

// ErrNotConfigured is returned when the URL or key is missing.
var ErrNotConfigured = errors.New("supabase url and key are required")

// query is a PostgREST select with equality and lower-bound filters.
type query struct {
	table  string
	eq     [][2]string
	gteCol string
	gteVal string
}

// fetcher runs a query and decodes the JSON rows into dst.
type fetcher interface {
	fetch(q query, dst any) error
}

type postgrestFetcher struct {
	client *supabase.Client
}

func (p postgrestFetcher) fetch(q query, dst any) error {
	fb := p.client.From(q.table).Select("*", "", false)
	for _, f := range q.eq {
		fb = fb.Eq(f[0], f[1])
	}
	if q.gteCol != "" {
		fb = fb.Gte(q.gteCol, q.gteVal)
	}
	_, err := fb.ExecuteTo(dst)
	return err
}

// Config holds the connection settings.
type Config struct {
	URL string
	Key string
	// UserID, when set, restricts every query to one user's rows. Needed
	// when the key bypasses row level security.
	UserID string
}

// BreakerConfig tunes the circuit breaker around PostgREST calls.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig trips after 60% of at least 3 requests fail.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Client is a read-only snapshot.Source backed by Supabase.
type Client struct {
	f      fetcher
	cb     *gobreaker.CircuitBreaker
	userID string
	log    *zap.Logger
}

var _ snapshot.Source = (*Client)(nil)

// New connects to a Supabase project.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, ErrNotConfigured
	}
	sc, err := supabase.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return newClient(postgrestFetcher{client: sc}, cfg.UserID, DefaultBreakerConfig(), logger), nil
}

func newClient(f fetcher, userID string, bc BreakerConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{f: f, userID: userID, log: logger}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "supabase",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

func (c *Client) run(ctx context.Context, q query, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.userID != "" {
		q.eq = append(q.eq, [2]string{"user_id", c.userID})
	}
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.f.fetch(q, dst)
	})
	if err != nil {
		return fmt.Errorf("querying %s: %w", q.table, err)
	}
	c.log.Debug("postgrest query", zap.String("table", q.table))
	return nil
}

func since(col string, t time.Time, asDate bool) (string, string) {
	if t.IsZero() {
		return "", ""
	}
	if asDate {
		return col, t.Format(records.DateLayout)
	}
	return col, t.UTC().Format(time.RFC3339)
}

func (c *Client) Tasks(ctx context.Context) ([]records.Task, error) {
	var rows []taskRow
	if err := c.run(ctx, query{table: "tasks"}, &rows); err != nil {
		return nil, err
	}
	return convert[taskRow, records.Task](rows), nil
}

func (c *Client) FocusSessions(ctx context.Context, from time.Time) ([]records.FocusSession, error) {
	q := query{table: "focus_sessions"}
	q.gteCol, q.gteVal = since("started_at", from, false)
	var rows []focusRow
	if err := c.run(ctx, q, &rows); err != nil {
		return nil, err
	}
	return convert[focusRow, records.FocusSession](rows), nil
}

func (c *Client) DopamineLogs(ctx context.Context, from time.Time) ([]records.DopamineLog, error) {
	q := query{table: "dopamine_logs"}
	q.gteCol, q.gteVal = since("log_date", from, true)
	var rows []dopamineRow
	if err := c.run(ctx, q, &rows); err != nil {
		return nil, err
	}
	return convert[dopamineRow, records.DopamineLog](rows), nil
}

func (c *Client) HealthLogs(ctx context.Context, from time.Time) ([]records.HealthLog, error) {
	q := query{table: "health_logs"}
	q.gteCol, q.gteVal = since("log_date", from, true)
	var rows []healthRow
	if err := c.run(ctx, q, &rows); err != nil {
		return nil, err
	}
	return convert[healthRow, records.HealthLog](rows), nil
}

func (c *Client) Books(ctx context.Context) ([]records.Book, error) {
	var rows []bookRow
	if err := c.run(ctx, query{table: "books"}, &rows); err != nil {
		return nil, err
	}
	return convert[bookRow, records.Book](rows), nil
}

func (c *Client) Transactions(ctx context.Context) ([]records.Transaction, error) {
	var rows []financeRow
	if err := c.run(ctx, query{table: "finances"}, &rows); err != nil {
		return nil, err
	}
	return convert[financeRow, records.Transaction](rows), nil
}

// Gamification returns the first gamification row, or the default state
// when the user has none yet.
func (c *Client) Gamification(ctx context.Context) (records.GamificationState, error) {
	var rows []gamificationRow
	if err := c.run(ctx, query{table: "gamification"}, &rows); err != nil {
		return records.GamificationState{}, err
	}
	if len(rows) == 0 {
		return records.DefaultGamification(), nil
	}
	return rows[0].record(), nil
}
