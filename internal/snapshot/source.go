// Package snapshot fetches raw records from a storage collaborator and
// derives the dashboard view model from them.
package snapshot

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// Source is a storage collaborator the dashboard reads raw records from.
// A zero since means no lower bound.
type Source interface {
	Tasks(ctx context.Context) ([]records.Task, error)
	FocusSessions(ctx context.Context, since time.Time) ([]records.FocusSession, error)
	DopamineLogs(ctx context.Context, since time.Time) ([]records.DopamineLog, error)
	HealthLogs(ctx context.Context, since time.Time) ([]records.HealthLog, error)
	Books(ctx context.Context) ([]records.Book, error)
	Transactions(ctx context.Context) ([]records.Transaction, error)
	Gamification(ctx context.Context) (records.GamificationState, error)
}

// Collection names reported in Snapshot.Unavailable.
const (
	CollectionTasks         = "tasks"
	CollectionFocusSessions = "focus_sessions"
	CollectionDopamineLogs  = "dopamine_logs"
	CollectionHealthLogs    = "health_logs"
	CollectionBooks         = "books"
	CollectionTransactions  = "finances"
	CollectionGamification  = "gamification"
)

// Snapshot is an immutable set of raw records fetched at one point in time.
type Snapshot struct {
	Tasks         []records.Task            `json:"tasks"`
	FocusSessions []records.FocusSession    `json:"focus_sessions"`
	DopamineLogs  []records.DopamineLog     `json:"dopamine_logs"`
	HealthLogs    []records.HealthLog       `json:"health_logs"`
	Books         []records.Book            `json:"books"`
	Transactions  []records.Transaction     `json:"transactions"`
	Gamification  records.GamificationState `json:"gamification"`
	FetchedAt     time.Time                 `json:"fetched_at"`
	Unavailable   []string                  `json:"unavailable,omitempty"`
}

// LoadOptions controls a Load call.
type LoadOptions struct {
	// Since bounds the dated collections. Zero loads everything, which the
	// all-time achievement counters need.
	Since  time.Time
	Logger *zap.Logger
}

type loader struct {
	log *zap.Logger
	mu  sync.Mutex
	bad []string
}

func (l *loader) fail(name string, err error) {
	l.log.Warn("fetch failed, treating as empty", zap.String("collection", name), zap.Error(err))
	l.mu.Lock()
	l.bad = append(l.bad, name)
	l.mu.Unlock()
}

func fetch[T any](ctx context.Context, g *errgroup.Group, l *loader, name string, dst *T, fn func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			l.fail(name, err)
			return nil
		}
		*dst = v
		return nil
	})
}

// Load fetches every collection concurrently. A collection whose fetch
// fails is logged and left empty so the dashboard can still render; the
// only error returned is the context's.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Snapshot, error) {
	l := &loader{log: opts.Logger}
	if l.log == nil {
		l.log = zap.NewNop()
	}

	snap := &Snapshot{Gamification: records.DefaultGamification()}
	since := opts.Since
	start := time.Now()

	var g errgroup.Group
	fetch(ctx, &g, l, CollectionTasks, &snap.Tasks, src.Tasks)
	fetch(ctx, &g, l, CollectionFocusSessions, &snap.FocusSessions, func(ctx context.Context) ([]records.FocusSession, error) {
		return src.FocusSessions(ctx, since)
	})
	fetch(ctx, &g, l, CollectionDopamineLogs, &snap.DopamineLogs, func(ctx context.Context) ([]records.DopamineLog, error) {
		return src.DopamineLogs(ctx, since)
	})
	fetch(ctx, &g, l, CollectionHealthLogs, &snap.HealthLogs, func(ctx context.Context) ([]records.HealthLog, error) {
		return src.HealthLogs(ctx, since)
	})
	fetch(ctx, &g, l, CollectionBooks, &snap.Books, src.Books)
	fetch(ctx, &g, l, CollectionTransactions, &snap.Transactions, src.Transactions)
	fetch(ctx, &g, l, CollectionGamification, &snap.Gamification, src.Gamification)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap.FetchedAt = time.Now()
	snap.Unavailable = l.bad
	slices.Sort(snap.Unavailable)
	l.log.Debug("snapshot loaded",
		zap.Duration("elapsed", snap.FetchedAt.Sub(start)),
		zap.Int("tasks", len(snap.Tasks)),
		zap.Int("focus_sessions", len(snap.FocusSessions)),
		zap.Int("dopamine_logs", len(snap.DopamineLogs)),
		zap.Int("health_logs", len(snap.HealthLogs)),
		zap.Int("books", len(snap.Books)),
		zap.Int("transactions", len(snap.Transactions)),
		zap.Strings("unavailable", snap.Unavailable),
	)
	return snap, nil
}
