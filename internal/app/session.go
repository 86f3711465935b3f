package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackwell-systems/disciplineos/internal/config"
	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/remote"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

// errReadOnly is returned by write commands when the configured source is
// the hosted backend.
var errReadOnly = errors.New("the supabase source is read-only; set source.kind to sqlite to record data")

// nowFunc is the clock used by every command.
var nowFunc = time.Now

// session bundles what a single command invocation needs.
type session struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer

	// db is set only for the sqlite source.
	db  *store.DB
	src snapshot.Source
}

// openSession loads config, builds the logger, applies color settings, and
// opens the configured source. Callers must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log, flagVerbose)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	output.AutoColor(os.Stdout, cfg.Output.Color && !flagNoColor)

	s := &session{cfg: cfg, log: logger, out: cmd.OutOrStdout()}

	switch cfg.Source.Kind {
	case config.SourceSupabase:
		c, err := remote.New(remote.Config{
			URL:    cfg.Source.Supabase.URL,
			Key:    cfg.Source.Supabase.Key,
			UserID: cfg.Source.Supabase.UserID,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to supabase: %w", err)
		}
		s.src = c
	default:
		path := cfg.DatabasePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		db, err := store.Open(path, store.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
		s.src = db
	}
	return s, nil
}

// Close releases the database and flushes the logger.
func (s *session) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.log.Sync()
}

// writable returns the local store or errReadOnly.
func (s *session) writable() (*store.DB, error) {
	if s.db == nil {
		return nil, errReadOnly
	}
	return s.db, nil
}

// now is the current time in the configured timezone.
func (s *session) now() time.Time {
	return nowFunc().In(s.cfg.Location())
}

// today is the viewer's local calendar date.
func (s *session) today() string {
	return s.now().Format("2006-01-02")
}

// load fetches a snapshot of every collection.
func (s *session) load(ctx context.Context) (*snapshot.Snapshot, error) {
	return snapshot.Load(ctx, s.src, snapshot.LoadOptions{Logger: s.log})
}

// dashboard loads and derives the full view model.
func (s *session) dashboard(ctx context.Context) (*snapshot.Dashboard, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Derive(snap, s.now(), s.cfg.DeriveOptions()), nil
}

// resolve expands an ID prefix against the local store.
func (s *session) resolve(ctx context.Context, table, prefix string) (string, error) {
	db, err := s.writable()
	if err != nil {
		return "", err
	}
	id, err := db.ResolveID(ctx, table, prefix)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("nothing in %s matches %q", table, prefix)
	}
	return id, err
}

// printf writes formatted user-facing output.
func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// println writes a user-facing line.
func (s *session) println(args ...any) {
	_, _ = fmt.Fprintln(s.out, args...)
}

// printJSON writes v as indented JSON.
func (s *session) printJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newLogger builds the diagnostic logger. Diagnostics go to stderr so they
// never mix with command output.
func newLogger(lc config.Log, verbose bool) (*zap.Logger, error) {
	return buildLogger(lc, verbose, "stderr")
}

// newFileLogger appends JSON-or-console diagnostics to path.
func newFileLogger(lc config.Log, path string) (*zap.Logger, error) {
	return buildLogger(lc, flagVerbose, path)
}

func buildLogger(lc config.Log, verbose bool, sink string) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == config.LogJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.OutputPaths = []string{sink}
	zc.ErrorOutputPaths = []string{sink}

	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if verbose {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.Level = level
	return zc.Build()
}
