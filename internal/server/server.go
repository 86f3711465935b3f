// Package server exposes derived dashboard metrics as read-only JSON over
// HTTP, plus Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

// maxWindowDays bounds the analytics window a client may request.
const maxWindowDays = 365

// Options configures a Server.
type Options struct {
	Derive snapshot.DeriveOptions
	// Now returns the viewer's current time; its location defines the
	// local calendar day. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Server serves derived metrics computed from a snapshot.Source. Every
// request loads a fresh snapshot.
type Server struct {
	src     snapshot.Source
	opts    Options
	log     *zap.Logger
	metrics *collector
}

// New returns a Server reading from src.
func New(src snapshot.Source, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		src:     src,
		opts:    opts,
		log:     opts.Logger,
		metrics: newCollector("disciplineos"),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)
	r.Get("/metrics", s.metrics.handler().ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.dashboard)
		r.Get("/achievements", s.achievements)
		r.Get("/analytics", s.analytics)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) load(r *http.Request, endpoint string) (*snapshot.Snapshot, time.Time, bool) {
	start := time.Now()
	snap, err := snapshot.Load(r.Context(), s.src, snapshot.LoadOptions{Logger: s.log})
	if err != nil {
		return nil, time.Time{}, false
	}
	s.metrics.observeLoad(time.Since(start), snap.Unavailable)
	s.metrics.derivations.WithLabelValues(endpoint).Inc()
	return snap, s.opts.Now(), true
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	snap, now, ok := s.load(r, "dashboard")
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	writeJSON(w, http.StatusOK, snapshot.Derive(snap, now, s.opts.Derive))
}

type achievementsResponse struct {
	Achievements  []metrics.Achievement `json:"achievements"`
	UnlockedCount int                   `json:"unlocked_count"`
	TotalCount    int                   `json:"total_count"`
	Counters      metrics.Counters      `json:"counters"`
	Level         metrics.LevelProgress `json:"level"`
	Version       int                   `json:"catalog_version"`
}

func (s *Server) achievements(w http.ResponseWriter, r *http.Request) {
	snap, now, ok := s.load(r, "achievements")
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	d := snapshot.Derive(snap, now, s.opts.Derive)
	writeJSON(w, http.StatusOK, achievementsResponse{
		Achievements:  d.Achievements,
		UnlockedCount: d.UnlockedCount,
		TotalCount:    d.TotalCount,
		Counters:      d.Counters,
		Level:         d.Level,
		Version:       metrics.CatalogVersion,
	})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	days := s.opts.Derive.WindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxWindowDays {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
			return
		}
		days = n
	}

	snap, now, ok := s.load(r, "analytics")
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	writeJSON(w, http.StatusOK, snapshot.DeriveAnalytics(snap, now, days))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
