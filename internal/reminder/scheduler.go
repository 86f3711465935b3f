package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrRunning is returned by Start when the scheduler is already running.
var ErrRunning = errors.New("reminder scheduler already running")

// Scheduler owns one ticker per active reminder kind. It has no global
// state: everything it starts, Stop tears down.
type Scheduler struct {
	notifier Notifier
	log      *zap.Logger
	unit     time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cfg     Config
	parent  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(cfg Config, n Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		notifier: n,
		log:      logger,
		unit:     time.Minute,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Start launches a ticker goroutine for every active kind. The loops stop
// when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	s.parent = ctx
	s.launch()
	return nil
}

// launch must be called with mu held.
func (s *Scheduler) launch() {
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.running = true

	for _, k := range Kinds {
		if !s.cfg.Active(k) {
			continue
		}
		interval := time.Duration(s.cfg.For(k).IntervalMinutes) * s.unit
		s.log.Info("reminder scheduled", zap.String("kind", string(k)), zap.Duration("interval", interval))
		s.wg.Add(1)
		go s.loop(ctx, k, interval)
	}
}

func (s *Scheduler) loop(ctx context.Context, k Kind, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.notifier.Notify(New(k, s.now())); err != nil {
				s.log.Warn("reminder delivery failed", zap.String("kind", string(k)), zap.Error(err))
			}
		}
	}
}

// Stop cancels every loop and waits for them to exit. It is safe to call
// on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halt()
}

// halt must be called with mu held.
func (s *Scheduler) halt() {
	if !s.running {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.running = false
}

// Update replaces the configuration. A running scheduler restarts its
// loops with the new intervals; a stopped one just records it.
func (s *Scheduler) Update(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if !s.running {
		return
	}
	s.halt()
	if s.parent.Err() != nil {
		return
	}
	s.launch()
	s.log.Debug("reminder schedule reloaded")
}

// Running reports whether Start has been called without a matching Stop.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Config returns the current configuration.
func (s *Scheduler) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
