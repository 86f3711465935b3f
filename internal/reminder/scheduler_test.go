package reminder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	got  []Reminder
	seen chan Kind
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan Kind, 256)}
}

func (r *recorder) Notify(rem Reminder) error {
	r.mu.Lock()
	r.got = append(r.got, rem)
	r.mu.Unlock()
	select {
	case r.seen <- rem.Kind:
	default:
	}
	return nil
}

func (r *recorder) count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, g := range r.got {
		if g.Kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) await(t *testing.T, k Kind) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-r.seen:
			if got == k {
				return
			}
		case <-deadline:
			t.Fatalf("no %s reminder delivered", k)
		}
	}
}

func fastScheduler(cfg Config, n Notifier) *Scheduler {
	s := NewScheduler(cfg, n, nil)
	s.unit = time.Millisecond
	return s
}

func TestScheduler_FiresOnlyActiveKinds(t *testing.T) {
	rec := newRecorder()
	cfg := DefaultConfig()
	cfg.Water = Setting{Enabled: true, IntervalMinutes: 5}
	s := fastScheduler(cfg, rec)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	rec.await(t, KindWater)
	rec.await(t, KindWater)
	assert.Zero(t, rec.count(KindStretch))
	assert.Zero(t, rec.count(KindExercise))
}

func TestScheduler_StartTwice(t *testing.T) {
	s := fastScheduler(DefaultConfig(), newRecorder())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.ErrorIs(t, s.Start(context.Background()), ErrRunning)
}

func TestScheduler_StopHaltsDelivery(t *testing.T) {
	rec := newRecorder()
	cfg := Config{Water: Setting{Enabled: true, IntervalMinutes: 2}}
	s := fastScheduler(cfg, rec)

	require.NoError(t, s.Start(context.Background()))
	rec.await(t, KindWater)
	s.Stop()
	assert.False(t, s.Running())

	before := rec.count(KindWater)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, rec.count(KindWater))

	s.Stop() // second Stop is a no-op
	require.NoError(t, s.Start(context.Background()), "restart after stop")
	s.Stop()
}

func TestScheduler_UpdateRestartsLoops(t *testing.T) {
	rec := newRecorder()
	s := fastScheduler(Config{Water: Setting{Enabled: true, IntervalMinutes: 3}}, rec)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	rec.await(t, KindWater)

	s.Update(Config{Stretch: Setting{Enabled: true, IntervalMinutes: 3}})
	assert.True(t, s.Running())
	rec.await(t, KindStretch)

	waterAfter := rec.count(KindWater)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, waterAfter, rec.count(KindWater), "water disabled by update")
	assert.True(t, s.Config().Stretch.Enabled)
}

func TestScheduler_UpdateWhileStopped(t *testing.T) {
	s := fastScheduler(DefaultConfig(), newRecorder())
	cfg := DefaultConfig()
	cfg.Exercise.Enabled = true
	s.Update(cfg)
	assert.False(t, s.Running())
	assert.True(t, s.Config().Exercise.Enabled)
}

func TestScheduler_ContextCancelStopsLoops(t *testing.T) {
	rec := newRecorder()
	s := fastScheduler(Config{Water: Setting{Enabled: true, IntervalMinutes: 2}}, rec)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	rec.await(t, KindWater)

	cancel()
	s.Stop()
	before := rec.count(KindWater)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, rec.count(KindWater))
}

func TestScheduler_DeliveryErrorKeepsRunning(t *testing.T) {
	calls := make(chan struct{}, 16)
	n := NotifierFunc(func(Reminder) error {
		select {
		case calls <- struct{}{}:
		default:
		}
		return errors.New("no notification daemon")
	})
	s := fastScheduler(Config{Water: Setting{Enabled: true, IntervalMinutes: 2}}, n)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	for range 2 {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler stopped after a failed delivery")
		}
	}
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.AnyActive())
	assert.Equal(t, 45, cfg.For(KindStretch).IntervalMinutes)
	assert.Equal(t, Setting{}, cfg.For(Kind("nap")))

	cfg.Exercise.Enabled = true
	assert.True(t, cfg.Active(KindExercise))
	assert.True(t, cfg.AnyActive())

	cfg.Exercise.IntervalMinutes = 0
	assert.False(t, cfg.Active(KindExercise), "zero interval never fires")
}

func TestNewAndPrint(t *testing.T) {
	at := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	r := New(KindWater, at)
	assert.Equal(t, "Time to drink a glass of water!", r.Body)

	var buf bytes.Buffer
	require.NoError(t, Writer(&buf).Notify(r))
	assert.Equal(t, "[09:30] 💧 Hydration Reminder: Time to drink a glass of water!\n", buf.String())
}
