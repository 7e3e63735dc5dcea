package thingsbar

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/core/notify"
	"github.com/colonyops/thingsbar/internal/core/scheduler"
	"github.com/colonyops/thingsbar/internal/core/things"
)

// Refresher is the part of *scheduler.Scheduler the watcher drives.
type Refresher interface {
	Schedule(delay time.Duration, notify bool, reason scheduler.Reason) uint64
	StartPeriodic(interval time.Duration)
	Stop()
	IsCurrent(gen uint64) bool
}

// Snapshot is one resolved refresh of the Today list.
type Snapshot struct {
	Gen     uint64           `json:"gen"`
	Reason  scheduler.Reason `json:"reason"`
	Tasks   []things.Task    `json:"tasks"`
	Changed bool             `json:"changed"` // differs from the previous snapshot
	Err     error            `json:"-"`
}

// Watcher keeps the Today list fresh without a terminal UI. It follows the
// panel's refresh rules: one pending refresh, a periodic tick and results from
// superseded refreshes dropped.
type Watcher struct {
	tasks *TaskService
	queue *scheduler.Queue
	sched Refresher
	bus   *notify.Bus
	log   zerolog.Logger

	mu       sync.Mutex
	interval time.Duration
	last     []things.Task
	lastErr  error
	seen     bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithRefresher replaces the scheduler; fire must be wired to the returned
// refresher's firings.
func WithRefresher(build func(fire scheduler.FireFunc) Refresher) WatcherOption {
	return func(w *Watcher) { w.sched = build(w.queue.Push) }
}

// NewWatcher creates a watcher that refreshes every interval (0 disables the
// tick). Notifications about failures are published on bus.
func NewWatcher(tasks *TaskService, interval time.Duration, bus *notify.Bus, log zerolog.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		tasks:    tasks,
		queue:    scheduler.NewQueue(),
		bus:      bus,
		interval: interval,
		log:      logging.Sub(log, "watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.sched == nil {
		w.sched = scheduler.New(w.queue.Push, scheduler.WithLogger(w.log))
	}
	return w
}

// Refresh asks for an immediate refresh that is reported even when nothing
// changed.
func (w *Watcher) Refresh() {
	w.sched.Schedule(0, true, scheduler.ReasonManual)
}

// Reconfigure applies new hide patterns and tick interval, then refreshes.
func (w *Watcher) Reconfigure(hide []string, interval time.Duration) {
	w.tasks.SetHide(hide)

	w.mu.Lock()
	w.interval = interval
	w.mu.Unlock()

	w.sched.StartPeriodic(interval)
	w.sched.Schedule(0, false, scheduler.ReasonReload)
}

// Run refreshes immediately and then on every tick or Refresh until ctx is
// done. emit receives every snapshot; an emit error stops the watcher.
func (w *Watcher) Run(ctx context.Context, emit func(Snapshot) error) error {
	defer w.sched.Stop()

	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	w.sched.StartPeriodic(interval)
	w.sched.Schedule(0, false, scheduler.ReasonOpen)

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-w.queue.C():
			snap, ok := w.resolve(ctx, req)
			if !ok {
				continue
			}
			if err := emit(snap); err != nil {
				return err
			}
		}
	}
}

// resolve fetches the list for req. It reports false when the result must be
// dropped: the request was superseded or the watcher is shutting down.
func (w *Watcher) resolve(ctx context.Context, req scheduler.Request) (Snapshot, bool) {
	if !w.sched.IsCurrent(req.Gen) {
		w.log.Debug().Uint64("gen", req.Gen).Msg("dropping superseded refresh request")
		return Snapshot{}, false
	}

	tasks, err := w.tasks.Today(logging.WithRefreshGen(ctx, req.Gen))
	if ctx.Err() != nil {
		return Snapshot{}, false
	}
	if !w.sched.IsCurrent(req.Gen) {
		w.log.Debug().Uint64("gen", req.Gen).Msg("discarding stale refresh result")
		return Snapshot{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{Gen: req.Gen, Reason: req.Reason, Err: err}
	if err != nil {
		// Periodic failures only notify on the transition from healthy.
		if req.Notify || w.lastErr == nil {
			w.bus.Errorf("Refresh failed: %v", err)
		}
		w.lastErr = err
		snap.Changed = true
		return snap, true
	}

	snap.Tasks = tasks
	snap.Changed = !w.seen || w.lastErr != nil || !slices.Equal(w.last, tasks)
	if req.Notify {
		w.bus.Infof("Refreshed")
	}

	w.last = tasks
	w.lastErr = nil
	w.seen = true
	return snap, true
}
