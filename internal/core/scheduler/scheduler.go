// Package scheduler coalesces refresh triggers into a single pending refresh.
//
// A Scheduler owns at most one armed timer. Every call to Schedule cancels the
// pending timer (if any) and arms a new one, so triggers arriving in quick
// succession collapse into one fire at the delay of the last call. Each
// scheduled refresh carries a monotonically increasing generation so consumers
// can discard results produced for a refresh that has since been superseded.
package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reason identifies what triggered a refresh.
type Reason string

const (
	ReasonOpen     Reason = "open"
	ReasonTick     Reason = "tick"
	ReasonManual   Reason = "manual"
	ReasonComplete Reason = "complete"
	ReasonReload   Reason = "reload" // config file changed
)

// Request is delivered to the fire callback when a scheduled refresh is due.
type Request struct {
	Gen    uint64
	Notify bool // surface an acknowledgment once the refresh resolves
	Reason Reason
	Delay  time.Duration
}

// FireFunc receives due refresh requests. It is called from a timer goroutine
// with the scheduler's lock held: it must not block and must not call back
// into the Scheduler.
type FireFunc func(Request)

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for scheduling events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler holds a single pending refresh.
type Scheduler struct {
	fire      FireFunc
	afterFunc afterFunc
	log       zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	pending  timer
	stopped  bool
	stopTick chan struct{}
	wg       sync.WaitGroup
}

// New creates a Scheduler that calls fire for every refresh that comes due.
func New(fire FireFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		fire:      fire,
		afterFunc: realAfterFunc,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule cancels any pending refresh and arms a new one that fires after
// delay. A zero delay fires as soon as the runtime schedules the timer. The
// returned generation identifies the new refresh. Calls after Stop are no-ops
// and return the last issued generation.
func (s *Scheduler) Schedule(delay time.Duration, notify bool, reason Reason) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return s.gen
	}

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}

	s.gen++
	req := Request{
		Gen:    s.gen,
		Notify: notify,
		Reason: reason,
		Delay:  max(delay, 0),
	}
	s.pending = s.afterFunc(req.Delay, func() { s.onTimer(req) })

	s.log.Debug().
		Uint64("gen", req.Gen).
		Str("reason", string(reason)).
		Dur("delay", req.Delay).
		Msg("refresh scheduled")

	return req.Gen
}

// onTimer fires req unless it was superseded or the scheduler stopped while
// the timer goroutine was already running.
func (s *Scheduler) onTimer(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || req.Gen != s.gen {
		return
	}
	s.pending = nil
	s.fire(req)
}

// StartPeriodic schedules an immediate refresh every interval until Stop.
// Calling StartPeriodic again replaces the previous tick; a non-positive
// interval just cancels it.
func (s *Scheduler) StartPeriodic(interval time.Duration) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	if interval <= 0 {
		s.mu.Unlock()
		return
	}
	done := make(chan struct{})
	s.stopTick = done
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-done:
				return
			case <-t.C:
				s.Schedule(0, false, ReasonTick)
			}
		}
	}()
}

// Stop cancels the pending refresh and the periodic tick. Nothing fires after
// Stop returns. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Debug().Msg("scheduler stopped")
}

// Latest returns the most recently issued generation (0 before the first
// Schedule call).
func (s *Scheduler) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// IsCurrent reports whether gen is the most recently issued generation.
func (s *Scheduler) IsCurrent(gen uint64) bool {
	return gen == s.Latest()
}
