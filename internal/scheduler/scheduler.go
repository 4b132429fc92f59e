// Package scheduler provides one-shot deferred execution of callbacks at
// a future instant. Timers live in process memory only and do not survive
// a restart.
package scheduler

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrInstantPassed is returned when the requested instant is not in the
// future.
var ErrInstantPassed = errors.New("scheduler: instant already passed")

// Handle represents a pending scheduled callback. Cancel stops the timer
// if the callback has not fired yet.
type Handle struct {
	timer *time.Timer

	mu    sync.Mutex
	done  bool
	fired bool
}

// Cancel stops the pending callback. It reports whether the cancellation
// took effect; it returns false when the callback already fired or the
// handle was cancelled before. Cancel is safe to call multiple times.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	return h.timer.Stop()
}

// Fired reports whether the callback has started executing.
func (h *Handle) Fired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fired
}

func (h *Handle) markFired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	h.fired = true
	return true
}

// Scheduler schedules callbacks to run once at a future instant.
type Scheduler struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Scheduler. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger: logger,
		now:    time.Now,
	}
}

// ScheduleAt arranges for fn to run once at the given instant. The
// instant must be strictly in the future, otherwise ErrInstantPassed is
// returned and nothing is scheduled. The callback runs on the timer
// goroutine; panics inside fn are recovered and logged so a misbehaving
// callback cannot take the process down.
func (s *Scheduler) ScheduleAt(at time.Time, fn func()) (*Handle, error) {
	delay := at.Sub(s.now())
	if delay <= 0 {
		return nil, ErrInstantPassed
	}

	h := &Handle{}
	h.timer = time.AfterFunc(delay, func() {
		if !h.markFired() {
			// Cancelが間に合った場合は何もしない
			return
		}
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("scheduled callback panicked",
					slog.Any("panic", r),
					slog.Time("scheduled_at", at),
				)
			}
		}()
		fn()
	})
	return h, nil
}
