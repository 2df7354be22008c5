// Package clock abstracts the passage of time for the scheduler.
//
// Two implementations are provided: System(), backed by the runtime's
// monotonic clock, and Virtual, whose reported instant moves only when a
// controller calls Advance. The scheduler is written entirely against the
// Clock interface, so the same worker loop runs against wall-clock time in
// production and against a manually-stepped clock in deterministic tests.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant and deadline timers.
//
// Implementations must be safe for concurrent use. The scheduler assumes
// Now never moves backwards; a regressing implementation violates the
// contract and the scheduler does not defend against it.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Advance moves the clock forward by d. It is a no-op for the system
	// clock; the virtual clock applies it under its own lock. Negative
	// durations are ignored.
	Advance(d time.Duration)

	// NewTimer returns a timer whose channel receives once the clock
	// reaches Now().Add(d). A non-positive d fires immediately.
	NewTimer(d time.Duration) Timer

	// NewTimerAt returns a timer whose channel receives once the clock
	// reaches target. A target at or before Now fires immediately. Unlike
	// NewTimer, the instant is fixed by the caller, so a clock advance
	// between the caller computing target and the timer registering still
	// fires the timer.
	NewTimerAt(target time.Time) Timer
}

// Timer is a single-shot deadline notification.
type Timer interface {
	// C returns the channel the fire time is delivered on.
	C() <-chan time.Time

	// Stop cancels the timer. It reports whether the timer was stopped
	// before firing.
	Stop() bool
}

// Compile-time interface checks.
var (
	_ Clock = systemClock{}
	_ Clock = (*Virtual)(nil)
)

// ──────────────────────────────────────────────────
// System clock
// ──────────────────────────────────────────────────

type systemClock struct{}

// System returns the real clock backed by the time package.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Advance(time.Duration) {}

func (systemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

func (systemClock) NewTimerAt(target time.Time) Timer {
	return &systemTimer{t: time.NewTimer(time.Until(target))}
}

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time { return s.t.C }

func (s *systemTimer) Stop() bool { return s.t.Stop() }

// ──────────────────────────────────────────────────
// Virtual clock
// ──────────────────────────────────────────────────

// Virtual is a clock whose instant moves only when Advance is called.
// Timers created from it fire as Advance carries the clock past their
// target instant. Safe for concurrent use: readers observe either the
// pre- or post-advance instant, never a torn value.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*virtualTimer
}

// NewVirtual returns a Virtual clock starting at the given instant.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the clock's current instant.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Advance moves the clock forward by d and fires every timer whose target
// has been reached. Negative durations are ignored.
func (v *Virtual) Advance(d time.Duration) {
	if d < 0 {
		return
	}

	v.mu.Lock()
	v.now = v.now.Add(d)
	now := v.now

	var fired []*virtualTimer
	remaining := v.timers[:0]
	for _, t := range v.timers {
		if !t.target.After(now) {
			fired = append(fired, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	v.timers = remaining
	v.mu.Unlock()

	// Deliver outside the lock; channels are buffered so this never blocks.
	for _, t := range fired {
		t.fire(now)
	}
}

// NewTimer returns a timer that fires once the clock reaches Now().Add(d).
func (v *Virtual) NewTimer(d time.Duration) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newTimerLocked(v.now.Add(d))
}

// NewTimerAt returns a timer that fires once the clock reaches target. The
// comparison against the current instant happens under the clock's lock, so
// a target the clock has already passed fires immediately no matter how many
// Advance calls landed before registration.
func (v *Virtual) NewTimerAt(target time.Time) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newTimerLocked(target)
}

// newTimerLocked registers or immediately fires a timer. Caller holds v.mu;
// fire never blocks because the channel is buffered.
func (v *Virtual) newTimerLocked(target time.Time) *virtualTimer {
	t := &virtualTimer{
		clock:  v,
		target: target,
		ch:     make(chan time.Time, 1),
	}
	if !target.After(v.now) {
		t.fire(v.now)
		return t
	}
	v.timers = append(v.timers, t)
	return t
}

type virtualTimer struct {
	clock  *Virtual
	target time.Time
	ch     chan time.Time

	mu    sync.Mutex
	fired bool
}

func (t *virtualTimer) C() <-chan time.Time { return t.ch }

func (t *virtualTimer) fire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired {
		return
	}
	t.fired = true
	t.ch <- now
}

// Stop deregisters the timer from its clock. It reports whether the timer
// was stopped before firing.
func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	for i, other := range t.clock.timers {
		if other == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			break
		}
	}
	t.clock.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired {
		return false
	}
	t.fired = true
	return true
}
