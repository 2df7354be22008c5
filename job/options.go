package job

import "time"

// Options configures per-job behavior: when the job becomes due and how
// long its action may run.
type Options struct {
	// Deadline is the absolute instant at which the job becomes eligible
	// to run. Zero means the deadline is derived from Delay.
	Deadline time.Time

	// Delay schedules the job relative to the clock's current instant.
	// Ignored when Deadline is set. Zero means immediately due.
	Delay time.Duration

	// Timeout is the maximum duration the action may run before its
	// context is cancelled. Zero means no timeout.
	Timeout time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Option is a functional option for configuring a submitted job.
type Option func(*Options)

// At schedules the job for execution at an absolute instant.
// It takes precedence over After.
func At(t time.Time) Option {
	return func(o *Options) {
		o.Deadline = t
	}
}

// After schedules the job for execution after the given delay, measured
// from the scheduler clock's current instant at submission time.
func After(d time.Duration) Option {
	return func(o *Options) {
		o.Delay = d
	}
}

// WithTimeout sets the maximum execution duration for the action.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}
