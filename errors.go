package tempo

import "errors"

var (
	// ErrNoClock is returned by New when no clock is supplied.
	ErrNoClock = errors.New("tempo: no clock configured")

	// ErrNilAction is returned by Submit when the action is nil.
	ErrNilAction = errors.New("tempo: nil action")

	// ErrSchedulerClosed is returned by Submit after Shutdown has been
	// requested. Submitting to a shut-down scheduler is a caller error and
	// is rejected explicitly rather than silently dropped.
	ErrSchedulerClosed = errors.New("tempo: scheduler closed")
)
