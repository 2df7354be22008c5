// Package tempo provides a concurrent, cancellable, time-ordered job
// scheduler for Go. Callers submit actions to run at (or after) a future
// instant; a single background worker executes each due action once, in
// deadline order, honoring cancellation requested at any point before
// execution.
//
// Tempo is designed as a library, not a service. Import it, pick a clock,
// and submit ordinary Go functions.
//
// # Quick Start
//
//	s, err := tempo.New(clock.System())
//	if err != nil { ... }
//	h, err := s.Submit(ctx, "send-reminder", func(ctx context.Context) error {
//	    return notify(ctx, user)
//	}, job.After(5*time.Minute))
//	...
//	s.Cancel(ctx, h) // best-effort, no-op once the job has run
//
// # Architecture
//
// The pluggable clock (tempo/clock) lets the same worker loop run against
// wall-clock time in production and a manually-advanced virtual clock in
// deterministic tests. The deadline-ordered store (tempo/store) serializes
// submission, cancellation, and the worker's execute-or-wait decision under
// one lock. Lifecycle hooks (tempo/hook) and execution middleware
// (tempo/middleware) carry logging, panic recovery, timeouts, metrics, and
// tracing around each action.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based
// identifiers.
package tempo
