// Package job defines the unit of work the scheduler executes: an action
// paired with an absolute deadline, plus per-job functional options.
package job

import (
	"context"
	"time"

	"github.com/xraph/tempo/id"
)

// Action is the callable a job executes. It runs on the scheduler's single
// worker goroutine, at most once, with the store lock not held — an action
// may submit or cancel other jobs. The context carries the per-job timeout
// when one was set; errors and panics are reported through middleware and
// lifecycle hooks, never back to the submitter.
type Action func(ctx context.Context) error

// Job is one scheduled unit of work. A Job is created at submission time
// and owned by the scheduler's store until it is executed or swept as
// canceled. The fields are fixed at submission; cancellation state lives in
// the store, guarded by the store lock.
type Job struct {
	ID       id.JobID      `json:"id"`
	Name     string        `json:"name"`
	Action   Action        `json:"-"`
	Deadline time.Time     `json:"deadline"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}
