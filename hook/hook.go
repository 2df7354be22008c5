// Package hook defines the extension system for tempo.
// Extensions are notified of scheduler lifecycle events (job scheduled,
// executed, failed, canceled, shutdown) and can react to them — logging,
// metrics, test capture, etc.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about. The worker emits events at well-defined
// points, which lets tests capture scheduling activity deterministically
// instead of scraping a shared output stream.
package hook

import (
	"context"
	"time"

	"github.com/xraph/tempo/job"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// JobScheduled is called after a job is accepted by the scheduler.
type JobScheduled interface {
	OnJobScheduled(ctx context.Context, j *job.Job) error
}

// JobExecuted is called after a job's action returns without error.
type JobExecuted interface {
	OnJobExecuted(ctx context.Context, j *job.Job, elapsed time.Duration) error
}

// JobFailed is called when a job's action returns an error or panics.
type JobFailed interface {
	OnJobFailed(ctx context.Context, j *job.Job, err error) error
}

// JobCanceled is called the first time a pending job is marked canceled.
type JobCanceled interface {
	OnJobCanceled(ctx context.Context, j *job.Job) error
}

// Shutdown is called once the worker has terminated during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
