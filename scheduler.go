package tempo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/tempo/clock"
	"github.com/xraph/tempo/hook"
	"github.com/xraph/tempo/id"
	"github.com/xraph/tempo/job"
	mw "github.com/xraph/tempo/middleware"
	"github.com/xraph/tempo/observability"
	"github.com/xraph/tempo/store"
)

// Scheduler executes submitted actions at their deadlines, in
// (deadline, submission order), on one dedicated worker goroutine.
//
// The clock is borrowed, not owned: it must outlive the Scheduler. The
// worker starts immediately on construction and runs until Shutdown has
// been requested and the store has drained. The Scheduler assumes the
// clock is monotonic; it does not defend against a clock that reports an
// earlier instant than previously observed.
type Scheduler struct {
	id     id.SchedulerID
	clk    clock.Clock
	jobs   *store.Store
	hooks  *hook.Registry
	chain  mw.Middleware
	logger *slog.Logger

	// wakeCh carries a sticky wake token for the worker: buffered(1),
	// non-blocking send. Submit, Cancel, and Shutdown all set it; every
	// wake causes a full re-evaluation of the store head.
	wakeCh chan struct{}

	// done is closed when the worker terminates.
	done chan struct{}

	// Collected by options before the worker starts.
	extensions     []hook.Extension
	mws            []mw.Middleware
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	stopOnce sync.Once
}

// New creates a Scheduler bound to the given clock and starts its worker.
// The caller must eventually call Shutdown (or Stop) or the worker will run
// for the life of the process.
func New(clk clock.Clock, opts ...Option) (*Scheduler, error) {
	if clk == nil {
		return nil, ErrNoClock
	}

	s := &Scheduler{
		id:     id.NewSchedulerID(),
		clk:    clk,
		jobs:   store.New(),
		logger: slog.Default(),
		wakeCh: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hooks = hook.NewRegistry(s.logger)
	s.hooks.Register(observability.NewMetricsExtension())
	for _, e := range s.extensions {
		s.hooks.Register(e)
	}

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if s.tracerProvider != nil {
		tracer := s.tracerProvider.Tracer("github.com/xraph/tempo")
		tracingMw = mw.TracingWithTracer(tracer)
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware (custom provider or global).
	var metricsMw mw.Middleware
	if s.meterProvider != nil {
		meter := s.meterProvider.Meter("github.com/xraph/tempo")
		metricsMw = mw.MetricsWithMeter(meter)
	} else {
		metricsMw = mw.Metrics()
	}

	// Default middleware stack: recover → tracing → metrics → logging → timeout.
	defaultMws := []mw.Middleware{
		mw.Recover(s.logger),
		tracingMw,
		metricsMw,
		mw.Logging(s.logger),
		mw.Timeout(s.logger),
	}
	allMws := make([]mw.Middleware, 0, len(defaultMws)+len(s.mws))
	allMws = append(allMws, defaultMws...)
	allMws = append(allMws, s.mws...)
	s.chain = mw.Chain(allMws...)

	go s.worker()

	s.logger.Info("scheduler started",
		slog.String("scheduler_id", s.id.String()),
	)
	return s, nil
}

// ID returns the scheduler's unique identifier.
func (s *Scheduler) ID() id.SchedulerID { return s.id }

// Submit schedules an action. By default the job is due immediately; use
// job.At or job.After to place its deadline in the future. The returned
// Handle can be passed to Cancel any time before the action runs.
//
// Submit returns ErrSchedulerClosed once Shutdown has been requested.
func (s *Scheduler) Submit(ctx context.Context, name string, action job.Action, opts ...job.Option) (Handle, error) {
	if action == nil {
		return Handle{}, ErrNilAction
	}

	o := job.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	deadline := o.Deadline
	if deadline.IsZero() {
		deadline = s.clk.Now().Add(o.Delay)
	}

	j := &job.Job{
		ID:       id.NewJobID(),
		Name:     name,
		Action:   action,
		Deadline: deadline,
		Timeout:  o.Timeout,
	}

	key, ok := s.jobs.Insert(j)
	if !ok {
		return Handle{}, ErrSchedulerClosed
	}
	// Emit before waking the worker so extensions observe JobScheduled
	// before this job's JobExecuted.
	s.hooks.EmitJobScheduled(ctx, j)
	// The new job may be earlier than whatever the worker is waiting on.
	s.wake()

	s.logger.Debug("job scheduled",
		slog.String("job_id", j.ID.String()),
		slog.String("job_name", j.Name),
		slog.Time("deadline", j.Deadline),
	)
	return Handle{key: key, j: j}, nil
}

// Cancel requests cancellation of the job behind h. It reports whether this
// call marked the job: a stale handle (job already executed or swept) or a
// repeated cancellation is a silent no-op returning false. Cancellation is
// advisory: if the worker has already popped the job for execution, the
// action still runs to completion.
func (s *Scheduler) Cancel(ctx context.Context, h Handle) bool {
	if !s.jobs.Cancel(h.key) {
		return false
	}
	// Wake the worker so a canceled head entry is swept promptly.
	s.wake()

	s.hooks.EmitJobCanceled(ctx, h.j)
	s.logger.Debug("job canceled",
		slog.String("job_id", h.j.ID.String()),
		slog.String("job_name", h.j.Name),
	)
	return true
}

// Shutdown signals that no further submissions will occur. Pending jobs are
// neither canceled nor flushed: the worker keeps executing due and future
// jobs until the store drains, then terminates. Idempotent.
func (s *Scheduler) Shutdown() {
	s.jobs.Close()
	s.wake()
}

// Stop requests Shutdown and waits for the worker to terminate. The context
// bounds the wait: with pending far-future deadlines on a real clock the
// drain can take arbitrarily long, and a caller that must not block forever
// should pass a deadline. Returns the context's error if it expires first;
// the worker itself is never leaked — it keeps draining and Done is closed
// when it finishes.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.Shutdown()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.stopOnce.Do(func() {
		s.hooks.EmitShutdown(context.WithoutCancel(ctx))
		s.logger.Info("scheduler stopped",
			slog.String("scheduler_id", s.id.String()),
		)
	})
	return nil
}

// IsEmpty reports whether no jobs remain in the store.
func (s *Scheduler) IsEmpty() bool { return s.jobs.Empty() }

// Len returns the number of stored jobs, including canceled entries that
// have not yet been swept.
func (s *Scheduler) Len() int { return s.jobs.Len() }

// Done returns a channel closed when the worker has terminated.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// wake leaves a sticky token for the worker. Non-blocking: if a token is
// already pending, the worker will re-evaluate anyway.
func (s *Scheduler) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// worker is the scheduler's single execution loop. Each iteration makes one
// locked decision against the store head: run a due job, sweep a canceled
// one (inside Due), sleep until the earliest deadline, park until woken, or
// terminate once the store is empty and closed.
func (s *Scheduler) worker() {
	defer close(s.done)

	for {
		j, next, closed := s.jobs.Due(s.clk.Now())
		switch {
		case j != nil:
			s.execute(j)

		case !next.IsZero():
			// Earliest deadline is in the future. Sleep until that
			// absolute instant, or until a submission/cancellation
			// requires re-computing the true next deadline. The timer
			// targets the instant the store reported, not a relative
			// wait, so a clock advance landing between the Due call and
			// timer registration still fires it.
			t := s.clk.NewTimerAt(next)
			select {
			case <-s.wakeCh:
				t.Stop()
			case <-t.C():
			}

		case closed:
			return

		default:
			// Empty and still open: park until something happens.
			<-s.wakeCh
		}
	}
}

// execute runs one job through the middleware chain, with the store lock
// not held, so actions may submit or cancel without deadlocking.
func (s *Scheduler) execute(j *job.Job) {
	ctx := context.Background()
	start := time.Now()

	err := s.chain(ctx, j, func(ctx context.Context) error {
		return j.Action(ctx)
	})
	if err != nil {
		s.hooks.EmitJobFailed(ctx, j, err)
		return
	}
	s.hooks.EmitJobExecuted(ctx, j, time.Since(start))
}
