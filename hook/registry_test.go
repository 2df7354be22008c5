package hook_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/tempo/hook"
	"github.com/xraph/tempo/id"
	"github.com/xraph/tempo/job"
)

// allHooksExt implements every lifecycle hook for testing.
type allHooksExt struct {
	calls []string
}

func (e *allHooksExt) Name() string { return "all-hooks" }

func (e *allHooksExt) OnJobScheduled(_ context.Context, _ *job.Job) error {
	e.calls = append(e.calls, "OnJobScheduled")
	return nil
}

func (e *allHooksExt) OnJobExecuted(_ context.Context, _ *job.Job, _ time.Duration) error {
	e.calls = append(e.calls, "OnJobExecuted")
	return nil
}

func (e *allHooksExt) OnJobFailed(_ context.Context, _ *job.Job, _ error) error {
	e.calls = append(e.calls, "OnJobFailed")
	return nil
}

func (e *allHooksExt) OnJobCanceled(_ context.Context, _ *job.Job) error {
	e.calls = append(e.calls, "OnJobCanceled")
	return nil
}

func (e *allHooksExt) OnShutdown(_ context.Context) error {
	e.calls = append(e.calls, "OnShutdown")
	return nil
}

// scheduleOnlyExt only implements the JobScheduled hook.
type scheduleOnlyExt struct {
	calls []string
}

func (e *scheduleOnlyExt) Name() string { return "schedule-only" }

func (e *scheduleOnlyExt) OnJobScheduled(_ context.Context, _ *job.Job) error {
	e.calls = append(e.calls, "OnJobScheduled")
	return nil
}

// failingExt returns errors from hooks.
type failingExt struct{}

func (e *failingExt) Name() string { return "failing" }

func (e *failingExt) OnJobScheduled(_ context.Context, _ *job.Job) error {
	return errors.New("boom")
}

func (e *failingExt) OnShutdown(_ context.Context) error {
	return errors.New("shutdown boom")
}

func newTestJob() *job.Job {
	return &job.Job{
		ID:       id.NewJobID(),
		Name:     "test-job",
		Deadline: time.Now(),
	}
}

func TestRegistry_EmitsAllEvents(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	e := &allHooksExt{}
	r.Register(e)

	ctx := context.Background()
	j := newTestJob()
	r.EmitJobScheduled(ctx, j)
	r.EmitJobExecuted(ctx, j, 10*time.Millisecond)
	r.EmitJobFailed(ctx, j, errors.New("fail"))
	r.EmitJobCanceled(ctx, j)
	r.EmitShutdown(ctx)

	want := []string{"OnJobScheduled", "OnJobExecuted", "OnJobFailed", "OnJobCanceled", "OnShutdown"}
	if len(e.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", e.calls, want)
	}
	for i := range want {
		if e.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, e.calls[i], want[i])
		}
	}
}

func TestRegistry_PartialExtensionOnlyGetsItsEvents(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	e := &scheduleOnlyExt{}
	r.Register(e)

	ctx := context.Background()
	j := newTestJob()
	r.EmitJobScheduled(ctx, j)
	r.EmitJobExecuted(ctx, j, time.Millisecond)
	r.EmitJobCanceled(ctx, j)
	r.EmitShutdown(ctx)

	if len(e.calls) != 1 || e.calls[0] != "OnJobScheduled" {
		t.Fatalf("calls = %v, want [OnJobScheduled]", e.calls)
	}
}

func TestRegistry_HookErrorsDoNotPropagate(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	r.Register(&failingExt{})
	after := &scheduleOnlyExt{}
	r.Register(after)

	// Emit must not panic and must still reach later extensions.
	r.EmitJobScheduled(context.Background(), newTestJob())
	r.EmitShutdown(context.Background())

	if len(after.calls) != 1 {
		t.Fatalf("extension after a failing one was not notified: %v", after.calls)
	}
}

func TestRegistry_NotificationOrder(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	first := &scheduleOnlyExt{}
	second := &scheduleOnlyExt{}
	r.Register(first)
	r.Register(second)

	if got := len(r.Extensions()); got != 2 {
		t.Fatalf("Extensions() = %d, want 2", got)
	}

	r.EmitJobScheduled(context.Background(), newTestJob())
	if len(first.calls) != 1 || len(second.calls) != 1 {
		t.Fatalf("both extensions should be notified: %v, %v", first.calls, second.calls)
	}
}
