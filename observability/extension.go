// Package observability provides a lifecycle metrics extension for tempo.
package observability

import (
	"context"
	"time"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/tempo/hook"
	"github.com/xraph/tempo/job"
)

// Compile-time interface checks.
var (
	_ hook.Extension    = (*MetricsExtension)(nil)
	_ hook.JobScheduled = (*MetricsExtension)(nil)
	_ hook.JobExecuted  = (*MetricsExtension)(nil)
	_ hook.JobFailed    = (*MetricsExtension)(nil)
	_ hook.JobCanceled  = (*MetricsExtension)(nil)
)

// MetricsExtension records scheduler-wide lifecycle metrics via go-utils
// MetricFactory. Register it as a tempo extension to automatically track
// scheduling rates, execution counts, failure rates, and cancellations.
type MetricsExtension struct {
	JobScheduled gu.Counter
	JobExecuted  gu.Counter
	JobFailed    gu.Counter
	JobCanceled  gu.Counter
}

// NewMetricsExtension creates a MetricsExtension using a default metrics collector.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithFactory(gu.NewMetricsCollector("tempo/observability"))
}

// NewMetricsExtensionWithFactory creates a MetricsExtension with the provided
// MetricFactory. Use gu.NewMetricsCollector for testing.
func NewMetricsExtensionWithFactory(factory gu.MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		JobScheduled: factory.Counter("tempo.job.scheduled"),
		JobExecuted:  factory.Counter("tempo.job.executed"),
		JobFailed:    factory.Counter("tempo.job.failed"),
		JobCanceled:  factory.Counter("tempo.job.canceled"),
	}
}

// Name implements hook.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnJobScheduled implements hook.JobScheduled.
func (m *MetricsExtension) OnJobScheduled(_ context.Context, _ *job.Job) error {
	m.JobScheduled.Inc()
	return nil
}

// OnJobExecuted implements hook.JobExecuted.
func (m *MetricsExtension) OnJobExecuted(_ context.Context, _ *job.Job, _ time.Duration) error {
	m.JobExecuted.Inc()
	return nil
}

// OnJobFailed implements hook.JobFailed.
func (m *MetricsExtension) OnJobFailed(_ context.Context, _ *job.Job, _ error) error {
	m.JobFailed.Inc()
	return nil
}

// OnJobCanceled implements hook.JobCanceled.
func (m *MetricsExtension) OnJobCanceled(_ context.Context, _ *job.Job) error {
	m.JobCanceled.Inc()
	return nil
}
