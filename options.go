package tempo

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/tempo/hook"
	"github.com/xraph/tempo/middleware"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the structured logger for the scheduler.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithExtension registers a lifecycle extension with the scheduler.
func WithExtension(e hook.Extension) Option {
	return func(s *Scheduler) {
		s.extensions = append(s.extensions, e)
	}
}

// WithMiddleware appends middleware to the scheduler's execution chain.
// User middleware runs inside the default stack (recover → tracing →
// metrics → logging → timeout), closest to the action.
func WithMiddleware(m middleware.Middleware) Option {
	return func(s *Scheduler) {
		s.mws = append(s.mws, m)
	}
}

// WithTracerProvider sets a custom OTel TracerProvider for the scheduler.
// When set, the tracing middleware uses this provider instead of the global
// one. If not set, the global otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Scheduler) {
		s.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom OTel MeterProvider for the scheduler.
// When set, the metrics middleware uses this provider instead of the global
// one. If not set, the global otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Scheduler) {
		s.meterProvider = mp
	}
}
