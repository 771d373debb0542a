package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline activity on OpenTelemetry instruments. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	retries      metric.Int64Counter
	timeouts     metric.Int64Counter
	fallbacks    metric.Int64Counter
	totalCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	retries, err := meter.Int64Counter(
		"resilience.retry.attempts",
		metric.WithDescription("Number of scheduled retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	timeouts, err := meter.Int64Counter(
		"resilience.timeouts",
		metric.WithDescription("Number of elapsed timeouts"),
		metric.WithUnit("{timeout}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"resilience.fallbacks",
		metric.WithDescription("Number of substituted outcomes"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	totalCount, err := meter.Int64Counter(
		"resilience.execute.total",
		metric.WithDescription("Total number of pipeline executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"resilience.execute.duration_ms",
		metric.WithDescription("Pipeline execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		retries:      retries,
		timeouts:     timeouts,
		fallbacks:    fallbacks,
		totalCount:   totalCount,
		durationHist: durationHist,
	}, nil
}

// RecordRetry counts one scheduled retry
func (m *Metrics) RecordRetry(ctx context.Context, pipeline string, attempt int) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.Int("attempt", attempt),
	))
}

// RecordTimeout counts one elapsed timeout of the named strategy
func (m *Metrics) RecordTimeout(ctx context.Context, pipeline, strategy string) {
	if m == nil {
		return
	}
	m.timeouts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("strategy", strategy),
	))
}

// RecordFallback counts one substituted outcome. kind is the failure kind
// that triggered it, "none" for a vetoed success.
func (m *Metrics) RecordFallback(ctx context.Context, pipeline, kind string) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("trigger", kind),
	))
}

// RecordExecution records one finished execution
func (m *Metrics) RecordExecution(ctx context.Context, pipeline, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("outcome", outcome),
	)
	m.totalCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}
