package observe

import (
	"context"

	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// Telemetry bundles the logger and metrics that hook builders write to
type Telemetry struct {
	Logger  Logger
	Metrics *Metrics
	// Name labels metrics with the pipeline they belong to
	Name string
}

func (t Telemetry) logger() Logger {
	if t.Logger == nil {
		return NewNop()
	}
	return t.Logger
}

// RetryHook logs and counts each scheduled retry. The entry carries the
// classification of the attempt being retried and, through ctx, the trace
// and span of the execution.
func RetryHook[T any](tel Telemetry) func(context.Context, retry.Event[T]) {
	return func(ctx context.Context, ev retry.Event[T]) {
		fields := []Field{
			Int("retry", ev.Attempt),
			Int("next_attempt", ev.Attempt+1),
			Duration("delay", ev.Delay),
			String("reason", retryReason(ev.Outcome)),
		}
		if err := ev.Outcome.Err(); err != nil {
			fields = append(fields, Err(err))
		}
		tel.logger().Log(ctx, LevelDebug, "scheduling retry", fields...)
		tel.Metrics.RecordRetry(ctx, tel.Name, ev.Attempt)
	}
}

func retryReason[T any](o types.Outcome[T]) string {
	if o.IsSuccess() {
		return "unacceptable_result"
	}
	return o.Kind().String()
}

// TimeoutHook logs msg at error level and counts the timeout
func TimeoutHook(tel Telemetry, msg string) func(context.Context, timeout.Event) {
	return func(ctx context.Context, ev timeout.Event) {
		tel.logger().Log(ctx, LevelError, msg,
			String("strategy", ev.Name),
			Duration("timeout", ev.Timeout),
			Duration("elapsed", ev.Elapsed),
		)
		tel.Metrics.RecordTimeout(ctx, tel.Name, ev.Name)
	}
}

// FallbackHook logs and counts each substitution
func FallbackHook[T any](tel Telemetry) func(context.Context, types.Outcome[T]) {
	return func(ctx context.Context, o types.Outcome[T]) {
		fields := []Field{String("trigger", o.Kind().String())}
		if err := o.Err(); err != nil {
			fields = append(fields, Err(err))
		}
		tel.logger().Log(ctx, LevelDebug, "executing fallback", fields...)
		tel.Metrics.RecordFallback(ctx, tel.Name, o.Kind().String())
	}
}

// LogRetryDecision wraps pred so that every classification is logged:
// failures and vetoed successes at error level, accepted successes at info.
// Predicates carry no context, so these entries have no trace_id or span_id.
// RetryHook logs the same classification for every retried attempt with the
// execution's context.
func LogRetryDecision[T any](tel Telemetry, pred retry.Predicate[T]) retry.Predicate[T] {
	if pred == nil {
		pred = retry.DefaultShouldRetry[T]
	}
	return func(o types.Outcome[T]) bool {
		retryable := pred(o)
		ctx := context.Background()

		switch {
		case o.IsFailure():
			tel.logger().Log(ctx, LevelError, "attempt failed",
				String("kind", o.Kind().String()),
				Err(o.Err()),
			)
		case retryable:
			tel.logger().Log(ctx, LevelError, "attempt returned an unacceptable result")
		default:
			tel.logger().Log(ctx, LevelInfo, "attempt succeeded")
		}
		return retryable
	}
}
