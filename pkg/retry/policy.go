package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Predicate decides whether an outcome should be retried. It sees successes
// too, so a transport-level success can still be vetoed.
type Predicate[T any] func(types.Outcome[T]) bool

// Event describes a scheduled retry
type Event[T any] struct {
	// Attempt is the attempt that just finished (1-based)
	Attempt int
	// Delay is the wait before the next attempt
	Delay time.Duration
	// Outcome is the outcome of the finished attempt
	Outcome types.Outcome[T]
}

// Config configures the retry strategy
type Config[T any] struct {
	// Name identifies the layer, "retry" by default
	Name string

	// MaxAttempts is the number of retries after the first attempt; 0 runs once
	MaxAttempts int

	// Backoff spaces the attempts
	Backoff Backoff

	// ShouldRetry classifies each outcome; DefaultShouldRetry when nil
	ShouldRetry Predicate[T]

	// OnRetry runs before each delay
	OnRetry func(ctx context.Context, ev Event[T])
}

// Validate checks the retry bounds
func (c Config[T]) Validate() error {
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must not be negative, got %d", types.ErrInvalidConfig, c.MaxAttempts)
	}
	return c.Backoff.Validate()
}

// DefaultShouldRetry retries every failure except caller cancellation
func DefaultShouldRetry[T any](o types.Outcome[T]) bool {
	return o.IsFailure() && !o.IsCallerCancelled()
}

// OnFailure retries failures of the listed kinds; all failures other than
// caller cancellation when kinds is empty
func OnFailure[T any](kinds ...types.FailureKind) Predicate[T] {
	return func(o types.Outcome[T]) bool {
		if !DefaultShouldRetry(o) {
			return false
		}
		if len(kinds) == 0 {
			return true
		}
		for _, k := range kinds {
			if o.Kind() == k {
				return true
			}
		}
		return false
	}
}

// Or retries when any of the predicates does
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return func(o types.Outcome[T]) bool {
		for _, p := range preds {
			if p != nil && p(o) {
				return true
			}
		}
		return false
	}
}
