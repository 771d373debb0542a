// Package types defines core interfaces and types for the resilience pipeline
package types

import (
	"context"
	"time"
)

// Operation is the user callable wrapped by a pipeline. It must honour ctx
// cancellation; a returned error becomes a failed Outcome.
type Operation[T any] func(ctx context.Context) (T, error)

// Invoker runs the next layer down the strategy stack and reports its Outcome
type Invoker[T any] func(ctx context.Context) Outcome[T]

// Strategy is one layer of the resilience stack. Implementations hold only
// immutable configuration and are safe for concurrent use.
type Strategy[T any] interface {
	// Execute runs next under the strategy's policy
	Execute(ctx context.Context, next Invoker[T]) Outcome[T]

	// Name identifies the layer in failures and telemetry
	Name() string
}

// Result defines the result of asynchronous execution
type Result[R any] struct {
	// Outcome is the execution outcome
	Outcome Outcome[R]

	// Duration is the execution time
	Duration time.Duration
}
