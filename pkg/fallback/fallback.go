// Package fallback substitutes a value for an unacceptable outcome.
//
// Fallback is the outermost layer of the pipeline. It sees the outcome of
// everything below it, timeouts included, and replaces it with Produce()
// when ShouldFallback says so. The caller's own cancellation always passes
// through untouched.
package fallback

import (
	"context"
	"fmt"

	"github.com/jzx17/goresilience/pkg/types"
)

// Config configures a fallback strategy
type Config[T any] struct {
	// Name identifies the layer, "fallback" by default
	Name string

	// ShouldFallback classifies the wrapped outcome; DefaultShouldFallback
	// when nil
	ShouldFallback func(types.Outcome[T]) bool

	// OnFallback runs before the substitute is produced
	OnFallback func(ctx context.Context, o types.Outcome[T])

	// Produce builds the substitute value. Required.
	Produce func() T
}

// Validate checks that a producer is set
func (c Config[T]) Validate() error {
	if c.Produce == nil {
		return fmt.Errorf("%w: fallback requires a producer", types.ErrInvalidConfig)
	}
	return nil
}

// DefaultShouldFallback falls back on any failure
func DefaultShouldFallback[T any](o types.Outcome[T]) bool {
	return o.IsFailure()
}

// Value returns a producer for a fixed substitute
func Value[T any](v T) func() T {
	return func() T { return v }
}

// Strategy replaces unacceptable outcomes with a substitute value
type Strategy[T any] struct {
	name           string
	shouldFallback func(types.Outcome[T]) bool
	onFallback     func(context.Context, types.Outcome[T])
	produce        func() T
}

// New creates a fallback strategy from cfg
func New[T any](cfg Config[T]) (*Strategy[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Strategy[T]{
		name:           cfg.Name,
		shouldFallback: cfg.ShouldFallback,
		onFallback:     cfg.OnFallback,
		produce:        cfg.Produce,
	}
	if s.name == "" {
		s.name = "fallback"
	}
	if s.shouldFallback == nil {
		s.shouldFallback = DefaultShouldFallback[T]
	}
	return s, nil
}

// Name returns the layer name
func (s *Strategy[T]) Name() string {
	return s.name
}

// Execute runs next and substitutes the result when ShouldFallback accepts
// it. Produce is not guarded: a panic inside it reaches the caller.
func (s *Strategy[T]) Execute(ctx context.Context, next types.Invoker[T]) types.Outcome[T] {
	if err := ctx.Err(); err != nil {
		return types.CallerCancelled[T](s.name, err)
	}

	out := next(ctx)
	if out.IsCallerCancelled() {
		return out
	}
	if !s.shouldFallback(out) {
		return out
	}

	if s.onFallback != nil {
		s.onFallback(ctx, out)
	}
	return types.Success(s.produce())
}
