package pipeline

import (
	"context"

	"github.com/jzx17/goresilience/pkg/config"
	"github.com/jzx17/goresilience/pkg/fallback"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// Hooks supplies the behaviour that cannot be expressed in a settings
// file: predicates, event hooks and the fallback producer.
type Hooks[T any] struct {
	ShouldRetry retry.Predicate[T]
	OnRetry     func(ctx context.Context, ev retry.Event[T])

	OnOuterTimeout func(ctx context.Context, ev timeout.Event)
	OnInnerTimeout func(ctx context.Context, ev timeout.Event)

	ShouldFallback func(types.Outcome[T]) bool
	OnFallback     func(ctx context.Context, o types.Outcome[T])
	Produce        func() T
}

// FromSettings assembles Options from loaded settings plus hooks
func FromSettings[T any](s config.PipelineSettings, h Hooks[T]) (Options[T], error) {
	if err := s.Validate(); err != nil {
		return Options[T]{}, err
	}
	backoff, err := s.Backoff()
	if err != nil {
		return Options[T]{}, err
	}

	outer := s.Outer()
	outer.OnTimeout = h.OnOuterTimeout
	inner := s.Inner()
	inner.OnTimeout = h.OnInnerTimeout

	return Options[T]{
		Name: s.Name,
		Fallback: fallback.Config[T]{
			ShouldFallback: h.ShouldFallback,
			OnFallback:     h.OnFallback,
			Produce:        h.Produce,
		},
		OuterTimeout: outer,
		Retry: retry.Config[T]{
			MaxAttempts: s.RetryAttempts(),
			Backoff:     backoff,
			ShouldRetry: h.ShouldRetry,
			OnRetry:     h.OnRetry,
		},
		InnerTimeout: inner,
	}, nil
}
