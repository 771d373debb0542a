package retry

import (
	"context"

	"github.com/jzx17/goresilience/pkg/types"
)

// Strategy re-invokes the next layer until the outcome is accepted, the
// predicate declares it final, or the attempt budget runs out.
type Strategy[T any] struct {
	name        string
	maxAttempts int
	shouldRetry Predicate[T]
	onRetry     func(context.Context, Event[T])
	calculator  *Calculator
	clock       types.Clock
}

// Option configures a retry Strategy
type Option func(*options)

type options struct {
	clock    types.Clock
	calcOpts []CalculatorOption
}

// WithClock sets the clock used for delays
func WithClock(clock types.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithCalculatorOptions passes options to the backoff calculator
func WithCalculatorOptions(opts ...CalculatorOption) Option {
	return func(o *options) {
		o.calcOpts = append(o.calcOpts, opts...)
	}
}

// New creates a retry strategy from cfg
func New[T any](cfg Config[T], opts ...Option) (*Strategy[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	s := &Strategy[T]{
		name:        cfg.Name,
		maxAttempts: cfg.MaxAttempts,
		shouldRetry: cfg.ShouldRetry,
		onRetry:     cfg.OnRetry,
		calculator:  NewCalculator(cfg.Backoff, o.calcOpts...),
		clock:       o.clock,
	}
	if s.name == "" {
		s.name = "retry"
	}
	if s.shouldRetry == nil {
		s.shouldRetry = DefaultShouldRetry[T]
	}

	return s, nil
}

// Name returns the layer name
func (s *Strategy[T]) Name() string {
	return s.name
}

// MaxAttempts returns the retry budget
func (s *Strategy[T]) MaxAttempts() int {
	return s.maxAttempts
}

// Calculator returns the backoff calculator
func (s *Strategy[T]) Calculator() *Calculator {
	return s.calculator
}

// Execute runs next with retries. The clock comes from the strategy if set,
// otherwise from ctx.
func (s *Strategy[T]) Execute(ctx context.Context, next types.Invoker[T]) types.Outcome[T] {
	if err := ctx.Err(); err != nil {
		return types.CallerCancelled[T](s.name, err)
	}

	clock := s.clock
	if clock == nil {
		clock = types.ClockFromContext(ctx)
	}
	exec, _ := types.ExecutionFromContext(ctx)

	for attempt := 1; ; attempt++ {
		if exec != nil {
			exec.SetAttempt(attempt)
		}

		out := next(ctx)

		// caller cancellation is never retried
		if out.IsCallerCancelled() {
			return out
		}

		if !s.shouldRetry(out) {
			return out
		}

		if attempt > s.maxAttempts {
			return out
		}

		delay := s.calculator.Delay(attempt)
		if s.onRetry != nil {
			s.onRetry(ctx, Event[T]{Attempt: attempt, Delay: delay, Outcome: out})
		}

		if err := types.Sleep(ctx, clock, delay); err != nil {
			return types.CallerCancelled[T](s.name, err)
		}
	}
}

// Do runs op under a retry strategy without any other layer. It is a
// convenience for callers that only need retries.
func Do[T any](ctx context.Context, s *Strategy[T], op types.Operation[T]) (T, error) {
	out := s.Execute(ctx, func(ctx context.Context) types.Outcome[T] {
		return types.Invoke(ctx, op)
	})
	return out.Unwrap()
}
