package timeout

import (
	"context"
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Event describes an elapsed timeout
type Event struct {
	// Name is the strategy that timed out
	Name string
	// Timeout is the configured duration
	Timeout time.Duration
	// Elapsed is how long the wrapped call ran before the timer fired
	Elapsed time.Duration
}

// Config configures a timeout strategy
type Config struct {
	// Name identifies the layer, "timeout" by default
	Name string

	// Duration bounds the wrapped call
	Duration time.Duration

	// OnTimeout runs once when the timer fires first
	OnTimeout func(ctx context.Context, ev Event)
}

// Validate checks the timeout duration
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", types.ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Strategy races the next layer against a timer
type Strategy[T any] struct {
	name      string
	duration  time.Duration
	onTimeout func(context.Context, Event)
	clock     types.Clock
}

// Option configures a timeout Strategy
type Option func(*options)

type options struct {
	clock types.Clock
}

// WithClock sets the clock used for the timer
func WithClock(clock types.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a timeout strategy from cfg
func New[T any](cfg Config, opts ...Option) (*Strategy[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	name := cfg.Name
	if name == "" {
		name = "timeout"
	}

	return &Strategy[T]{
		name:      name,
		duration:  cfg.Duration,
		onTimeout: cfg.OnTimeout,
		clock:     o.clock,
	}, nil
}

// Name returns the layer name
func (s *Strategy[T]) Name() string {
	return s.name
}

// Duration returns the configured timeout
func (s *Strategy[T]) Duration() time.Duration {
	return s.duration
}

// Execute runs next under a derived context that is cancelled when the
// timer fires or the caller cancels, whichever comes first.
func (s *Strategy[T]) Execute(ctx context.Context, next types.Invoker[T]) types.Outcome[T] {
	if err := ctx.Err(); err != nil {
		return types.CallerCancelled[T](s.name, err)
	}

	clock := s.clock
	if clock == nil {
		clock = types.ClockFromContext(ctx)
	}
	start := clock.Now()

	derived, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timer := clock.NewTimer(s.duration)
	defer timer.Stop()

	done := make(chan types.Outcome[T], 1)
	go func() {
		done <- next(derived)
	}()

	select {
	case out := <-done:
		return s.completed(ctx, out)

	case <-timer.C():
		// a result that raced the timer still wins
		select {
		case out := <-done:
			return s.completed(ctx, out)
		default:
		}

		cancel(types.ErrTimeout)
		if s.onTimeout != nil {
			s.onTimeout(ctx, Event{Name: s.name, Timeout: s.duration, Elapsed: clock.Since(start)})
		}
		return types.TimedOut[T](s.name)

	case <-ctx.Done():
		return types.CallerCancelled[T](s.name, context.Cause(ctx))
	}
}

func (s *Strategy[T]) completed(ctx context.Context, out types.Outcome[T]) types.Outcome[T] {
	if out.IsFailure() && !out.IsCallerCancelled() && ctx.Err() != nil {
		return types.CallerCancelled[T](s.name, context.Cause(ctx))
	}
	return out
}
