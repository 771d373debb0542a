// Package pipeline composes the resilience strategies around one operation.
package pipeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/jzx17/goresilience/pkg/fallback"
	"github.com/jzx17/goresilience/pkg/observe"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// Default layer names
const (
	DefaultName         = "pipeline"
	OuterTimeoutName    = "outer-timeout"
	InnerTimeoutName    = "inner-timeout"
	outcomeSuccessLabel = "success"
)

// Options holds one config per layer. The layers always run in the order
// Fallback, OuterTimeout, Retry, InnerTimeout, operation.
type Options[T any] struct {
	// Name labels telemetry for this pipeline
	Name string

	Fallback     fallback.Config[T]
	OuterTimeout timeout.Config
	Retry        retry.Config[T]
	InnerTimeout timeout.Config
}

// Option configures a Pipeline
type Option func(*pipelineConfig)

type pipelineConfig struct {
	clock    types.Clock
	tracer   trace.Tracer
	metrics  *observe.Metrics
	calcOpts []retry.CalculatorOption
}

// WithClock sets the clock for timeouts and retry delays. Without it the
// clock is taken from the context of each call, falling back to real time.
func WithClock(clock types.Clock) Option {
	return func(c *pipelineConfig) {
		c.clock = clock
	}
}

// WithTracer wraps each execution in a span
func WithTracer(tracer trace.Tracer) Option {
	return func(c *pipelineConfig) {
		c.tracer = tracer
	}
}

// WithMetrics records each execution's outcome and duration
func WithMetrics(m *observe.Metrics) Option {
	return func(c *pipelineConfig) {
		c.metrics = m
	}
}

// WithBackoffOptions passes options to the retry backoff calculator
func WithBackoffOptions(opts ...retry.CalculatorOption) Option {
	return func(c *pipelineConfig) {
		c.calcOpts = append(c.calcOpts, opts...)
	}
}

// Pipeline is a fixed stack of strategies. It is immutable after New and
// safe for concurrent use; each call gets its own types.Execution.
type Pipeline[T any] struct {
	name     string
	fallback *fallback.Strategy[T]
	outer    *timeout.Strategy[T]
	retry    *retry.Strategy[T]
	inner    *timeout.Strategy[T]
	chain    chain[T]

	clock   types.Clock
	tracer  trace.Tracer
	metrics *observe.Metrics
}

// New validates opts and builds the pipeline
func New[T any](opts Options[T], options ...Option) (*Pipeline[T], error) {
	cfg := &pipelineConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.OuterTimeout.Name == "" {
		opts.OuterTimeout.Name = OuterTimeoutName
	}
	if opts.InnerTimeout.Name == "" {
		opts.InnerTimeout.Name = InnerTimeoutName
	}

	fb, err := fallback.New(opts.Fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}

	outer, err := timeout.New[T](opts.OuterTimeout)
	if err != nil {
		return nil, fmt.Errorf("outer timeout: %w", err)
	}

	rt, err := retry.New(opts.Retry, retry.WithCalculatorOptions(cfg.calcOpts...))
	if err != nil {
		return nil, fmt.Errorf("retry: %w", err)
	}

	inner, err := timeout.New[T](opts.InnerTimeout)
	if err != nil {
		return nil, fmt.Errorf("inner timeout: %w", err)
	}

	return &Pipeline[T]{
		name:     opts.Name,
		fallback: fb,
		outer:    outer,
		retry:    rt,
		inner:    inner,
		chain:    newChain[T](fb, outer, rt, inner),
		clock:    cfg.clock,
		tracer:   cfg.tracer,
		metrics:  cfg.metrics,
	}, nil
}

// Name returns the pipeline name
func (p *Pipeline[T]) Name() string {
	return p.name
}

// Strategies returns the layers from outermost to innermost
func (p *Pipeline[T]) Strategies() []types.Strategy[T] {
	return p.chain.strategies()
}

// Execute runs op through every layer and returns the final outcome.
func (p *Pipeline[T]) Execute(ctx context.Context, op types.Operation[T]) types.Outcome[T] {
	clock := p.clock
	if clock == nil {
		clock = types.ClockFromContext(ctx)
	}

	exec := types.NewExecution(clock)
	ctx = types.WithExecution(types.WithClock(ctx, clock), exec)

	ctx, span := observe.StartSpan(ctx, p.tracer, p.name)

	out := p.chain.run(ctx, func(ctx context.Context) types.Outcome[T] {
		return types.Invoke(ctx, op)
	})

	label := outcomeLabel(out)
	observe.EndSpan(span, label, exec.Attempt(), out.Err())
	p.metrics.RecordExecution(ctx, p.name, label, exec.Elapsed())

	return out
}

// Do runs op and returns its value or the failure as an error
func (p *Pipeline[T]) Do(ctx context.Context, op types.Operation[T]) (T, error) {
	return p.Execute(ctx, op).Unwrap()
}

func outcomeLabel[T any](o types.Outcome[T]) string {
	if o.IsSuccess() {
		return outcomeSuccessLabel
	}
	return o.Kind().String()
}
