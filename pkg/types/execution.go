package types

import (
	"context"
	"sync/atomic"
	"time"
)

// Execution is the per-call state of one pipeline execution. It is created
// fresh by every Execute call and carried through the context so each layer
// and the operation can read it.
type Execution struct {
	clock   Clock
	start   time.Time
	attempt atomic.Int32
}

// NewExecution starts a new execution on clock
func NewExecution(clock Clock) *Execution {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Execution{clock: clock, start: clock.Now()}
}

// Start returns when the execution began
func (e *Execution) Start() time.Time {
	return e.start
}

// Elapsed returns the time since the execution began
func (e *Execution) Elapsed() time.Duration {
	return e.clock.Since(e.start)
}

// Attempt returns the current retry-layer attempt, 0 before the first one
func (e *Execution) Attempt() int {
	return int(e.attempt.Load())
}

// SetAttempt records the attempt the retry layer is about to run
func (e *Execution) SetAttempt(n int) {
	e.attempt.Store(int32(n))
}

type executionKey struct{}

// WithExecution adds an execution to the context
func WithExecution(ctx context.Context, e *Execution) context.Context {
	return context.WithValue(ctx, executionKey{}, e)
}

// ExecutionFromContext retrieves the execution from context
func ExecutionFromContext(ctx context.Context) (*Execution, bool) {
	e, ok := ctx.Value(executionKey{}).(*Execution)
	return e, ok
}

// AttemptFromContext returns the current attempt number, 0 outside a pipeline
func AttemptFromContext(ctx context.Context) int {
	if e, ok := ExecutionFromContext(ctx); ok {
		return e.Attempt()
	}
	return 0
}
