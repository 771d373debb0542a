// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// ErrTransient is the error returned by failing stubs
var ErrTransient = errors.New("transient failure")

// Counter counts invocations of an operation, hook or fallback producer
type Counter struct {
	n atomic.Int64
}

// Inc records one invocation and returns the new count
func (c *Counter) Inc() int {
	return int(c.n.Add(1))
}

// Load returns the number of invocations so far
func (c *Counter) Load() int {
	return int(c.n.Load())
}

// CountingOperation returns an operation that records each call on c and
// delegates to fn
func CountingOperation[T any](c *Counter, fn func(ctx context.Context, call int) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return fn(ctx, c.Inc())
	}
}

// FailingOperation returns an operation that always fails with ErrTransient
func FailingOperation[T any](c *Counter) func(context.Context) (T, error) {
	return CountingOperation(c, func(ctx context.Context, call int) (T, error) {
		var zero T
		return zero, ErrTransient
	})
}

// BlockingOperation returns an operation that blocks until ctx is done and
// then returns ctx.Err(). started is closed on the first call when non-nil.
func BlockingOperation[T any](c *Counter, started chan<- struct{}) func(context.Context) (T, error) {
	var once sync.Once
	return func(ctx context.Context) (T, error) {
		c.Inc()
		if started != nil {
			once.Do(func() { close(started) })
		}
		<-ctx.Done()
		var zero T
		return zero, ctx.Err()
	}
}

// TestContext simplified test context
type TestContext struct {
	t       *testing.T
	timeout time.Duration
	cleanup []func()
	mu      sync.Mutex
}

// NewTestContext creates new test context
func NewTestContext(t *testing.T, timeout time.Duration) *TestContext {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	tc := &TestContext{t: t, timeout: timeout}
	t.Cleanup(tc.Cleanup)
	return tc
}

// Context returns context with timeout
func (tc *TestContext) Context() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), tc.timeout)
	tc.AddCleanup(cancel)
	return ctx
}

// AddCleanup adds cleanup function
func (tc *TestContext) AddCleanup(fn func()) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cleanup = append(tc.cleanup, fn)
}

// Cleanup executes cleanup
func (tc *TestContext) Cleanup() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Execute cleanup functions in reverse order
	for i := len(tc.cleanup) - 1; i >= 0; i-- {
		tc.cleanup[i]()
	}
	tc.cleanup = nil
}
