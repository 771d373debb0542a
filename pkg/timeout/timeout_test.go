package timeout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/goresilience/internal/testutils"
	"github.com/jzx17/goresilience/pkg/types"
)

func invoker[T any](op types.Operation[T]) types.Invoker[T] {
	return func(ctx context.Context) types.Outcome[T] {
		return types.Invoke(ctx, op)
	}
}

// assertTimersReleased checks that exactly one timer was created and that it
// was stopped, leaving nothing pending on the mock.
func assertTimersReleased(t *testing.T, clock *testutils.ClockWrapper) {
	t.Helper()
	timers := clock.Created()
	require.Len(t, timers, 1)
	assert.True(t, timers[0].Stopped(), "timer must be stopped when Execute returns")
	_, pending := clock.Peek()
	assert.False(t, pending, "no timer may remain scheduled")
}

func TestTimeout_CompletesFirst(t *testing.T) {
	clock := testutils.NewClockWrapper(testutils.NewMockClock(t))
	var fired atomic.Int32

	s, err := New[string](Config{
		Duration:  time.Second,
		OnTimeout: func(context.Context, Event) { fired.Add(1) },
	}, WithClock(clock))
	require.NoError(t, err)

	out := s.Execute(context.Background(), invoker(func(ctx context.Context) (string, error) {
		return "done", nil
	}))

	require.True(t, out.IsSuccess())
	assert.Equal(t, "done", out.Value())
	assert.Zero(t, fired.Load())
	assertTimersReleased(t, clock)
}

func TestTimeout_FailurePassesThrough(t *testing.T) {
	s, err := New[int](Config{Duration: time.Minute})
	require.NoError(t, err)

	var calls testutils.Counter
	out := s.Execute(context.Background(), invoker(testutils.FailingOperation[int](&calls)))

	assert.Equal(t, types.FailureFaulted, out.Kind())
	assert.ErrorIs(t, out.Err(), testutils.ErrTransient)
	assert.Equal(t, 1, calls.Load())
}

func TestTimeout_TimerFires(t *testing.T) {
	tc := testutils.NewTestContext(t, 5*time.Second)
	clock := testutils.NewClockWrapper(testutils.NewMockClock(t))

	var events []Event
	s, err := New[int](Config{
		Name:      "inner-timeout",
		Duration:  5 * time.Second,
		OnTimeout: func(_ context.Context, ev Event) { events = append(events, ev) },
	}, WithClock(clock))
	require.NoError(t, err)

	opCause := make(chan error, 1)
	op := func(ctx context.Context) (int, error) {
		<-ctx.Done()
		opCause <- context.Cause(ctx)
		return 0, ctx.Err()
	}

	done := make(chan types.Outcome[int], 1)
	go func() {
		done <- s.Execute(context.Background(), invoker(op))
	}()

	assert.Equal(t, 5*time.Second, clock.WaitTimer(t))
	clock.AdvanceAndWait(tc.Context(), 5*time.Second)

	var out types.Outcome[int]
	select {
	case out = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout strategy did not return")
	}

	require.True(t, out.IsTimedOut())
	assert.ErrorIs(t, out.Err(), types.ErrTimeout)
	assert.Equal(t, "inner-timeout", out.Cause().Strategy)

	require.Len(t, events, 1)
	assert.Equal(t, "inner-timeout", events[0].Name)
	assert.Equal(t, 5*time.Second, events[0].Timeout)
	assert.Equal(t, 5*time.Second, events[0].Elapsed)

	select {
	case cause := <-opCause:
		assert.ErrorIs(t, cause, types.ErrTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("operation was not cancelled")
	}
}

func TestTimeout_CallerCancels(t *testing.T) {
	clock := testutils.NewClockWrapper(testutils.NewMockClock(t))
	var fired atomic.Int32

	s, err := New[int](Config{
		Duration:  time.Minute,
		OnTimeout: func(context.Context, Event) { fired.Add(1) },
	}, WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var calls testutils.Counter

	done := make(chan types.Outcome[int], 1)
	go func() {
		done <- s.Execute(ctx, invoker(testutils.BlockingOperation[int](&calls, started)))
	}()

	<-started
	cancel()

	select {
	case out := <-done:
		assert.True(t, out.IsCallerCancelled())
		assert.True(t, errors.Is(out.Err(), context.Canceled))
		assert.ErrorIs(t, out.Err(), types.ErrCallerCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout strategy did not return")
	}
	assert.Zero(t, fired.Load(), "OnTimeout must not run on caller cancellation")
	assertTimersReleased(t, clock)
}

func TestTimeout_PreCancelled(t *testing.T) {
	clock := testutils.NewClockWrapper(testutils.NewMockClock(t))
	s, err := New[int](Config{Duration: time.Second}, WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls testutils.Counter
	out := s.Execute(ctx, invoker(testutils.FailingOperation[int](&calls)))

	assert.True(t, out.IsCallerCancelled())
	assert.Zero(t, calls.Load())
	assert.Empty(t, clock.Timers(), "no timer may be started")
}

func TestTimeout_UsesClockFromContext(t *testing.T) {
	tc := testutils.NewTestContext(t, 5*time.Second)
	mock := testutils.NewMockClock(t)
	clock := testutils.NewClockWrapper(mock)
	ctx := types.WithClock(context.Background(), clock)

	s, err := New[int](Config{Duration: 2 * time.Second})
	require.NoError(t, err)

	var calls testutils.Counter
	done := make(chan types.Outcome[int], 1)
	go func() {
		done <- s.Execute(ctx, invoker(testutils.BlockingOperation[int](&calls, nil)))
	}()

	assert.Equal(t, 2*time.Second, clock.WaitTimer(t))
	clock.AdvanceAndWait(tc.Context(), 2*time.Second)

	select {
	case out := <-done:
		assert.True(t, out.IsTimedOut())
	case <-time.After(5 * time.Second):
		t.Fatal("timeout strategy did not return")
	}
}

func TestTimeout_New(t *testing.T) {
	_, err := New[int](Config{Duration: 0})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)

	s, err := New[int](Config{Duration: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "timeout", s.Name())
	assert.Equal(t, time.Second, s.Duration())
}
