package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/goresilience/internal/testutils"
	"github.com/jzx17/goresilience/pkg/types"
)

func stub[T any](out types.Outcome[T], calls *testutils.Counter) types.Invoker[T] {
	return func(ctx context.Context) types.Outcome[T] {
		calls.Inc()
		return out
	}
}

func TestFallback_Substitutes(t *testing.T) {
	tests := []struct {
		name    string
		outcome types.Outcome[string]
	}{
		{"faulted", types.Faulted[string](errors.New("boom"))},
		{"rejected", types.Rejected("bad", "status 500")},
		{"outer timeout", types.TimedOut[string]("outer-timeout")},
		{"inner timeout", types.TimedOut[string]("inner-timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls, hooks, produced testutils.Counter
			var seen types.Outcome[string]

			s, err := New(Config[string]{
				OnFallback: func(_ context.Context, o types.Outcome[string]) {
					hooks.Inc()
					seen = o
				},
				Produce: func() string {
					produced.Inc()
					return "substitute"
				},
			})
			require.NoError(t, err)

			out := s.Execute(context.Background(), stub(tt.outcome, &calls))

			require.True(t, out.IsSuccess())
			assert.Equal(t, "substitute", out.Value())
			assert.Equal(t, 1, calls.Load())
			assert.Equal(t, 1, hooks.Load())
			assert.Equal(t, 1, produced.Load())
			assert.Equal(t, tt.outcome.Kind(), seen.Kind())
		})
	}
}

func TestFallback_SuccessPassesThrough(t *testing.T) {
	var calls, produced testutils.Counter
	s, err := New(Config[int]{Produce: func() int { produced.Inc(); return -1 }})
	require.NoError(t, err)

	out := s.Execute(context.Background(), stub(types.Success(42), &calls))

	assert.Equal(t, 42, out.Value())
	assert.Zero(t, produced.Load())
}

func TestFallback_PredicateDeclines(t *testing.T) {
	var calls, produced testutils.Counter
	boom := errors.New("boom")

	s, err := New(Config[int]{
		ShouldFallback: func(types.Outcome[int]) bool { return false },
		Produce:        func() int { produced.Inc(); return -1 },
	})
	require.NoError(t, err)

	out := s.Execute(context.Background(), stub(types.Faulted[int](boom), &calls))

	assert.Equal(t, types.FailureFaulted, out.Kind())
	assert.ErrorIs(t, out.Err(), boom)
	assert.Zero(t, produced.Load())
}

func TestFallback_PredicateVetoesSuccess(t *testing.T) {
	var calls testutils.Counter
	s, err := New(Config[int]{
		ShouldFallback: func(o types.Outcome[int]) bool { return o.IsFailure() || o.Value() == 0 },
		Produce:        Value(7),
	})
	require.NoError(t, err)

	out := s.Execute(context.Background(), stub(types.Success(0), &calls))
	assert.Equal(t, 7, out.Value())
}

func TestFallback_CallerCancellationBypasses(t *testing.T) {
	var calls, hooks, produced testutils.Counter
	s, err := New(Config[int]{
		ShouldFallback: func(types.Outcome[int]) bool { return true },
		OnFallback:     func(context.Context, types.Outcome[int]) { hooks.Inc() },
		Produce:        func() int { produced.Inc(); return -1 },
	})
	require.NoError(t, err)

	out := s.Execute(context.Background(), stub(types.CallerCancelled[int]("retry", context.Canceled), &calls))

	assert.True(t, out.IsCallerCancelled())
	assert.Zero(t, hooks.Load())
	assert.Zero(t, produced.Load())
}

func TestFallback_PreCancelled(t *testing.T) {
	var calls, produced testutils.Counter
	s, err := New(Config[int]{Produce: func() int { produced.Inc(); return -1 }})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := s.Execute(ctx, stub(types.Success(1), &calls))

	assert.True(t, out.IsCallerCancelled())
	assert.Zero(t, calls.Load())
	assert.Zero(t, produced.Load())
}

func TestFallback_ProducePanicPropagates(t *testing.T) {
	var calls testutils.Counter
	s, err := New(Config[int]{Produce: func() int { panic("producer failed") }})
	require.NoError(t, err)

	assert.PanicsWithValue(t, "producer failed", func() {
		s.Execute(context.Background(), stub(types.Faulted[int](errors.New("boom")), &calls))
	})
}

func TestFallback_New(t *testing.T) {
	_, err := New(Config[int]{})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)

	s, err := New(Config[int]{Produce: Value(0)})
	require.NoError(t, err)
	assert.Equal(t, "fallback", s.Name())
}
