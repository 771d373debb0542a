package types

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
)

type quartzClock struct {
	*quartz.Mock
}

func (c quartzClock) Now() time.Time                  { return c.Mock.Now() }
func (c quartzClock) Since(t time.Time) time.Duration { return c.Mock.Since(t) }
func (c quartzClock) NewTimer(d time.Duration) Timer  { return quartzTimer{c.Mock.NewTimer(d)} }

type quartzTimer struct {
	t *quartz.Timer
}

func (t quartzTimer) C() <-chan time.Time        { return t.t.C }
func (t quartzTimer) Stop() bool                 { return t.t.Stop() }
func (t quartzTimer) Reset(d time.Duration) bool { return t.t.Reset(d) }

func TestExecution(t *testing.T) {
	mock := quartz.NewMock(t)
	exec := NewExecution(quartzClock{mock})

	if exec.Attempt() != 0 {
		t.Errorf("expected attempt 0, got %d", exec.Attempt())
	}

	exec.SetAttempt(2)
	if exec.Attempt() != 2 {
		t.Errorf("expected attempt 2, got %d", exec.Attempt())
	}

	ctx := context.Background()
	mock.Advance(3 * time.Second).MustWait(ctx)
	if exec.Elapsed() != 3*time.Second {
		t.Errorf("expected elapsed 3s, got %v", exec.Elapsed())
	}
}

func TestExecutionContext(t *testing.T) {
	ctx := context.Background()
	if AttemptFromContext(ctx) != 0 {
		t.Error("expected attempt 0 outside an execution")
	}
	if _, ok := ExecutionFromContext(ctx); ok {
		t.Error("expected no execution in a bare context")
	}

	exec := NewExecution(nil)
	exec.SetAttempt(3)
	ctx = WithExecution(ctx, exec)

	got, ok := ExecutionFromContext(ctx)
	if !ok || got != exec {
		t.Fatal("expected execution round trip through context")
	}
	if AttemptFromContext(ctx) != 3 {
		t.Errorf("expected attempt 3, got %d", AttemptFromContext(ctx))
	}
}

func TestClockFromContext(t *testing.T) {
	if _, ok := ClockFromContext(context.Background()).(*RealClock); !ok {
		t.Error("expected RealClock by default")
	}

	mock := quartz.NewMock(t)
	ctx := WithClock(context.Background(), quartzClock{mock})
	if _, ok := ClockFromContext(ctx).(quartzClock); !ok {
		t.Error("expected clock from context")
	}
}

func TestSleep(t *testing.T) {
	t.Run("Completes", func(t *testing.T) {
		if err := Sleep(context.Background(), NewRealClock(), time.Millisecond); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Zero Duration", func(t *testing.T) {
		if err := Sleep(context.Background(), NewRealClock(), 0); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := Sleep(ctx, NewRealClock(), time.Minute)
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("sleep was not interrupted promptly")
		}
	})
}
