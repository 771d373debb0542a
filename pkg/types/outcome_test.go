package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestOutcome_Success(t *testing.T) {
	o := Success("ok")

	if !o.IsSuccess() || o.IsFailure() {
		t.Fatal("expected success outcome")
	}
	if o.Kind() != FailureNone {
		t.Errorf("expected kind none, got %v", o.Kind())
	}
	if o.Value() != "ok" {
		t.Errorf("expected value 'ok', got %q", o.Value())
	}
	if o.Err() != nil || o.Cause() != nil {
		t.Error("success must not carry a cause")
	}

	v, err := o.Unwrap()
	if v != "ok" || err != nil {
		t.Errorf("unexpected unwrap result %q, %v", v, err)
	}
}

func TestOutcome_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		outcome   Outcome[int]
		kind      FailureKind
		cancelled bool
	}{
		{"Faulted", Faulted[int](boom), FailureFaulted, false},
		{"Rejected", Rejected(503, "status 503"), FailureRejected, false},
		{"TimedOut", TimedOut[int]("inner-timeout"), FailureTimedOut, true},
		{"CallerCancelled", CallerCancelled[int]("retry", context.Canceled), FailureCallerCancelled, true},
		{"Nil Cause", Failure[int](nil), FailureFaulted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.outcome.IsFailure() {
				t.Fatal("expected failure outcome")
			}
			if tt.outcome.Kind() != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.outcome.Kind())
			}
			if tt.outcome.IsCancelled() != tt.cancelled {
				t.Errorf("expected IsCancelled %v", tt.cancelled)
			}
			if tt.outcome.Value() != 0 {
				t.Errorf("failure must carry the zero value, got %d", tt.outcome.Value())
			}
			if tt.outcome.Err() == nil {
				t.Error("failure must carry a cause")
			}
		})
	}
}

func TestOutcome_RejectedKeepsValue(t *testing.T) {
	o := Rejected(503, "status 503")

	if o.Cause().Value != 503 {
		t.Errorf("expected rejected value 503, got %v", o.Cause().Value)
	}
	if !errors.Is(o.Err(), ErrRejected) {
		t.Error("expected rejected outcome to match ErrRejected")
	}
}

func TestFromResult(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		o := FromResult(context.Background(), 7, nil)
		if !o.IsSuccess() || o.Value() != 7 {
			t.Errorf("expected success 7, got %v", o)
		}
	})

	t.Run("Plain Error Is Fault", func(t *testing.T) {
		o := FromResult(context.Background(), 0, errors.New("refused"))
		if o.Kind() != FailureFaulted {
			t.Errorf("expected faulted, got %v", o.Kind())
		}
	})

	t.Run("Failure Error Kept", func(t *testing.T) {
		err := fmt.Errorf("op: %w", NewFailureError(FailureRejected, "", nil))
		o := FromResult(context.Background(), 0, err)
		if o.Kind() != FailureRejected {
			t.Errorf("expected rejected, got %v", o.Kind())
		}
	})

	t.Run("Context Error While Done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		o := FromResult(ctx, 0, ctx.Err())
		if !o.IsCallerCancelled() {
			t.Errorf("expected caller cancelled, got %v", o.Kind())
		}
	})

	t.Run("Context Error While Live Is Fault", func(t *testing.T) {
		o := FromResult(context.Background(), 0, context.DeadlineExceeded)
		if o.Kind() != FailureFaulted {
			t.Errorf("expected faulted, got %v", o.Kind())
		}
	})
}

func TestInvoke_RecoversPanic(t *testing.T) {
	o := Invoke(context.Background(), func(ctx context.Context) (string, error) {
		panic("kaboom")
	})

	if o.Kind() != FailureFaulted {
		t.Fatalf("expected faulted, got %v", o.Kind())
	}

	var pe *PanicError
	if !errors.As(o.Err(), &pe) {
		t.Fatalf("expected PanicError in chain, got %v", o.Err())
	}
	if pe.Value != "kaboom" {
		t.Errorf("expected panic value 'kaboom', got %v", pe.Value)
	}
	if len(pe.Stack) == 0 {
		t.Error("expected stack to be captured")
	}
}
