package types

import (
	"context"
	"errors"
	"runtime/debug"
)

// Outcome is the tagged result of one operation attempt or of a whole
// strategy stack. Exactly one of value or cause is meaningful: a success
// carries a value and a nil cause, a failure carries a cause and the zero
// value.
type Outcome[T any] struct {
	value T
	cause *FailureError
}

// Success returns a successful outcome holding v
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure returns a failed outcome for cause. A nil cause is treated as a
// fault with no further detail.
func Failure[T any](cause *FailureError) Outcome[T] {
	if cause == nil {
		cause = NewFailureError(FailureFaulted, "", nil)
	}
	return Outcome[T]{cause: cause}
}

// Faulted returns a failure wrapping an operation error
func Faulted[T any](err error) Outcome[T] {
	return Failure[T](NewFailureError(FailureFaulted, "", err))
}

// Rejected returns a failure for a value that policy considers unacceptable.
// The value is kept on the FailureError for inspection.
func Rejected[T any](v T, reason string) Outcome[T] {
	fe := NewFailureError(FailureRejected, "", nil)
	if reason != "" {
		fe.Cause = errors.New(reason)
	}
	fe.Value = v
	return Failure[T](fe)
}

// TimedOut returns a failure reported by a timeout strategy
func TimedOut[T any](strategy string) Outcome[T] {
	return Failure[T](NewFailureError(FailureTimedOut, strategy, nil))
}

// CallerCancelled returns a failure caused by the caller's context
func CallerCancelled[T any](strategy string, err error) Outcome[T] {
	return Failure[T](NewFailureError(FailureCallerCancelled, strategy, err))
}

// FromResult converts an operation's (value, error) pair into an Outcome.
// A *FailureError returned by the operation is kept as-is; a context error
// while ctx is done is reported as caller cancellation; any other error is
// a fault.
func FromResult[T any](ctx context.Context, v T, err error) Outcome[T] {
	if err == nil {
		return Success(v)
	}
	if fe, ok := AsFailure(err); ok {
		return Failure[T](fe)
	}
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return CallerCancelled[T]("operation", err)
	}
	return Faulted[T](err)
}

// Invoke runs op and converts its result into an Outcome. A panic inside op
// is recovered into a fault carrying a *PanicError.
func Invoke[T any](ctx context.Context, op Operation[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Faulted[T](&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()

	v, err := op(ctx)
	return FromResult(ctx, v, err)
}

// IsSuccess reports whether the outcome carries a value
func (o Outcome[T]) IsSuccess() bool {
	return o.cause == nil
}

// IsFailure reports whether the outcome carries a cause
func (o Outcome[T]) IsFailure() bool {
	return o.cause != nil
}

// IsCancelled reports whether the outcome is a timeout or a caller cancellation
func (o Outcome[T]) IsCancelled() bool {
	k := o.Kind()
	return k == FailureTimedOut || k == FailureCallerCancelled
}

// IsTimedOut reports whether a timeout strategy produced the outcome
func (o Outcome[T]) IsTimedOut() bool {
	return o.Kind() == FailureTimedOut
}

// IsCallerCancelled reports whether the caller's context produced the outcome
func (o Outcome[T]) IsCallerCancelled() bool {
	return o.Kind() == FailureCallerCancelled
}

// Kind returns the failure kind, FailureNone for a success
func (o Outcome[T]) Kind() FailureKind {
	if o.cause == nil {
		return FailureNone
	}
	return o.cause.Kind
}

// Value returns the success value, or the zero value for a failure
func (o Outcome[T]) Value() T {
	return o.value
}

// Cause returns the failure cause, nil for a success
func (o Outcome[T]) Cause() *FailureError {
	return o.cause
}

// Err returns the failure cause as an error, nil for a success
func (o Outcome[T]) Err() error {
	if o.cause == nil {
		return nil
	}
	return o.cause
}

// Unwrap returns the outcome in Go's value/error form
func (o Outcome[T]) Unwrap() (T, error) {
	return o.value, o.Err()
}
