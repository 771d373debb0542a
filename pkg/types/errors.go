// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrFaulted indicates the operation itself failed
	ErrFaulted = errors.New("operation faulted")

	// ErrRejected indicates a value was returned but policy rejected it
	ErrRejected = errors.New("operation result rejected")

	// ErrTimeout indicates a strategy deadline elapsed
	ErrTimeout = errors.New("operation timeout")

	// ErrCallerCancelled indicates the caller's own context was cancelled
	ErrCallerCancelled = errors.New("operation cancelled by caller")

	// ErrInvalidConfig indicates a strategy or pipeline was misconfigured
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FailureKind classifies why an outcome is not a success.
type FailureKind int

const (
	// FailureNone is the kind of a successful outcome
	FailureNone FailureKind = iota
	// FailureFaulted the operation returned an error or panicked
	FailureFaulted
	// FailureRejected the operation returned a value that policy considers unacceptable
	FailureRejected
	// FailureTimedOut a timeout strategy's deadline elapsed
	FailureTimedOut
	// FailureCallerCancelled the caller's context fired
	FailureCallerCancelled
)

// String returns the string representation of FailureKind
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureFaulted:
		return "faulted"
	case FailureRejected:
		return "rejected"
	case FailureTimedOut:
		return "timed_out"
	case FailureCallerCancelled:
		return "caller_cancelled"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureFaulted:
		return ErrFaulted
	case FailureRejected:
		return ErrRejected
	case FailureTimedOut:
		return ErrTimeout
	case FailureCallerCancelled:
		return ErrCallerCancelled
	default:
		return nil
	}
}

// FailureError is the cause carried by a failed Outcome
type FailureError struct {
	// Kind classifies the failure
	Kind FailureKind

	// Strategy is the name of the layer that produced the failure
	Strategy string

	// Cause is the underlying error, if any
	Cause error

	// Value is the rejected value for FailureRejected; nil otherwise
	Value any

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *FailureError) Error() string {
	msg := e.Kind.String()
	if e.Strategy != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Strategy)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FailureError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of this failure's kind
func (e *FailureError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// WithContext adds error context
func (e *FailureError) WithContext(key string, value interface{}) *FailureError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewFailureError creates a failure of the given kind
func NewFailureError(kind FailureKind, strategy string, cause error) *FailureError {
	return &FailureError{
		Kind:     kind,
		Strategy: strategy,
		Cause:    cause,
	}
}

// AsFailure extracts the FailureError from err's chain
func AsFailure(err error) (*FailureError, bool) {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// PanicError records a panic recovered from an operation
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}
