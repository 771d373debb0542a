// Package timeout bounds how long the next layer may run.
//
// The same Strategy serves as the outer timeout, which bounds a whole
// execution including every retry, and as the inner timeout, which bounds a
// single attempt. Each Execute derives its own cancellation signal from the
// caller's context, so a retry layer above an inner timeout gets a fresh
// deadline for every attempt.
//
// Usage:
//
//	inner, err := timeout.New[string](timeout.Config{
//		Name:     "inner-timeout",
//		Duration: 5 * time.Second,
//	})
//
// A timer firing yields a TimedOut outcome and calls OnTimeout once. The
// caller's own cancellation yields CallerCancelled and skips the hook. The
// wrapped call is cancelled but not awaited: it is expected to honour its
// context.
package timeout
