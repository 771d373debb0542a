// Package retry provides the retry layer of the resilience pipeline and the
// backoff calculator that spaces its attempts.
//
// Backoff growth modes:
//   - GrowthConstant: every delay equals BaseDelay
//   - GrowthLinear: BaseDelay × n
//   - GrowthExponential: BaseDelay × 2^(n−1)
//
// The delay is clamped to MaxDelay. With Jitter enabled the clamped delay is
// multiplied by a uniform factor in [0.75, 1.25) and is not clamped again, so
// choose MaxDelay with headroom if a strict upper bound matters.
//
// Basic usage example:
//
//	strategy, err := retry.New(retry.Config[*http.Response]{
//		MaxAttempts: 3,
//		Backoff: retry.Backoff{
//			BaseDelay: 3 * time.Second,
//			MaxDelay:  10 * time.Second,
//			Growth:    retry.GrowthLinear,
//			Jitter:    true,
//		},
//		ShouldRetry: func(o types.Outcome[*http.Response]) bool {
//			return o.IsFailure() || o.Value().StatusCode != http.StatusOK
//		},
//	})
//
//	resp, err := retry.Do(ctx, strategy, func(ctx context.Context) (*http.Response, error) {
//		return client.Get(url)
//	})
//
// Classification:
//
// ShouldRetry sees every outcome, successes included. Returning true for a
// success demotes it to a retryable result; returning false for a failure
// makes that failure final. Caller cancellation is never retried and never
// reaches the predicate's verdict.
//
// MaxAttempts counts retries, not calls: MaxAttempts = 3 allows up to four
// invocations of the next layer. Each invocation calls the next layer anew,
// so a per-attempt timeout below the retry layer gets a fresh deadline.
//
// Thread safety:
//
// A Strategy holds only immutable configuration and may be shared by
// concurrent executions. The default jitter source is the goroutine-safe
// global generator of math/rand/v2.
package retry
