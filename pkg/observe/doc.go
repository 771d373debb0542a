// Package observe carries the logging, metrics and tracing used around the
// resilience pipeline.
//
// The strategy packages never log. Telemetry is attached by building hook
// closures from a Telemetry value and passing them into the strategy
// configs:
//
//	tel := observe.Telemetry{Logger: logger, Metrics: metrics, Name: "orders"}
//
//	retryCfg.OnRetry = observe.RetryHook[*http.Response](tel)
//	outerCfg.OnTimeout = observe.TimeoutHook(tel, "processing timed out")
//	fallbackCfg.OnFallback = observe.FallbackHook[*http.Response](tel)
//
// Hooks log with the context of the execution, so a ZapLogger adds trace_id
// and span_id when a span is active. LogRetryDecision wraps a predicate,
// which has no context, and its entries are never correlated; RetryHook
// repeats the classification of each retried attempt with correlation.
//
// Logger is a small structured interface with a zap-backed implementation
// and a no-op one. Metrics wraps a set of OpenTelemetry instruments; a nil
// *Metrics records nothing.
package observe
