// Package httpop adapts HTTP requests to pipeline operations and supplies
// the predicates and fallback producers commonly paired with them.
package httpop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/types"
)

// drainLimit bounds how much of a discarded body is read before closing
const drainLimit = 4096

// Do returns an operation that builds a request with build and sends it
// with client. The request must be bound to the ctx it is given so that
// timeouts and cancellation reach the transport.
func Do(client *http.Client, build func(ctx context.Context) (*http.Request, error)) types.Operation[*http.Response] {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		return client.Do(req)
	}
}

// Get returns an operation issuing GET url
func Get(client *http.Client, url string) types.Operation[*http.Response] {
	return Do(client, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

// RetryOnStatus retries failures (except caller cancellation), missing
// responses, and responses whose status is not in ok. ok defaults to 200.
func RetryOnStatus(ok ...int) retry.Predicate[*http.Response] {
	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	return func(o types.Outcome[*http.Response]) bool {
		if o.IsFailure() {
			return !o.IsCallerCancelled()
		}
		resp := o.Value()
		return resp == nil || !slices.Contains(ok, resp.StatusCode)
	}
}

// FallbackOnNoResponse falls back when no response was obtained. A response
// with an unexpected status is passed on to the caller unchanged.
func FallbackOnNoResponse(o types.Outcome[*http.Response]) bool {
	return o.IsFailure() || o.Value() == nil
}

// DiscardBody drains and closes the body of a response that will not be
// used. It is safe to call with nil.
func DiscardBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, resp.Body, drainLimit)
	_ = resp.Body.Close()
}

// DiscardRetried releases the response of an attempt that is about to be
// retried. Use it as, or inside, retry.Config.OnRetry.
func DiscardRetried(_ context.Context, ev retry.Event[*http.Response]) {
	DiscardBody(ev.Outcome.Value())
}

// JSONResponse returns a producer of synthetic responses with status and v
// encoded as the JSON body. Every call builds a fresh body.
func JSONResponse(status int, v any) (func() *http.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fallback body: %w", err)
	}
	return func() *http.Response {
		return &http.Response{
			Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
			StatusCode:    status,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        http.Header{"Content-Type": []string{"application/json"}},
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: int64(len(body)),
		}
	}, nil
}

// DecodeJSON decodes the response body into v and closes it
func DecodeJSON(resp *http.Response, v any) error {
	if resp == nil || resp.Body == nil {
		return fmt.Errorf("decode response: no body")
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
