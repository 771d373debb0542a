package pipeline

import (
	"context"

	"github.com/jzx17/goresilience/pkg/types"
)

// ExecuteAsync runs Execute on its own goroutine. The channel receives
// exactly one result and is then closed.
func (p *Pipeline[T]) ExecuteAsync(ctx context.Context, op types.Operation[T]) <-chan types.Result[T] {
	resultChan := make(chan types.Result[T], 1)

	go func() {
		defer close(resultChan)

		clock := p.clock
		if clock == nil {
			clock = types.ClockFromContext(ctx)
		}

		start := clock.Now()
		out := p.Execute(ctx, op)
		resultChan <- types.Result[T]{Outcome: out, Duration: clock.Since(start)}
	}()

	return resultChan
}
