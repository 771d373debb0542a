package pipeline

import (
	"context"

	"github.com/jzx17/goresilience/pkg/types"
)

// chain holds strategies from outermost to innermost
type chain[T any] []types.Strategy[T]

func newChain[T any](strategies ...types.Strategy[T]) chain[T] {
	c := make(chain[T], len(strategies))
	copy(c, strategies)
	return c
}

func (c chain[T]) strategies() []types.Strategy[T] {
	out := make([]types.Strategy[T], len(c))
	copy(out, c)
	return out
}

// run wraps leaf in every strategy, innermost first, and invokes the result
func (c chain[T]) run(ctx context.Context, leaf types.Invoker[T]) types.Outcome[T] {
	next := leaf
	for i := len(c) - 1; i >= 0; i-- {
		s, inner := c[i], next
		next = func(ctx context.Context) types.Outcome[T] {
			return s.Execute(ctx, inner)
		}
	}
	return next(ctx)
}
