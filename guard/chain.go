package guard

import (
	"context"

	"github.com/jonwraymond/resilient/invoke"
)

// Chain composes admission patterns around an operation.
type Chain struct {
	limiter  *Limiter
	bulkhead *Bulkhead
	breaker  *Breaker
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// NewChain creates a Chain from the given options. Patterns left
// unconfigured are skipped.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLimiter adds rate limiting to the chain.
func WithLimiter(l *Limiter) ChainOption {
	return func(c *Chain) {
		c.limiter = l
	}
}

// WithBulkhead adds concurrency bounding to the chain.
func WithBulkhead(b *Bulkhead) ChainOption {
	return func(c *Chain) {
		c.bulkhead = b
	}
}

// WithBreaker adds circuit breaking to the chain.
func WithBreaker(b *Breaker) ChainOption {
	return func(c *Chain) {
		c.breaker = b
	}
}

// Execute runs op through the configured patterns, evaluated limiter
// first, then bulkhead, then breaker.
func (c *Chain) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if c.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return c.breaker.Execute(ctx, inner)
		}
	}

	if c.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return c.bulkhead.Execute(ctx, inner)
		}
	}

	if c.limiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return c.limiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Through runs op under the invoker's retry policy, admitted by the
// chain. The chain decision is made once per call, not once per
// attempt, so an open breaker refuses the call before any attempt
// starts.
func Through[T any](ctx context.Context, c *Chain, inv *invoke.Invoker[T], op invoke.Operation[T]) (T, error) {
	var value T
	err := c.Execute(ctx, func(ctx context.Context) error {
		v, err := inv.Do(ctx, op)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}
