package guard

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	// Limit is the maximum number of concurrent invocations.
	// Default: 10
	Limit int64

	// AcquireTimeout is how long to wait for a slot before refusing.
	// Default: 0 (fail fast)
	AcquireTimeout time.Duration
}

// Bulkhead bounds concurrent invocations using a weighted semaphore.
type Bulkhead struct {
	config BulkheadConfig
	sem    *semaphore.Weighted

	active   atomic.Int64
	rejected atomic.Int64
}

// NewBulkhead creates a Bulkhead, applying defaults for zero config
// fields.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.Limit <= 0 {
		config.Limit = 10
	}

	return &Bulkhead{
		config: config,
		sem:    semaphore.NewWeighted(config.Limit),
	}
}

// Acquire claims a slot. Returns ErrFull when no slot frees up within
// AcquireTimeout, or the context error if ctx ends first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if b.sem.TryAcquire(1) {
		b.active.Add(1)
		return nil
	}

	if b.config.AcquireTimeout <= 0 {
		b.rejected.Add(1)
		return ErrFull
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.config.AcquireTimeout)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.rejected.Add(1)
		return ErrFull
	}

	b.active.Add(1)
	return nil
}

// Release returns a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	b.active.Add(-1)
	b.sem.Release(1)
}

// Execute runs op within a bulkhead slot.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// BulkheadStats is a snapshot of bulkhead occupancy.
type BulkheadStats struct {
	Active   int64
	Limit    int64
	Rejected int64
}

// Stats returns a snapshot of the bulkhead.
func (b *Bulkhead) Stats() BulkheadStats {
	return BulkheadStats{
		Active:   b.active.Load(),
		Limit:    b.config.Limit,
		Rejected: b.rejected.Load(),
	}
}
