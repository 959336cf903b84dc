package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/resilient/invoke"
)

// FallbackConfig configures a Fallback.
type FallbackConfig struct {
	// TTL bounds how long a stored value stays eligible as a fallback.
	// Default: 5m
	TTL time.Duration

	// Invoke is the retry policy for the wrapped operation. Zero fields
	// get the invoke package defaults.
	Invoke invoke.Config

	// OnStale is called when a stored value is served in place of a
	// timed-out invocation. err is the invocation error being masked.
	OnStale func(key string, err error)
}

// Fallback runs operations through the resilient invoker and keeps the
// last successful value per key. When an invocation exhausts its
// attempts on per-attempt timeouts, the stored value is served instead.
//
// Only the timed-out outcome falls back. A failed invocation reports
// its error so callers see real faults, and a cancelled one returns
// promptly because the caller asked it to.
type Fallback[T any] struct {
	store   Store[T]
	config  FallbackConfig
	invoker *invoke.Invoker[T]
	group   singleflight.Group
}

// NewFallback creates a Fallback over store, applying defaults for zero
// config fields.
func NewFallback[T any](store Store[T], config FallbackConfig) (*Fallback[T], error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}

	return &Fallback[T]{
		store:   store,
		config:  config,
		invoker: invoke.New[T](config.Invoke),
	}, nil
}

// Do invokes op under the retry policy. On success the value is stored
// under key and returned. On a timed-out invocation a stored value is
// returned instead when one is present; OnStale observes that
// substitution. Concurrent calls for the same key share one in-flight
// invocation.
func (f *Fallback[T]) Do(ctx context.Context, key string, op invoke.Operation[T]) (T, error) {
	var zero T

	if err := ValidateKey(key); err != nil {
		return zero, err
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		value, err := f.invoker.Do(ctx, op)
		if err == nil {
			// A refresh failure is not worth failing the call over; the
			// value itself is good.
			_ = f.store.Set(ctx, key, value, f.config.TTL)
			return value, nil
		}

		if invoke.OutcomeOf(err) != invoke.OutcomeTimedOut {
			return nil, err
		}

		stored, ok := f.store.Get(ctx, key)
		if !ok {
			return nil, err
		}

		if f.config.OnStale != nil {
			f.config.OnStale(key, err)
		}
		return stored, nil
	})
	if err != nil {
		return zero, err
	}

	return v.(T), nil
}

// Invalidate drops the stored value for key.
func (f *Fallback[T]) Invalidate(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return f.store.Delete(ctx, key)
}

// Peek returns the stored value for key without invoking anything.
func (f *Fallback[T]) Peek(ctx context.Context, key string) (T, bool) {
	return f.store.Get(ctx, key)
}
