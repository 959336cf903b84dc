package guard

import (
	"context"
	"sync"
	"time"
)

// LimiterConfig configures a Limiter.
type LimiterConfig struct {
	// PerSecond is the sustained invocation rate.
	// Default: 100
	PerSecond float64

	// Burst is the bucket capacity.
	// Default: 10
	Burst int

	// Wait blocks for a token instead of refusing immediately.
	// Default: false
	Wait bool

	// MaxWait bounds the blocking when Wait is set.
	// Default: 1s
	MaxWait time.Duration
}

// Limiter is a token-bucket rate limiter for invocation starts.
type Limiter struct {
	config LimiterConfig

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewLimiter creates a Limiter, applying defaults for zero config
// fields. The bucket starts full.
func NewLimiter(config LimiterConfig) *Limiter {
	if config.PerSecond <= 0 {
		config.PerSecond = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &Limiter{
		config: config,
		tokens: float64(config.Burst),
		last:   time.Now(),
	}
}

// Allow consumes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillLocked()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Admit consumes a token, blocking per config when the bucket is empty.
// Returns ErrThrottled when no token is obtained in time.
func (l *Limiter) Admit(ctx context.Context) error {
	if l.Allow() {
		return nil
	}
	if !l.config.Wait {
		return ErrThrottled
	}

	deadline := time.Now().Add(l.config.MaxWait)
	ticker := time.NewTicker(l.retryInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Allow() {
				return nil
			}
			if time.Now().After(deadline) {
				return ErrThrottled
			}
		}
	}
}

// Execute runs op once a token is obtained.
func (l *Limiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := l.Admit(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// retryInterval is the polling cadence while waiting for a token,
// derived from the refill rate and clamped to keep the wait responsive.
func (l *Limiter) retryInterval() time.Duration {
	interval := time.Duration(float64(time.Second) / l.config.PerSecond)
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	if interval > 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return interval
}

// refillLocked adds tokens for the time elapsed since the last refill.
// Callers must hold l.mu.
func (l *Limiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(l.last).Seconds()
	l.last = now

	l.tokens += elapsed * l.config.PerSecond
	if max := float64(l.config.Burst); l.tokens > max {
		l.tokens = max
	}
}
