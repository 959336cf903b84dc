package invoke

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff maps the just-failed attempt number (1-based) to the delay
// inserted before the next attempt.
type Backoff func(attempt int) time.Duration

// Linear grows the delay with the attempt number: base, 2*base, 3*base.
func Linear(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Constant uses the same delay between all attempts.
func Constant(d time.Duration) Backoff {
	return func(int) time.Duration {
		return d
	}
}

// Exponential multiplies the delay each attempt, capped at max.
// A max of zero leaves the delay uncapped.
func Exponential(base time.Duration, multiplier float64, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		delay := time.Duration(float64(base) * math.Pow(multiplier, float64(attempt-1)))
		if max > 0 && delay > max {
			delay = max
		}
		return delay
	}
}

// WithJitter adds up to 25% random variance to b's delays to prevent
// thundering herd.
func WithJitter(b Backoff) Backoff {
	return func(attempt int) time.Duration {
		delay := b(attempt)
		if delay < 4 {
			return delay
		}
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		return delay + time.Duration(rand.Int64N(int64(delay/4)))
	}
}
