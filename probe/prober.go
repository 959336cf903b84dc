package probe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/resilient/invoke"
)

// ProberConfig configures a Prober.
type ProberConfig struct {
	// Timeout bounds a full RunAll pass.
	// Default: 10s
	Timeout time.Duration

	// Invoke is the retry policy applied to every probe. Zero fields get
	// the invoke package defaults; probes usually want a much shorter
	// AttemptTimeout than the 30s invoker default.
	Invoke invoke.Config

	// Parallel runs probes concurrently when true.
	// Default: true
	Parallel bool
}

// Prober runs registered probes through the resilient invoker and
// keeps their latest results.
type Prober struct {
	config  ProberConfig
	invoker *invoke.Invoker[struct{}]

	mu     sync.RWMutex
	probes map[string]Probe
	order  []string
	last   map[string]Result
}

// NewProber creates a Prober, applying defaults for zero config fields.
func NewProber(config ProberConfig) *Prober {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Prober{
		config:  config,
		invoker: invoke.New[struct{}](config.Invoke),
		probes:  make(map[string]Probe),
		last:    make(map[string]Result),
	}
}

// Register adds a probe. Re-registering a name replaces the probe but
// keeps its position.
func (p *Prober) Register(probe Probe) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := probe.Name()
	if _, exists := p.probes[name]; !exists {
		p.order = append(p.order, name)
	}
	p.probes[name] = probe
}

// Unregister removes a probe and its last result.
func (p *Prober) Unregister(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.probes, name)
	delete(p.last, name)

	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Names returns registered probe names in registration order.
func (p *Prober) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Run probes a single named dependency.
func (p *Prober) Run(ctx context.Context, name string) (Result, error) {
	p.mu.RLock()
	probe, ok := p.probes[name]
	p.mu.RUnlock()

	if !ok {
		return Result{}, ErrProbeNotFound
	}

	result := p.runProbe(ctx, probe)

	p.mu.Lock()
	p.last[name] = result
	p.mu.Unlock()

	return result, nil
}

// RunAll probes every registered dependency and returns the results by
// name.
func (p *Prober) RunAll(ctx context.Context) map[string]Result {
	p.mu.RLock()
	probes := make(map[string]Probe, len(p.probes))
	for name, probe := range p.probes {
		probes[name] = probe
	}
	p.mu.RUnlock()

	if len(probes) == 0 {
		return make(map[string]Result)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	results := make(map[string]Result, len(probes))

	if p.config.Parallel {
		var wg sync.WaitGroup
		var mu sync.Mutex

		for name, probe := range probes {
			wg.Add(1)
			go func(name string, probe Probe) {
				defer wg.Done()
				result := p.runProbe(ctx, probe)
				mu.Lock()
				results[name] = result
				mu.Unlock()
			}(name, probe)
		}

		wg.Wait()
	} else {
		for name, probe := range probes {
			results[name] = p.runProbe(ctx, probe)
		}
	}

	p.mu.Lock()
	for name, result := range results {
		p.last[name] = result
	}
	p.mu.Unlock()

	return results
}

// Start launches a background loop that refreshes the cached results
// every interval until ctx is cancelled. Interval <= 0 defaults to 30s.
func (p *Prober) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.RunAll(ctx)
			}
		}
	}()
}

// Last returns the most recent results without probing.
func (p *Prober) Last() map[string]Result {
	p.mu.RLock()
	defer p.mu.RUnlock()

	results := make(map[string]Result, len(p.last))
	for name, result := range p.last {
		results[name] = result
	}
	return results
}

// OverallStatus folds a set of results into one status: unhealthy wins
// over degraded, degraded over healthy. An empty set is healthy.
func OverallStatus(results map[string]Result) Status {
	status := StatusHealthy
	for _, result := range results {
		if result.Status > status {
			status = result.Status
		}
	}
	return status
}

// runProbe executes one probe under the invoker's retry policy and
// classifies the outcome.
func (p *Prober) runProbe(ctx context.Context, probe Probe) Result {
	start := time.Now()
	retries := 0

	cfg := p.invoker.Config()
	callerOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retries = attempt
		if callerOnRetry != nil {
			callerOnRetry(attempt, err, delay)
		}
	}

	_, err := invoke.Do(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, probe.Ping(ctx)
	})

	result := Result{
		Attempts:  retries + 1,
		Duration:  time.Since(start),
		Timestamp: start,
	}

	if err == nil {
		if retries > 0 {
			result.Status = StatusDegraded
			result.Message = "responded after retries"
		} else {
			result.Status = StatusHealthy
			result.Message = "ok"
		}
		return result
	}

	var ie *invoke.Error
	if errors.As(err, &ie) {
		result.Attempts = ie.Attempts
	}
	result.Status = StatusUnhealthy
	result.Error = err

	switch invoke.OutcomeOf(err) {
	case invoke.OutcomeTimedOut:
		result.Message = "probe timed out"
	case invoke.OutcomeCancelled:
		result.Message = "probe cancelled"
	default:
		result.Message = "probe failed"
	}
	return result
}
