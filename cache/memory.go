package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store implementation.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry[T]
}

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// NewMemory creates a new in-memory store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]*memoryEntry[T]),
	}
}

// Get retrieves a value from the store. Returns (zero, false) on miss
// or expiry.
func (m *Memory[T]) Get(_ context.Context, key string) (T, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	// Check expiry
	if time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return zero, false
	}

	return entry.value, true
}

// Set stores a value with the given TTL. TTL=0 means immediate expiry
// (no caching).
func (m *Memory[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	// TTL=0 means don't cache
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.entries[key] = &memoryEntry[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	m.mu.Unlock()

	return nil
}

// Delete removes a value from the store. Idempotent, no error on miss.
func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries currently held, expired included.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ensure Memory implements Store
var _ Store[string] = (*Memory[string])(nil)
