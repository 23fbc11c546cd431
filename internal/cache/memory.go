package cache

import (
	"context"
	"sync"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
)

// Ensure Memory implements RepositoryCache
var _ RepositoryCache = (*Memory)(nil)

type memoryEntry struct {
	value     *domain.Result
	writtenAt time.Time
}

// Memory is an in-process RepositoryCache guarded by a single mutex.
// Expired entries are dropped when touched; there is no background sweep.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// MemoryOption configures a Memory cache
type MemoryOption func(*Memory)

// WithClock replaces time.Now
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an in-process cache
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the expiry window
func (m *Memory) TTL() time.Duration {
	return m.ttl
}

// Get returns the stored result if present and not expired
func (m *Memory) Get(_ context.Context, key string) (*domain.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.writtenAt) > m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key
func (m *Memory) Put(_ context.Context, key string, value *domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, writtenAt: m.now()}
	return nil
}

// Delete removes key
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close drops every entry
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	return nil
}
