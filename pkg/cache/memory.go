package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// entry holds a cached value with its own expiration time.
type entry[V any] struct {
	expiresAt time.Time
	value     V
}

func (e entry[V]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL time.Duration
	maxEntries int
}

// WithDefaultTTL sets the expiration used when Set gets no TTL.
// It is also the upper bound for any per-entry TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is evicted
// when the limit is reached. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// Memory is a process-local cache on top of an expirable LRU.
// The LRU drops entries older than the default TTL in the background;
// shorter per-entry TTLs are enforced on read.
type Memory[V any] struct {
	lru        *expirable.LRU[string, entry[V]]
	defaultTTL time.Duration
	closed     atomic.Bool
}

// NewMemory creates a new in-memory cache.
//
//	c := cache.NewMemory[string](
//		cache.WithDefaultTTL(24*time.Hour),
//		cache.WithMaxEntries(100_000),
//	)
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := &memoryOptions{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(o)
	}

	return &Memory[V]{
		lru:        expirable.NewLRU[string, entry[V]](o.maxEntries, nil, o.defaultTTL),
		defaultTTL: o.defaultTTL,
	}
}

// Get retrieves a value by key and marks it as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	if m.closed.Load() {
		return zero, ErrClosed
	}

	e, ok := m.lru.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if e.isExpired(time.Now()) {
		m.lru.Remove(key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value. TTLs above the default are capped to it.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}

	if ttl <= 0 || ttl > m.defaultTTL {
		ttl = m.defaultTTL
	}
	m.lru.Add(key, entry[V]{value: value, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.lru.Remove(key)
	return nil
}

// Has checks whether a key exists and has not expired.
// It does not affect recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	if m.closed.Load() {
		return false, ErrClosed
	}
	e, ok := m.lru.Peek(key)
	return ok && !e.isExpired(time.Now()), nil
}

// Len returns the number of entries, including ones awaiting lazy expiry.
func (m *Memory[V]) Len() int {
	return m.lru.Len()
}

// Close drops all entries and rejects further calls. Close is idempotent.
func (m *Memory[V]) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.lru.Purge()
	}
	return nil
}

var _ Cache[any] = (*Memory[any])(nil)
