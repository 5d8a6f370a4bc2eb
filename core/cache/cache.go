package cache

import (
	"sync"
	"time"
)

// entry wraps a cached value with its creation timestamp.
type entry[T any] struct {
	value     T
	createdAt time.Time
}

// Store is a keyed TTL cache. A zero TTL means entries never expire and
// live until Clear is called (session-lived caches such as show lookups
// and title searches). A non-zero TTL makes Get evict and miss once an
// entry's age exceeds it.
//
// The store is safe for concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
}

// New creates a Store with the given TTL. Pass 0 for session-lived entries.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key. A stale entry is evicted and
// reported as a miss; callers must treat a miss as "refetch".
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	if s.ttl > 0 && time.Since(e.createdAt) > s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry in the meantime.
		if cur, still := s.entries[key]; still && time.Since(cur.createdAt) > s.ttl {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, createdAt: time.Now()}
	s.mu.Unlock()
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry[T])
	s.mu.Unlock()
}

// Len returns the number of live entries, counting stale ones that have
// not been evicted yet.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
