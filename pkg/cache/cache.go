package cache

import (
	"sync"
	"time"
)

// Cache is a process-wide TTL cache shared across concurrent query flows.
// Reads run concurrently; writes take the exclusive lock, so a value stored by
// Set is visible to every Get issued after Set returns.
//
// Expiry boundary: an entry is valid while now - storedAt < ttl. A read at
// exactly ttl after the write is treated as expired.
type Cache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]

	now func() time.Time
}

type entry[T any] struct {
	value    T
	storedAt time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get returns the cached value for key. Expired entries are a miss and are
// removed lazily.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Recheck under the write lock; another flow may have refreshed it
		if cur, ok := c.entries[key]; ok && c.now().Sub(cur.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores the value for key, resetting its TTL
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
}

// Len returns the number of entries including not-yet-collected expired ones
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
