// Package memo caches the results of pure functions.
//
// The cache cannot tell whether the wrapped function is pure. Callers must
// only wrap functions that always return the same result for the same
// argument; otherwise cached answers go stale.
package memo

import "sync"

// Cache memoises a unary function. The zero value is not usable; create one
// with Memoize or Synchronized.
//
// A Cache built by Memoize is not safe for concurrent use. The cache grows
// without bound for its lifetime.
type Cache[K comparable, V any] struct {
	fn      func(K) V
	entries map[K]V
	mu      *sync.RWMutex
}

// Memoize returns a cache in front of fn for use by a single goroutine.
func Memoize[K comparable, V any](fn func(K) V) *Cache[K, V] {
	return &Cache[K, V]{
		fn:      fn,
		entries: make(map[K]V),
	}
}

// Synchronized returns a cache in front of fn that may be shared by several
// goroutines. Two goroutines missing on the same key may both call fn.
func Synchronized[K comparable, V any](fn func(K) V) *Cache[K, V] {
	return &Cache[K, V]{
		fn:      fn,
		entries: make(map[K]V),
		mu:      &sync.RWMutex{},
	}
}

// Get returns fn(key), calling fn only the first time key is seen.
func (c *Cache[K, V]) Get(key K) V {
	if c.mu == nil {
		if v, ok := c.entries[key]; ok {
			return v
		}
		v := c.fn(key)
		c.entries[key] = v
		return v
	}

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = c.fn(key)
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	if c.mu != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	return len(c.entries)
}
