// Package cache provides the process-lifetime keyed caches used across
// the locator: dataset rows, city anchors, record points, road
// geometries and facility reports. Caches grow monotonically and are
// never evicted; keys are bounded by user interaction volume. They are
// explicit objects injected into components so tests can construct
// isolated instances.
package cache

import "sync"

type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func New[V any]() *Cache[V] {
	return &Cache[V]{entries: map[string]V{}}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
