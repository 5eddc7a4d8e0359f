// Package cache provides caching utilities for the MCP server.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a thread-safe, size-bounded cache keyed by string IDs.
type LRU[V any] struct {
	cache *lru.Cache[string, V]
}

// NewLRU creates a new LRU cache with the specified maximum number of items.
func NewLRU[V any](maxItems int) (*LRU[V], error) {
	c, err := lru.New[string, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &LRU[V]{cache: c}, nil
}

// Get retrieves a value by its ID and marks it recently used.
// Returns the value and true if found, the zero value and false otherwise.
func (c *LRU[V]) Get(id string) (V, bool) {
	return c.cache.Get(id)
}

// Peek retrieves a value without updating its recency.
func (c *LRU[V]) Peek(id string) (V, bool) {
	return c.cache.Peek(id)
}

// Put adds or updates a value. Returns true if an older item was evicted.
func (c *LRU[V]) Put(id string, v V) bool {
	return c.cache.Add(id, v)
}

// Remove deletes a value. Returns true if it was present.
func (c *LRU[V]) Remove(id string) bool {
	return c.cache.Remove(id)
}

// Values returns the cached values from oldest to newest.
func (c *LRU[V]) Values() []V {
	return c.cache.Values()
}

// Len returns the current number of items in the cache.
func (c *LRU[V]) Len() int {
	return c.cache.Len()
}
