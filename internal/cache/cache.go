// Package cache provides a TTL-bounded LRU used to limit request rates to
// the Notion API and to reuse rendered feeds across subscribers.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Policy bounds a cache: entries expire after TTL, and at most Capacity
// entries are kept.
type Policy struct {
	TTL      time.Duration
	Capacity int
}

// Cache is a string-keyed TTL cache. Concurrent GetOrFill calls for the
// same key share a single fill.
type Cache[V any] struct {
	lru   *expirable.LRU[string, V]
	group singleflight.Group
}

func New[V any](policy Policy) *Cache[V] {
	return &Cache[V]{
		lru: expirable.NewLRU[string, V](policy.Capacity, nil, policy.TTL),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// GetOrFill returns the cached value for key, or runs fill once and caches
// its result. hit reports whether the value came from the cache. Errors
// are not cached.
func (c *Cache[V]) GetOrFill(key string, fill func() (V, error)) (value V, hit bool, err error) {
	if value, ok := c.lru.Get(key); ok {
		return value, true, nil
	}

	filled, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent fill may have completed while we waited.
		if value, ok := c.lru.Get(key); ok {
			return value, nil
		}
		value, err := fill()
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return filled.(V), false, nil
}
