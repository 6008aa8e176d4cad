// Package cache provides a small TTL cache for expensive snapshot reads.
// Container stats and host metrics both cost a blocking sample, so
// repeated dashboard polls are served from here instead.
package cache

import (
	"sync"
	"time"
)

// Keys for the agent's cached snapshots
const (
	KeyStats  = "snapshot:container"
	KeySystem = "snapshot:host"
)

type item struct {
	value      interface{}
	expiration int64
}

// Cache is a thread-safe in-memory cache with a fixed default TTL
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
}

// New creates a cache and starts its background sweeper
func New(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]item),
		ttl:   ttl,
	}
	go c.cleanup()
	return c
}

// Set stores a value under the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
}

// Get retrieves a live value, or reports a miss when absent or expired
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || time.Now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

// Delete removes a value
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// cleanup sweeps expired items once a minute
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now().UnixNano()
		for key, it := range c.items {
			if now > it.expiration {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
