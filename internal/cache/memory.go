package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache memoizes classifier results in process memory. Expired entries
// are evicted in the background on cleanupInterval; between sweeps an expired
// entry simply misses on Get.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a memo cache with the given default TTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	return val.([]byte), true
}

// Set stores value under key for ttl (the default TTL when ttl is zero).
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.entries.Set(key, value, ttl)
	return nil
}
