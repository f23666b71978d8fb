// Package cache provides the in-process memo cache for classifier results.
// Identical segments recur across accounts (retweets, quote posts); caching
// their label distributions saves classifier calls within a process lifetime.
// Durable state lives in the store, not here.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the memo contract: entries are written once with a TTL and read
// back until they expire. There is no invalidation; a segment's label
// distribution never changes within a process lifetime.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key generates a cache key from segment text
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "cryptomood:v1:" + hex.EncodeToString(hash[:])
}
