package classify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avoronov/cryptomood/internal/cache"
	"github.com/avoronov/cryptomood/internal/model"
)

// CachedClassifier memoizes classification results by segment hash.
// Errors are never cached; a failed segment is retried on its next occurrence.
type CachedClassifier struct {
	inner Classifier
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClassifier wraps a classifier with a memo cache. A zero TTL
// returns the inner classifier unwrapped.
func NewCachedClassifier(inner Classifier, c cache.Cache, ttl time.Duration) Classifier {
	if ttl <= 0 || c == nil {
		return inner
	}
	return &CachedClassifier{inner: inner, cache: c, ttl: ttl}
}

// Name returns the inner provider's name
func (c *CachedClassifier) Name() string {
	return c.inner.Name()
}

// IsAvailable delegates to the inner provider
func (c *CachedClassifier) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

// Classify returns the cached distribution for the segment if present,
// otherwise classifies and caches.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (model.LabelScores, error) {
	key := cache.Key(text)

	if data, found := c.cache.Get(key); found {
		var scores model.LabelScores
		if err := json.Unmarshal(data, &scores); err == nil {
			return scores, nil
		}
		// Unreadable entry: fall through and overwrite it.
	}

	scores, err := c.inner.Classify(ctx, text)
	if err != nil {
		return model.LabelScores{}, err
	}

	if data, err := json.Marshal(scores); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}

	return scores, nil
}
