package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cryptomood/internal/cache"
	"github.com/avoronov/cryptomood/internal/model"
)

func TestCachedClassifier_MemoizesByText(t *testing.T) {
	stub := &stubClassifier{scores: model.LabelScores{Negative: 0.2, Neutral: 0.3, Positive: 0.5}}
	c := NewCachedClassifier(stub, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first, err := c.Classify(context.Background(), "same retweeted text")
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), "same retweeted text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls, "second call must be served from cache")

	_, err = c.Classify(context.Background(), "different text")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedClassifier_NeverCachesErrors(t *testing.T) {
	stub := &stubClassifier{err: errors.New("timeout")}
	c := NewCachedClassifier(stub, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, err := c.Classify(context.Background(), "flaky segment")
	require.Error(t, err)

	stub.err = nil
	stub.scores = model.LabelScores{Neutral: 1}
	_, err = c.Classify(context.Background(), "flaky segment")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls, "failed segment is retried, not served from cache")
}

func TestCachedClassifier_ZeroTTLUnwraps(t *testing.T) {
	stub := &stubClassifier{}
	c := NewCachedClassifier(stub, cache.NewMemoryCache(time.Minute, time.Minute), 0)
	assert.Same(t, Classifier(stub), c)
}
