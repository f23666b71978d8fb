package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Cache = (*MemoryCache)(nil)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, found := c.Get(Key("never seen"))
	assert.False(t, found)

	key := Key("Bitcoin breaks $100K!")
	require.NoError(t, c.Set(key, []byte(`{"positive":0.8}`), time.Minute))

	val, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, []byte(`{"positive":0.8}`), val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found, "expired entries miss even before the cleanup sweep")
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("same text"), Key("same text"))
	assert.NotEqual(t, Key("a"), Key("b"))
	assert.Contains(t, Key("x"), "cryptomood:v1:")
}
