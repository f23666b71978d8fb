package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/store"
)

func seedMention(t *testing.T, s *store.MemoryStore, entityID int64, score float64, observedAt time.Time) {
	t.Helper()
	res, err := s.Ingest(context.Background(), model.RawDocument{
		Text:       fmt.Sprintf("doc %d at %s", entityID, observedAt),
		Account:    "seed",
		ObservedAt: observedAt,
	})
	require.NoError(t, err)
	require.NoError(t, s.RecordMentions(context.Background(), res.SurrogateID,
		[]model.Mention{{EntityID: entityID, Score: score}}))
}

func TestRecompute_WindowMeans(t *testing.T) {
	s := store.NewMemoryStore()
	entityID := s.AddEntity("Bitcoin", "BTC")
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// One mention inside the 12h window, one only inside the 24h window,
	// one outside both.
	seedMention(t, s, entityID, 0.8, now.Add(-1*time.Hour))
	seedMention(t, s, entityID, -0.4, now.Add(-13*time.Hour))
	seedMention(t, s, entityID, 0.2, now.Add(-30*time.Hour))

	require.NoError(t, New(s, nil).Recompute(context.Background(), now))

	agg12, ok := s.GetAggregate(entityID, "12h")
	require.True(t, ok)
	assert.InDelta(t, 0.8, agg12.MeanScore, 0.0001)
	assert.Equal(t, 1, agg12.SampleCount)

	agg24, ok := s.GetAggregate(entityID, "24h")
	require.True(t, ok)
	assert.InDelta(t, 0.2, agg24.MeanScore, 0.0001)
	assert.Equal(t, 2, agg24.SampleCount)
	assert.Equal(t, now, agg24.ComputedAt)
}

func TestRecompute_SkipsEntityWithoutData(t *testing.T) {
	s := store.NewMemoryStore()
	quiet := s.AddEntity("Dogecoin")

	require.NoError(t, New(s, nil).Recompute(context.Background(), time.Now().UTC()))

	_, ok := s.GetAggregate(quiet, "12h")
	assert.False(t, ok, "entities with no mentions in any window get no rows")
	_, ok = s.GetAggregate(quiet, "24h")
	assert.False(t, ok)
}

func TestRecompute_EmptyWindowGetsZeroCountRow(t *testing.T) {
	s := store.NewMemoryStore()
	entityID := s.AddEntity("Solana", "SOL")
	now := time.Now().UTC()

	// Data only in the 13-24h band: the 24h window has a sample, the 12h
	// window is written as count 0 so consumers see "no data", not neutral.
	seedMention(t, s, entityID, -0.6, now.Add(-15*time.Hour))

	require.NoError(t, New(s, nil).Recompute(context.Background(), now))

	agg12, ok := s.GetAggregate(entityID, "12h")
	require.True(t, ok)
	assert.Zero(t, agg12.SampleCount)
	assert.Zero(t, agg12.MeanScore)

	agg24, ok := s.GetAggregate(entityID, "24h")
	require.True(t, ok)
	assert.Equal(t, 1, agg24.SampleCount)
	assert.InDelta(t, -0.6, agg24.MeanScore, 0.0001)
}

func TestRecompute_OverwritesPreviousCycle(t *testing.T) {
	s := store.NewMemoryStore()
	entityID := s.AddEntity("Bitcoin")
	now := time.Now().UTC()

	seedMention(t, s, entityID, 1.0, now.Add(-1*time.Hour))
	agg := New(s, nil)
	require.NoError(t, agg.Recompute(context.Background(), now))

	seedMention(t, s, entityID, 0.0, now.Add(-2*time.Hour))
	require.NoError(t, agg.Recompute(context.Background(), now))

	agg12, ok := s.GetAggregate(entityID, "12h")
	require.True(t, ok)
	assert.Equal(t, 2, agg12.SampleCount)
	assert.InDelta(t, 0.5, agg12.MeanScore, 0.0001)
}
