package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/store"
)

func TestEnforce(t *testing.T) {
	s := store.NewMemoryStore()
	entityID := s.AddEntity("Bitcoin")
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	for name, age := range map[string]time.Duration{
		"stale":    8 * 24 * time.Hour,
		"boundary": 7*24*time.Hour - time.Minute,
		"fresh":    time.Hour,
	} {
		res, err := s.Ingest(ctx, model.RawDocument{Text: name, Account: "a", ObservedAt: now.Add(-age)})
		require.NoError(t, err)
		require.NoError(t, s.RecordMentions(ctx, res.SurrogateID,
			[]model.Mention{{EntityID: entityID, Score: 0.1}}))
	}

	purged, err := New(s).Enforce(ctx, 7, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged, "only documents strictly older than the horizon go")
	assert.Equal(t, 2, s.DocumentCount())
	assert.Equal(t, 2, s.MentionCount())
}

func TestEnforce_DefaultsDays(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Ingest(ctx, model.RawDocument{Text: "six days old", Account: "a", ObservedAt: now.Add(-6 * 24 * time.Hour)})
	require.NoError(t, err)

	purged, err := New(s).Enforce(ctx, 0, now)
	require.NoError(t, err)
	assert.Zero(t, purged, "zero config falls back to the 7 day default")
	assert.Equal(t, 1, s.DocumentCount())
}
