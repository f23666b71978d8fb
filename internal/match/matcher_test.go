package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cryptomood/internal/catalog"
	"github.com/avoronov/cryptomood/internal/model"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build([]model.TrackedEntity{
		{ID: 1, DisplayName: "Solana", Aliases: []string{"SOL"}},
		{ID: 2, DisplayName: "Bitcoin", Aliases: []string{"BTC"}},
		{ID: 3, DisplayName: "Ethereum Classic", Aliases: []string{"ETC"}},
	})
	require.NoError(t, err)
	return cat
}

func TestMatcher_ExactAliases(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	text := "Solana network down again. However, Bitcoin breaks $100K!"
	matches := m.Find(text, cat)
	require.NotEmpty(t, matches)

	assert.Equal(t, int64(1), matches[0].EntityID)
	assert.Equal(t, 0, matches[0].Start)

	var bitcoin *model.AliasMatch
	for i := range matches {
		if matches[i].EntityID == 2 {
			bitcoin = &matches[i]
			break
		}
	}
	require.NotNil(t, bitcoin, "expected a Bitcoin match")
	assert.Equal(t, 36, bitcoin.Start)
}

func TestMatcher_OrderedByOffset(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	matches := m.Find("BTC pumps while SOL dumps and btc again", cat)
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Start, matches[i].Start)
	}
	assert.Equal(t, int64(2), matches[0].EntityID)
}

func TestMatcher_Misspellings(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	tests := []struct {
		name   string
		text   string
		entity int64
		want   bool
	}{
		{"one extra letter", "Bitcoinn to the moon", 2, true},
		{"one missing letter", "Bitcoi holding strong", 2, true},
		{"diacritics", "Sólana validators restarted", 1, true},
		{"unrelated word", "network congestion everywhere", 0, false},
		{"too far off", "Bitter coffee this morning", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := m.Find(tt.text, cat)
			found := false
			for _, match := range matches {
				if match.EntityID == tt.entity {
					found = true
				}
			}
			if tt.want {
				assert.True(t, found, "expected entity %d in %q", tt.entity, tt.text)
			} else {
				assert.Empty(t, matches, "expected no matches in %q", tt.text)
			}
		})
	}
}

func TestMatcher_MultiWordAlias(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	matches := m.Find("Ethereum Classic is quiet today", cat)
	require.NotEmpty(t, matches)
	assert.Equal(t, int64(3), matches[0].EntityID)
	assert.Equal(t, 0, matches[0].Start)
}

func TestMatcher_EmptyAndNoMatchText(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	assert.Empty(t, m.Find("", cat))
	assert.Empty(t, m.Find("   \n\t ", cat))
	assert.Empty(t, m.Find("gm frens, nothing tracked here", cat))
}

func TestMatcher_MayEmitSameEntityTwice(t *testing.T) {
	m := NewMatcher(80)
	cat := testCatalog(t)

	matches := m.Find("Bitcoin dipped, then Bitcoin recovered", cat)
	count := 0
	for _, match := range matches {
		if match.EntityID == 2 {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 2, "later duplicate hits are the segmenter's job to collapse")
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100, Similarity("bitcoin", "bitcoin"))
	assert.Equal(t, 100, Similarity("", ""))
	assert.Equal(t, 0, Similarity("abc", "xyz"))

	// One edit in seven runes stays above the default threshold.
	assert.GreaterOrEqual(t, Similarity("bitcoim", "bitcoin"), 80)
	// Half the runes changed falls well below it.
	assert.Less(t, Similarity("bitcrap", "bitcoin"), 80)
}
