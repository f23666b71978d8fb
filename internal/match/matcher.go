// Package match finds tracked-entity mentions in raw post text and partitions
// the text into per-entity context windows so one entity's sentiment never
// contaminates another's.
package match

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/avoronov/cryptomood/internal/catalog"
	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/util"
)

// Matcher scans document text for approximate occurrences of catalog aliases.
type Matcher struct {
	threshold int
}

// NewMatcher creates a matcher accepting hits at or above threshold (0-100).
func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 || threshold > 100 {
		threshold = 80
	}
	return &Matcher{threshold: threshold}
}

type token struct {
	start  int
	end    int
	folded string
}

// tokenize splits text into word tokens (runs of letters and digits), keeping
// byte offsets into the original text. Each token is folded individually so
// offsets survive diacritic stripping.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, token{start: start, end: i, folded: util.Fold(text[start:i])})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start: start, end: len(text), folded: util.Fold(text[start:])})
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '\'' || r == '-' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		r > 127 && !isSpaceLike(r)
}

func isSpaceLike(r rune) bool {
	switch r {
	case ' ', ' ', ' ', ' ', ' ', ' ', ' ',
		' ', ' ', ' ', ' ', ' ', ' ', ' ', '　':
		return true
	}
	return false
}

// Find returns every accepted alias hit ordered by start offset ascending,
// ties broken by catalog entry order. The same entity may appear more than
// once; deduplication to one context window per entity is the segmenter's job.
// An empty result is valid: the document mentions no tracked entity.
func (m *Matcher) Find(text string, cat *catalog.Catalog) []model.AliasMatch {
	if text == "" {
		return nil
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	entries := cat.Entries()
	maxSpan := cat.MaxAliasWords()

	var matches []model.AliasMatch
	for i := range tokens {
		for span := 1; span <= maxSpan && i+span <= len(tokens); span++ {
			candidate := joinTokens(tokens[i : i+span])
			start := tokens[i].start
			end := tokens[i+span-1].end

			// Best similarity per entity for this span; entry order is the
			// deterministic tie-break.
			best := make(map[int64]int)
			var order []int64
			for _, e := range entries {
				sim := Similarity(candidate, e.Normalized)
				if sim < m.threshold {
					continue
				}
				if prev, ok := best[e.EntityID]; !ok {
					best[e.EntityID] = sim
					order = append(order, e.EntityID)
				} else if sim > prev {
					best[e.EntityID] = sim
				}
			}
			for _, id := range order {
				matches = append(matches, model.AliasMatch{
					EntityID:   id,
					Start:      start,
					End:        end,
					Similarity: best[id],
				})
			}
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Start < matches[b].Start
	})
	return matches
}

func joinTokens(tokens []token) string {
	if len(tokens) == 1 {
		return tokens[0].folded
	}
	n := len(tokens) - 1
	for _, t := range tokens {
		n += len(t.folded)
	}
	b := make([]byte, 0, n)
	for i, t := range tokens {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t.folded...)
	}
	return string(b)
}

// Similarity is a normalized edit-distance similarity in [0,100]. Identical
// strings score 100; strings with nothing in common score 0.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longer {
		return 0
	}
	return 100 * (longer - dist) / longer
}
