// Package catalog holds the per-cycle snapshot of tracked entities and their
// matchable aliases. A snapshot is immutable once built, so concurrent matching
// never observes a partially updated alias set; new entities take effect at the
// next cycle boundary.
package catalog

import (
	"fmt"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/util"
)

// Entry is one (entity, alias) pair with its normalized form precomputed.
// The catalog is a flat list rather than a per-entity structure: matching is
// a pure function of (text, entries) and entry order is the deterministic
// tie-break for matches at equal offsets.
type Entry struct {
	EntityID   int64
	Alias      string
	Normalized string
}

// Catalog is an immutable snapshot of all tracked entities for one cycle.
type Catalog struct {
	entries  []Entry
	entities []model.TrackedEntity

	// MaxAliasWords bounds the token spans the matcher considers.
	maxAliasWords int
}

// Build constructs a snapshot from the tracked entities. Entities with no
// usable alias contribute nothing. An entirely empty catalog is an error:
// with nothing to match against, a cycle cannot do meaningful work.
func Build(entities []model.TrackedEntity) (*Catalog, error) {
	c := &Catalog{entities: entities}

	for _, e := range entities {
		seen := make(map[string]struct{}, len(e.Aliases)+1)
		for _, alias := range append([]string{e.DisplayName}, e.Aliases...) {
			normalized := util.CollapseWhitespace(util.Fold(alias))
			if normalized == "" {
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			c.entries = append(c.entries, Entry{
				EntityID:   e.ID,
				Alias:      alias,
				Normalized: normalized,
			})
			if words := countWords(normalized); words > c.maxAliasWords {
				c.maxAliasWords = words
			}
		}
	}

	if len(c.entries) == 0 {
		return nil, fmt.Errorf("catalog is empty: no tracked entities with aliases")
	}

	return c, nil
}

// Entries returns the flat alias list in deterministic order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Entities returns the tracked entities this snapshot was built from.
func (c *Catalog) Entities() []model.TrackedEntity {
	return c.entities
}

// MaxAliasWords returns the longest alias length in words, capped at 3.
// The matcher never needs candidate spans longer than the longest alias.
func (c *Catalog) MaxAliasWords() int {
	if c.maxAliasWords > 3 {
		return 3
	}
	if c.maxAliasWords < 1 {
		return 1
	}
	return c.maxAliasWords
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if r == ' ' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}
