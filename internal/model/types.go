package model

import (
	"fmt"
	"time"
)

// TrackedEntity is an asset the engine watches for, identified by a canonical
// name and a set of matchable aliases (ticker, full name, common misspellings).
type TrackedEntity struct {
	ID          int64
	DisplayName string
	Aliases     []string
}

// RawDocument is a post as delivered by a TweetSource, before deduplication.
type RawDocument struct {
	Text       string
	Account    string
	ObservedAt time.Time
}

// Document is a persisted post. ContentHash is its stable identity: re-ingesting
// the same post across cycles hits the same hash and is a no-op.
type Document struct {
	SurrogateID int64
	ContentHash string
	Account     string
	Text        string
	ObservedAt  time.Time
}

// Mention records one entity's sentiment score within one document.
// At most one Mention exists per (document, entity) pair.
type Mention struct {
	EntityID int64
	Score    float64
}

// MentionSample is a Mention joined with its document's observation time,
// as read back for window aggregation.
type MentionSample struct {
	EntityID   int64
	Score      float64
	ObservedAt time.Time
}

// Window is a trailing aggregation interval.
type Window struct {
	Kind   string
	Length time.Duration
}

// DefaultWindows returns the standard 12h and 24h lookback windows.
func DefaultWindows() []Window {
	return []Window{
		{Kind: "12h", Length: 12 * time.Hour},
		{Kind: "24h", Length: 24 * time.Hour},
	}
}

// WindowsFromLengths builds aggregation windows from configured durations.
// The kind doubles as the aggregate row key, so whole hours render as "12h"
// rather than Duration's "12h0m0s". Non-positive and duplicate lengths are
// dropped; an empty result falls back to the defaults.
func WindowsFromLengths(lengths []time.Duration) []Window {
	var windows []Window
	seen := make(map[time.Duration]struct{}, len(lengths))
	for _, length := range lengths {
		if length <= 0 {
			continue
		}
		if _, dup := seen[length]; dup {
			continue
		}
		seen[length] = struct{}{}
		windows = append(windows, Window{Kind: windowKind(length), Length: length})
	}
	if len(windows) == 0 {
		return DefaultWindows()
	}
	return windows
}

func windowKind(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	return d.String()
}

// WindowAggregate is the recomputed-per-cycle summary for one entity and one
// window kind. SampleCount==0 means "no data", never a sentiment of zero.
type WindowAggregate struct {
	EntityID    int64
	WindowKind  string
	MeanScore   float64
	SampleCount int
	ComputedAt  time.Time
}

// AliasMatch is one accepted fuzzy hit of a catalog alias inside a document.
type AliasMatch struct {
	EntityID   int64
	Start      int
	End        int
	Similarity int
}

// Segment is the substring of a document attributed to exactly one entity
// for sentiment scoring.
type Segment struct {
	EntityID int64
	Text     string
}

// LabelScores is a classifier's probability distribution over sentiment labels.
// The three probabilities sum to 1 within floating tolerance.
type LabelScores struct {
	Negative float64
	Neutral  float64
	Positive float64
}
