package match

import (
	"log/slog"
	"strings"

	"github.com/avoronov/cryptomood/internal/model"
)

// Segmenter partitions a document into non-overlapping context windows, one
// per distinct matched entity.
type Segmenter struct{}

// NewSegmenter creates a segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment derives one context window per distinct entity from the ordered
// match list. A window runs from the entity's first match offset to the start
// of the next match belonging to a different entity, or to end of text. Later
// mentions of the same entity never open a new window, so a document
// contributes at most one segment per entity and text about entity B never
// leaks into entity A's window.
//
// When two entities' spans overlap, the earlier span keeps the overlapped
// text and the later window is clamped to start after it. A window clamped to
// zero length is skipped with a coverage warning rather than scored.
func (s *Segmenter) Segment(text string, matches []model.AliasMatch) []model.Segment {
	if len(matches) == 0 {
		return nil
	}

	// First match per entity opens its window; matches arrive ordered by
	// offset with catalog order breaking ties.
	firstByEntity := make(map[int64]int, len(matches))
	var opens []int
	for i, m := range matches {
		if _, seen := firstByEntity[m.EntityID]; seen {
			continue
		}
		firstByEntity[m.EntityID] = i
		opens = append(opens, i)
	}

	segments := make([]model.Segment, 0, len(opens))
	prevEnd := 0
	for _, idx := range opens {
		open := matches[idx]

		end := len(text)
		for j := idx + 1; j < len(matches); j++ {
			if matches[j].EntityID != open.EntityID {
				end = matches[j].Start
				break
			}
		}
		// Overlapping spans: the earlier entity owns the shared substring.
		if end < open.End {
			end = open.End
		}

		start := open.Start
		if start < prevEnd {
			start = prevEnd
		}
		if start >= end || strings.TrimSpace(text[start:end]) == "" {
			slog.Warn("zero-length context window, skipping entity",
				"entity_id", open.EntityID, "offset", open.Start)
			continue
		}
		prevEnd = end

		segments = append(segments, model.Segment{EntityID: open.EntityID, Text: text[start:end]})
	}

	return segments
}
