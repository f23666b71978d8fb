package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avoronov/cryptomood/internal/model"
)

// MemoryStore is an in-memory Store used by tests and local dry runs. It
// mirrors the Postgres implementation's semantics: hash-keyed dedup,
// all-or-nothing mention batches, and child-before-parent purge.
type MemoryStore struct {
	mu sync.Mutex

	nextEntityID int64
	nextDocID    int64

	entities   []model.TrackedEntity
	docs       map[int64]model.Document
	docsByHash map[string]int64
	mentions   map[int64]map[int64]float64 // document id -> entity id -> score
	aggregates map[aggregateKey]model.WindowAggregate
}

type aggregateKey struct {
	entityID   int64
	windowKind string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextEntityID: 1,
		nextDocID:    1,
		docs:         make(map[int64]model.Document),
		docsByHash:   make(map[string]int64),
		mentions:     make(map[int64]map[int64]float64),
		aggregates:   make(map[aggregateKey]model.WindowAggregate),
	}
}

// AddEntity registers a tracked entity and returns its ID.
func (s *MemoryStore) AddEntity(displayName string, aliases ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextEntityID
	s.nextEntityID++
	s.entities = append(s.entities, model.TrackedEntity{
		ID:          id,
		DisplayName: displayName,
		Aliases:     aliases,
	})
	return id
}

// ListEntities returns all tracked entities ordered by ID.
func (s *MemoryStore) ListEntities(ctx context.Context) ([]model.TrackedEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.TrackedEntity, len(s.entities))
	copy(out, s.entities)
	return out, nil
}

// Ingest deduplicates by content hash and stores new documents.
func (s *MemoryStore) Ingest(ctx context.Context, doc model.RawDocument) (IngestResult, error) {
	hash := ContentHash(doc.Text, doc.Account)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.docsByHash[hash]; exists {
		return IngestResult{IsNew: false, SurrogateID: id}, nil
	}

	id := s.nextDocID
	s.nextDocID++
	s.docs[id] = model.Document{
		SurrogateID: id,
		ContentHash: hash,
		Account:     doc.Account,
		Text:        doc.Text,
		ObservedAt:  doc.ObservedAt,
	}
	s.docsByHash[hash] = id
	return IngestResult{IsNew: true, SurrogateID: id}, nil
}

// RecordMentions stores the batch for one document all-or-nothing.
func (s *MemoryStore) RecordMentions(ctx context.Context, documentID int64, mentions []model.Mention) error {
	if len(mentions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[documentID]; !exists {
		return fmt.Errorf("%w: document %d", ErrDocumentNotFound, documentID)
	}
	known := make(map[int64]struct{}, len(s.entities))
	for _, e := range s.entities {
		known[e.ID] = struct{}{}
	}
	for _, m := range mentions {
		if _, ok := known[m.EntityID]; !ok {
			return fmt.Errorf("%w: entity %d", ErrEntityNotFound, m.EntityID)
		}
	}

	rows := s.mentions[documentID]
	if rows == nil {
		rows = make(map[int64]float64, len(mentions))
		s.mentions[documentID] = rows
	}
	for _, m := range mentions {
		if _, exists := rows[m.EntityID]; exists {
			continue // at most one mention per (document, entity)
		}
		rows[m.EntityID] = ClampScore(m.Score)
	}
	return nil
}

// MentionsInWindow returns mention samples observed in [since, until].
func (s *MemoryStore) MentionsInWindow(ctx context.Context, entityID int64, since, until time.Time) ([]model.MentionSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var samples []model.MentionSample
	for docID, rows := range s.mentions {
		score, ok := rows[entityID]
		if !ok {
			continue
		}
		doc := s.docs[docID]
		if doc.ObservedAt.Before(since) || doc.ObservedAt.After(until) {
			continue
		}
		samples = append(samples, model.MentionSample{
			EntityID:   entityID,
			Score:      score,
			ObservedAt: doc.ObservedAt,
		})
	}

	sort.Slice(samples, func(a, b int) bool {
		return samples[a].ObservedAt.Before(samples[b].ObservedAt)
	})
	return samples, nil
}

// UpsertAggregate overwrites the (entity, window kind) aggregate.
func (s *MemoryStore) UpsertAggregate(ctx context.Context, agg model.WindowAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aggregates[aggregateKey{agg.EntityID, agg.WindowKind}] = agg
	return nil
}

// GetAggregate reads back an aggregate row, for callers inspecting results.
func (s *MemoryStore) GetAggregate(entityID int64, windowKind string) (model.WindowAggregate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, ok := s.aggregates[aggregateKey{entityID, windowKind}]
	return agg, ok
}

// PurgeOlderThan removes stale documents and their mentions together.
func (s *MemoryStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, doc := range s.docs {
		if !doc.ObservedAt.Before(cutoff) {
			continue
		}
		delete(s.mentions, id)
		delete(s.docsByHash, doc.ContentHash)
		delete(s.docs, id)
		purged++
	}
	return purged, nil
}

// DocumentCount reports the number of stored documents.
func (s *MemoryStore) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// MentionCount reports the total number of mention rows.
func (s *MemoryStore) MentionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rows := range s.mentions {
		n += len(rows)
	}
	return n
}
