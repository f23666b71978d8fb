// Package store persists documents, per-entity sentiment mentions, and window
// aggregates. Two implementations exist: Postgres for production and an
// in-memory store for tests and local runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/avoronov/cryptomood/internal/model"
)

var (
	// ErrDocumentNotFound is returned when recording mentions for an unknown document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEntityNotFound is returned when a mention references an unknown entity.
	ErrEntityNotFound = errors.New("tracked entity not found")
)

// IngestResult reports the outcome of a document ingestion.
type IngestResult struct {
	IsNew       bool
	SurrogateID int64
}

// Store is the engine's single shared mutable resource. All implementations
// guarantee: idempotent ingestion keyed on content hash, atomic per-document
// mention recording, and purge that never leaves a mention without its
// document.
type Store interface {
	// ListEntities returns all tracked entities. The catalog snapshot for a
	// cycle is built from this once, at the cycle boundary.
	ListEntities(ctx context.Context) ([]model.TrackedEntity, error)

	// Ingest deduplicates and persists a raw document. Re-ingesting a document
	// with the same content hash is a no-op returning the existing surrogate ID.
	Ingest(ctx context.Context, doc model.RawDocument) (IngestResult, error)

	// RecordMentions persists the mention rows for one document atomically:
	// either all mentions are recorded or none. Scores outside [-1, 1] are
	// clamped before persistence. Re-recording an existing (document, entity)
	// pair is a no-op.
	RecordMentions(ctx context.Context, documentID int64, mentions []model.Mention) error

	// MentionsInWindow returns every mention of the entity whose document was
	// observed in [since, until], with the document's observation time.
	MentionsInWindow(ctx context.Context, entityID int64, since, until time.Time) ([]model.MentionSample, error)

	// UpsertAggregate overwrites the aggregate row keyed by (entity, window kind).
	UpsertAggregate(ctx context.Context, agg model.WindowAggregate) error

	// PurgeOlderThan deletes documents observed before cutoff together with
	// their mention rows, children first, in one transaction. Returns the
	// number of documents removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ClampScore forces a sentiment score into [-1, 1]. A value outside the range
// is a deriver contract violation; it is repaired here as the last gate
// before persistence.
func ClampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
