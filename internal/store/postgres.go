package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avoronov/cryptomood/internal/model"
)

// schema creates the four relations. Deletion is handled explicitly in
// PurgeOlderThan (children before parents, one transaction) rather than by
// ON DELETE CASCADE, so the same semantics hold on engines without it.
const schema = `
CREATE TABLE IF NOT EXISTS tracked_entities (
	id            BIGSERIAL PRIMARY KEY,
	display_name  TEXT NOT NULL UNIQUE,
	aliases       TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS documents (
	id            BIGSERIAL PRIMARY KEY,
	content_hash  TEXT NOT NULL UNIQUE,
	account       TEXT NOT NULL,
	content       TEXT NOT NULL,
	observed_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_observed_at ON documents (observed_at);

CREATE TABLE IF NOT EXISTS entity_mentions (
	document_id      BIGINT NOT NULL REFERENCES documents(id),
	entity_id        BIGINT NOT NULL REFERENCES tracked_entities(id),
	sentiment_score  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (document_id, entity_id)
);

CREATE TABLE IF NOT EXISTS window_aggregates (
	entity_id     BIGINT NOT NULL REFERENCES tracked_entities(id),
	window_kind   TEXT NOT NULL,
	mean_score    DOUBLE PRECISION NOT NULL,
	sample_count  INTEGER NOT NULL,
	computed_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (entity_id, window_kind)
);
`

// PostgresStore implements Store on a pgx connection pool. Every call runs
// under its own deadline so one slow statement cannot stall a cycle.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresStore connects to Postgres and ensures the schema exists.
func NewPostgresStore(ctx context.Context, cfg model.DatabaseConfig) (*PostgresStore, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &PostgresStore{pool: pool, queryTimeout: cfg.QueryTimeout}, nil
}

// opCtx caps one store operation with the configured query timeout.
func (s *PostgresStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// ListEntities returns all tracked entities ordered by ID.
func (s *PostgresStore) ListEntities(ctx context.Context) ([]model.TrackedEntity, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, display_name, aliases FROM tracked_entities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []model.TrackedEntity
	for rows.Next() {
		var e model.TrackedEntity
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.Aliases); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// Ingest inserts the document unless its content hash already exists.
func (s *PostgresStore) Ingest(ctx context.Context, doc model.RawDocument) (IngestResult, error) {
	hash := ContentHash(doc.Text, doc.Account)

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO documents (content_hash, account, content, observed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (content_hash) DO NOTHING
		 RETURNING id`,
		hash, doc.Account, doc.Text, doc.ObservedAt).Scan(&id)
	if err == nil {
		return IngestResult{IsNew: true, SurrogateID: id}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return IngestResult{}, fmt.Errorf("failed to insert document: %w", err)
	}

	// Conflict: the document already exists, look up its surrogate ID.
	err = s.pool.QueryRow(ctx,
		`SELECT id FROM documents WHERE content_hash = $1`, hash).Scan(&id)
	if err != nil {
		return IngestResult{}, fmt.Errorf("failed to look up existing document: %w", err)
	}
	return IngestResult{IsNew: false, SurrogateID: id}, nil
}

// RecordMentions writes all mention rows for one document in one transaction.
func (s *PostgresStore) RecordMentions(ctx context.Context, documentID int64, mentions []model.Mention) error {
	if len(mentions) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, m := range mentions {
		_, err := tx.Exec(ctx,
			`INSERT INTO entity_mentions (document_id, entity_id, sentiment_score)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (document_id, entity_id) DO NOTHING`,
			documentID, m.EntityID, ClampScore(m.Score))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: document %d entity %d", ErrDocumentNotFound, documentID, m.EntityID)
			}
			return fmt.Errorf("failed to record mention: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mentions: %w", err)
	}
	return nil
}

// MentionsInWindow joins mentions with their documents' observation times.
func (s *PostgresStore) MentionsInWindow(ctx context.Context, entityID int64, since, until time.Time) ([]model.MentionSample, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT m.entity_id, m.sentiment_score, d.observed_at
		 FROM entity_mentions m
		 JOIN documents d ON d.id = m.document_id
		 WHERE m.entity_id = $1 AND d.observed_at >= $2 AND d.observed_at <= $3
		 ORDER BY d.observed_at`,
		entityID, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer rows.Close()

	var samples []model.MentionSample
	for rows.Next() {
		var sample model.MentionSample
		if err := rows.Scan(&sample.EntityID, &sample.Score, &sample.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mention: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// UpsertAggregate overwrites the (entity, window kind) aggregate row.
func (s *PostgresStore) UpsertAggregate(ctx context.Context, agg model.WindowAggregate) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO window_aggregates (entity_id, window_kind, mean_score, sample_count, computed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (entity_id, window_kind) DO UPDATE SET
			mean_score = EXCLUDED.mean_score,
			sample_count = EXCLUDED.sample_count,
			computed_at = EXCLUDED.computed_at`,
		agg.EntityID, agg.WindowKind, agg.MeanScore, agg.SampleCount, agg.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert aggregate: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes stale documents and their mentions, children first.
func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`DELETE FROM entity_mentions
		 WHERE document_id IN (SELECT id FROM documents WHERE observed_at < $1)`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete mentions: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM documents WHERE observed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
