// Package pipeline sequences one ingestion cycle: fetch timelines, dedupe and
// score new documents, recompute window aggregates, purge stale data.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avoronov/cryptomood/internal/aggregate"
	"github.com/avoronov/cryptomood/internal/catalog"
	"github.com/avoronov/cryptomood/internal/classify"
	"github.com/avoronov/cryptomood/internal/match"
	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/retention"
	"github.com/avoronov/cryptomood/internal/store"
	"github.com/avoronov/cryptomood/internal/worker"
)

// Pipeline orchestrates the complete sentiment cycle. Stages share no state
// beyond the store; per-account and per-segment failures never abort the
// cycle, only a missing catalog does.
type Pipeline struct {
	store      store.Store
	source     worker.Fetcher
	matcher    *match.Matcher
	segmenter  *match.Segmenter
	deriver    *classify.ScoreDeriver
	aggregator *aggregate.Aggregator
	retention  *retention.Manager
	config     *model.Config
}

// New wires a pipeline from its collaborators.
func New(cfg *model.Config, st store.Store, src worker.Fetcher, deriver *classify.ScoreDeriver) *Pipeline {
	return &Pipeline{
		store:      st,
		source:     src,
		matcher:    match.NewMatcher(cfg.Match.FuzzyThreshold),
		segmenter:  match.NewSegmenter(),
		deriver:    deriver,
		aggregator: aggregate.New(st, model.WindowsFromLengths(cfg.WindowLengths)),
		retention:  retention.New(st),
		config:     cfg,
	}
}

// CycleStats summarizes one cycle for logging and tests.
type CycleStats struct {
	AccountsFetched int
	AccountsFailed  int
	Documents       int
	NewDocuments    int
	Duplicates      int
	Mentions        int
	SegmentsSkipped int
	DocumentsPurged int
}

// RunCycle executes one full cycle as of now. The catalog snapshot is built
// once at the cycle boundary; purge runs strictly after aggregation so the
// aggregation reads never race deletions.
func (p *Pipeline) RunCycle(ctx context.Context, now time.Time) (CycleStats, error) {
	var stats CycleStats

	entities, err := p.store.ListEntities(ctx)
	if err != nil {
		return stats, fmt.Errorf("load tracked entities: %w", err)
	}
	cat, err := catalog.Build(entities)
	if err != nil {
		// Nothing to match against makes the whole cycle pointless.
		return stats, fmt.Errorf("build catalog: %w", err)
	}

	pool := worker.NewFetchPool(p.source, p.config.Scraper.Concurrency)
	results := pool.FetchAll(ctx, p.config.Scraper.Accounts)

	for _, result := range results {
		if result.Err != nil {
			stats.AccountsFailed++
			slog.Warn("account fetch failed, skipping for this cycle",
				"account", result.Account, "error", result.Err)
			continue
		}
		stats.AccountsFetched++

		for _, doc := range result.Documents {
			if err := p.processDocument(ctx, cat, doc, &stats); err != nil {
				slog.Error("document processing failed",
					"account", doc.Account, "error", err)
			}
		}
	}

	if err := p.aggregator.Recompute(ctx, now); err != nil {
		slog.Error("aggregate recompute finished with errors", "error", err)
	}

	purged, err := p.retention.Enforce(ctx, p.config.Retention.Days, now)
	if err != nil {
		slog.Error("retention enforcement failed", "error", err)
	}
	stats.DocumentsPurged = purged

	slog.Info("cycle complete",
		"accounts_ok", stats.AccountsFetched,
		"accounts_failed", stats.AccountsFailed,
		"documents", stats.Documents,
		"new_documents", stats.NewDocuments,
		"mentions", stats.Mentions,
		"purged", stats.DocumentsPurged)
	return stats, nil
}

// processDocument ingests one raw document and records its entity mentions.
// A duplicate document is a no-op. A document matching no entity is still
// persisted so future cycles dedupe it cheaply.
func (p *Pipeline) processDocument(ctx context.Context, cat *catalog.Catalog, doc model.RawDocument, stats *CycleStats) error {
	stats.Documents++

	ingested, err := p.store.Ingest(ctx, doc)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if !ingested.IsNew {
		stats.Duplicates++
		slog.Debug("document already processed, skipping", "account", doc.Account)
		return nil
	}
	stats.NewDocuments++

	matches := p.matcher.Find(doc.Text, cat)
	if len(matches) == 0 {
		return nil
	}
	segments := p.segmenter.Segment(doc.Text, matches)

	mentions := make([]model.Mention, 0, len(segments))
	for _, segment := range segments {
		score, err := p.deriver.Derive(ctx, segment.Text)
		if err != nil {
			stats.SegmentsSkipped++
			slog.Warn("segment classification failed, skipping",
				"entity_id", segment.EntityID, "error", err)
			continue
		}
		mentions = append(mentions, model.Mention{EntityID: segment.EntityID, Score: score})
	}

	if len(mentions) == 0 {
		return nil
	}
	if err := p.store.RecordMentions(ctx, ingested.SurrogateID, mentions); err != nil {
		// All-or-nothing per document: the committed document row is safe to
		// keep, mentions are simply absent from aggregation.
		return fmt.Errorf("record mentions: %w", err)
	}
	stats.Mentions += len(mentions)
	return nil
}
