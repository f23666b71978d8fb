// Package aggregate recomputes rolling window sentiment statistics per
// tracked entity.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/store"
)

// Aggregator computes mean sentiment and sample count per entity over the
// configured trailing windows. Recompute is an upsert keyed by
// (entity, window kind), not an append: each cycle overwrites the last.
type Aggregator struct {
	store   store.Store
	windows []model.Window
}

// New creates an aggregator over the given windows (defaults to 12h/24h).
func New(st store.Store, windows []model.Window) *Aggregator {
	if len(windows) == 0 {
		windows = model.DefaultWindows()
	}
	return &Aggregator{store: st, windows: windows}
}

// Recompute rebuilds the window aggregates for every tracked entity as of
// now. An entity with no mentions in any window is skipped entirely; an
// entity with data in one window but not another gets sample_count=0 for the
// empty window, which consumers must read as "no data", never as neutral
// sentiment. A failure for one entity does not stop the others; the first
// errors are joined into the return value.
func (a *Aggregator) Recompute(ctx context.Context, now time.Time) error {
	entities, err := a.store.ListEntities(ctx)
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}

	var errs []error
	for _, entity := range entities {
		if err := a.recomputeEntity(ctx, entity, now); err != nil {
			slog.Error("aggregate recompute failed", "entity", entity.DisplayName, "error", err)
			errs = append(errs, fmt.Errorf("entity %d: %w", entity.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (a *Aggregator) recomputeEntity(ctx context.Context, entity model.TrackedEntity, now time.Time) error {
	type windowStats struct {
		window model.Window
		mean   float64
		count  int
	}

	stats := make([]windowStats, 0, len(a.windows))
	total := 0
	for _, w := range a.windows {
		samples, err := a.store.MentionsInWindow(ctx, entity.ID, now.Add(-w.Length), now)
		if err != nil {
			return fmt.Errorf("mentions in %s window: %w", w.Kind, err)
		}

		mean := 0.0
		if len(samples) > 0 {
			sum := 0.0
			for _, sample := range samples {
				sum += sample.Score
			}
			mean = sum / float64(len(samples))
		}
		stats = append(stats, windowStats{window: w, mean: mean, count: len(samples)})
		total += len(samples)
	}

	if total == 0 {
		slog.Debug("no sentiment data for entity, skipping", "entity", entity.DisplayName)
		return nil
	}

	for _, st := range stats {
		err := a.store.UpsertAggregate(ctx, model.WindowAggregate{
			EntityID:    entity.ID,
			WindowKind:  st.window.Kind,
			MeanScore:   st.mean,
			SampleCount: st.count,
			ComputedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("upsert %s aggregate: %w", st.window.Kind, err)
		}
		slog.Info("window aggregate recomputed",
			"entity", entity.DisplayName,
			"window", st.window.Kind,
			"mean_score", st.mean,
			"sample_count", st.count)
	}
	return nil
}
