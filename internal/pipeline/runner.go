package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Runner executes cycles on a fixed interval. The clock is injected so tests
// drive time explicitly.
type Runner struct {
	pipeline *Pipeline
	interval time.Duration
	clock    clockwork.Clock
}

// NewRunner creates a runner executing one cycle every interval.
func NewRunner(p *Pipeline, interval time.Duration, clock clockwork.Clock) *Runner {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{pipeline: p, interval: interval, clock: clock}
}

// Run executes a cycle immediately, then one per interval until ctx is
// cancelled. A failed cycle is logged and the schedule continues; mid-cycle
// cancellation is safe because ingestion is idempotent and mention recording
// is atomic per document.
func (r *Runner) Run(ctx context.Context) error {
	r.runOnce(ctx)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("runner stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.Chan():
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	started := r.clock.Now()
	if _, err := r.pipeline.RunCycle(ctx, started.UTC()); err != nil {
		slog.Error("cycle failed", "error", err)
		return
	}
	slog.Debug("cycle finished", "elapsed", r.clock.Since(started))
}
