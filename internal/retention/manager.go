// Package retention bounds storage growth by purging documents past the
// retention horizon, together with their mention rows.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avoronov/cryptomood/internal/store"
)

// Manager enforces the document retention policy. It runs strictly after
// aggregation within a cycle so a purge never races the aggregation reads of
// the same cycle.
type Manager struct {
	store store.Store
}

// New creates a retention manager.
func New(st store.Store) *Manager {
	return &Manager{store: st}
}

// Enforce purges every document observed before now minus retentionDays.
// Returns the number of documents removed.
func (m *Manager) Enforce(ctx context.Context, retentionDays int, now time.Time) (int, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}

	cutoff := now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
	purged, err := m.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if purged > 0 {
		slog.Info("purged stale documents", "count", purged, "cutoff", cutoff)
	} else {
		slog.Debug("no documents past retention horizon", "cutoff", cutoff)
	}
	return purged, nil
}
