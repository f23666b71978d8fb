package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/avoronov/cryptomood/internal/cache"
	"github.com/avoronov/cryptomood/internal/classify"
	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/pipeline"
	"github.com/avoronov/cryptomood/internal/source"
	"github.com/avoronov/cryptomood/internal/store"
	"github.com/avoronov/cryptomood/internal/worker"
)

// runCmd executes a single pipeline cycle and exits
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion and aggregation cycle",
	Long: `Fetch all configured account timelines once, score new posts, recompute
the 12h/24h window aggregates, purge documents past the retention horizon,
and exit.`,
	RunE: runOnce,
}

// serveCmd runs cycles on the configured interval until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run cycles continuously on the configured interval",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := p.RunCycle(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cycle failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Fetched %d accounts (%d failed)\n", stats.AccountsFetched, stats.AccountsFailed)
		fmt.Fprintf(os.Stderr, "✓ Processed %d documents (%d new, %d duplicates)\n", stats.Documents, stats.NewDocuments, stats.Duplicates)
		fmt.Fprintf(os.Stderr, "✓ Recorded %d mentions (%d segments skipped)\n", stats.Mentions, stats.SegmentsSkipped)
		fmt.Fprintf(os.Stderr, "✓ Purged %d stale documents\n", stats.DocumentsPurged)
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := pipeline.NewRunner(p, cfg.Cycle.Interval, clockwork.NewRealClock())
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildPipeline wires the store, classifier, and scraper from configuration.
func buildPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, func(), error) {
	st, err := store.NewPostgresStore(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect store: %w", err)
	}

	classifier, err := classify.NewClassifier(classify.ConfigFromModel(cfg.Classifier))
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("create classifier: %w", err)
	}
	if cfg.Classifier.CacheTTL > 0 {
		memo := cache.NewMemoryCache(cfg.Classifier.CacheTTL, 10*time.Minute)
		classifier = classify.NewCachedClassifier(classifier, memo, cfg.Classifier.CacheTTL)
	}
	deriver := classify.NewScoreDeriver(classifier)

	limiter := worker.NewLimiter(cfg.Scraper.RequestsPerSecond, cfg.Scraper.Burst)
	src := source.NewNitterSource(cfg.Scraper, limiter)

	return pipeline.New(cfg, st, src, deriver), st.Close, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
