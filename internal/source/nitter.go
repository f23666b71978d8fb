package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avoronov/cryptomood/internal/model"
	"github.com/avoronov/cryptomood/internal/util"
	"github.com/avoronov/cryptomood/internal/worker"
)

const maxTimelineBytes = 4 << 20

// NitterSource scrapes account timelines from Nitter mirrors. Mirrors are
// unreliable, so each account is tried against every configured instance in
// order, with bounded retries per instance, before the account is given up
// for the cycle.
type NitterSource struct {
	instances  []string
	maxRetries int
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	robots     *util.RobotsChecker // nil when robots checking is disabled
}

// NewNitterSource creates a scraper over the configured mirror instances.
func NewNitterSource(cfg model.ScraperConfig, limiter *worker.Limiter) *NitterSource {
	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), cfg.Timeout)
	}

	return &NitterSource{
		instances:  cfg.Instances,
		maxRetries: retriesOrOne(cfg.MaxRetries),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy),
			},
		},
		userAgent: cfg.UserAgent,
		limiter:   limiter,
		robots:    robots,
	}
}

// Fetch retrieves the recent posts of one account, trying each instance with
// retries and falling back to the next on persistent failure.
func (s *NitterSource) Fetch(ctx context.Context, account string) ([]model.RawDocument, error) {
	if len(s.instances) == 0 {
		return nil, fmt.Errorf("no nitter instances configured")
	}

	var lastErr error
	for _, instance := range s.instances {
		pageURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(instance, "/"), account)

		if s.robots != nil {
			allowed, crawlDelay, err := s.robots.CanFetch(ctx, pageURL)
			if err == nil && !allowed {
				slog.Warn("robots.txt disallows fetch, skipping instance",
					"instance", instance, "account", account)
				continue
			}
			if crawlDelay > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(crawlDelay):
				}
			}
		}

		for attempt := 1; attempt <= s.maxRetries; attempt++ {
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx, pageURL); err != nil {
					return nil, fmt.Errorf("rate limit wait: %w", err)
				}
			}

			docs, err := s.fetchPage(ctx, pageURL, account)
			if err == nil {
				return docs, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("timeline fetch failed",
				"instance", instance, "account", account,
				"attempt", attempt, "error", err)
		}
	}

	return nil, fmt.Errorf("all instances failed for %s: %w", account, lastErr)
}

func retriesOrOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (s *NitterSource) fetchPage(ctx context.Context, pageURL, account string) ([]model.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimelineBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	docs, err := ParseTimeline(string(body), account)
	if err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("timeline contained no posts")
	}
	return docs, nil
}
