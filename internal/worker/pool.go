// Package worker provides bounded-concurrency fetching of account timelines
// and the per-host rate limiter the fetchers share.
package worker

import (
	"context"
	"sync"

	"github.com/avoronov/cryptomood/internal/model"
)

// Fetcher fetches the recent posts of one account.
type Fetcher interface {
	Fetch(ctx context.Context, account string) ([]model.RawDocument, error)
}

// FetchResult is the outcome of fetching one account. Err is scoped to that
// account; other accounts' results are unaffected.
type FetchResult struct {
	Account   string
	Documents []model.RawDocument
	Err       error
}

// FetchPool fetches many accounts with bounded concurrency. Accounts are
// independent, so ordering across them carries no meaning; results are
// returned in completion order.
type FetchPool struct {
	fetcher Fetcher
	workers int
}

// NewFetchPool creates a pool running at most workers concurrent fetches.
func NewFetchPool(fetcher Fetcher, workers int) *FetchPool {
	if workers <= 0 {
		workers = 1
	}
	return &FetchPool{fetcher: fetcher, workers: workers}
}

// FetchAll fetches every account and collects all per-account results.
// Cancelling ctx stops workers after their in-flight fetch.
func (p *FetchPool) FetchAll(ctx context.Context, accounts []string) []FetchResult {
	if len(accounts) == 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan FetchResult, len(accounts))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for account := range jobs {
				docs, err := p.fetcher.Fetch(ctx, account)
				results <- FetchResult{Account: account, Documents: docs, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, account := range accounts {
			select {
			case <-ctx.Done():
				return
			case jobs <- account:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []FetchResult
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}
