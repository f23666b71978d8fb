// Package source fetches raw posts from external tweet mirrors. The pipeline
// only depends on the TweetSource contract; failures are always scoped to a
// single account.
package source

import (
	"context"

	"github.com/avoronov/cryptomood/internal/model"
)

// TweetSource fetches the recent posts of one account. An error covers that
// account only and must not stop other accounts from being fetched.
type TweetSource interface {
	Fetch(ctx context.Context, account string) ([]model.RawDocument, error)
}
