package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpCtx_AppliesQueryTimeout(t *testing.T) {
	s := &PostgresStore{queryTimeout: 30 * time.Second}

	ctx, cancel := s.opCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "every store operation must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)
}

func TestOpCtx_KeepsTighterCallerDeadline(t *testing.T) {
	s := &PostgresStore{queryTimeout: time.Minute}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()

	ctx, cancel := s.opCtx(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond,
		"a tighter caller deadline is never loosened")
}

func TestOpCtx_ZeroTimeoutDisables(t *testing.T) {
	s := &PostgresStore{}

	ctx, cancel := s.opCtx(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}
