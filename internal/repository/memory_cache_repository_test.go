package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryCacheRepositoryExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryCacheRepository(clock.Now)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "insights:trends", map[string]int{"total": 3}, 5*time.Minute))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "insights:trends", &got))
	assert.Equal(t, 3, got["total"])

	clock.Advance(4*time.Minute + 59*time.Second)
	require.NoError(t, repo.Get(ctx, "insights:trends", &got))

	clock.Advance(time.Second)
	err := repo.Get(ctx, "insights:trends", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryCacheRepositoryMissingKey(t *testing.T) {
	repo := NewMemoryCacheRepository(nil)

	var dest string
	err := repo.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositorySetReplacesWholesale(t *testing.T) {
	repo := NewMemoryCacheRepository(nil)
	ctx := context.Background()

	type payload struct {
		A int `json:"a"`
		B int `json:"b,omitempty"`
	}
	require.NoError(t, repo.Set(ctx, "k", payload{A: 1, B: 2}, time.Minute))
	require.NoError(t, repo.Set(ctx, "k", payload{A: 5}, time.Minute))

	var got payload
	require.NoError(t, repo.Get(ctx, "k", &got))
	assert.Equal(t, payload{A: 5}, got)
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "insights:trends", 1, time.Minute))
	require.NoError(t, repo.Set(ctx, "insights:team", 2, time.Minute))
	require.NoError(t, repo.Set(ctx, "analytics:overview", 3, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "insights:*"))

	assert.Equal(t, 1, repo.Len())
	var v int
	require.NoError(t, repo.Get(ctx, "analytics:overview", &v))
	assert.Equal(t, 3, v)
}

func TestMemoryCacheRepositoryRejectsBadPattern(t *testing.T) {
	repo := NewMemoryCacheRepository(nil)

	err := repo.DeleteByPattern(context.Background(), "insights:[")
	assert.Error(t, err)
}
