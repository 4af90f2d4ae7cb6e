package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmhealth/pm-health-backend/internal/tracking/health"
)

func setupHealthCache(t *testing.T) (*HealthCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewHealthCache(client, time.Minute), mr
}

func sampleSummary() health.Summary {
	variance := decimal.NewFromInt(7500)
	return health.Summary{
		Status:               health.StatusGreen,
		ProgressPct:          50.0,
		BudgetUtilizationPct: decimal.NewFromInt(25),
		BudgetVariance:       &variance,
	}
}

func TestHealthCache_RoundTrip(t *testing.T) {
	c, _ := setupHealthCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "proj-1", sampleSummary()))

	got, ok, err := c.Get(ctx, "proj-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, health.StatusGreen, got.Status)
	assert.Equal(t, 50.0, got.ProgressPct)
	require.NotNil(t, got.BudgetVariance)
	assert.True(t, decimal.NewFromInt(7500).Equal(*got.BudgetVariance))
}

func TestHealthCache_Invalidate(t *testing.T) {
	c, _ := setupHealthCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "proj-1", sampleSummary()))
	require.NoError(t, c.Invalidate(ctx, "proj-1"))

	_, ok, err := c.Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHealthCache_EntriesExpire(t *testing.T) {
	c, mr := setupHealthCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "proj-1", sampleSummary()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHealthCache_KeysAreScopedToProject(t *testing.T) {
	c, _ := setupHealthCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "proj-1", sampleSummary()))

	_, ok, err := c.Get(ctx, "proj-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
