package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-dashboard/internal/cache"
	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/testutil"
)

func testQuery(origin string) domain.Query {
	return domain.Query{Origin: origin, Destination: "MEL", Start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "insights:SYD:MEL:2025-06-02", cache.Key(testQuery("syd")))
	assert.Equal(t, "insights:SYD::2025-06-02", cache.Key(domain.Query{Origin: "SYD", Start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}))
}

// newCache connects to the Redis at TEST_REDIS_ADDR.
func newCache(t *testing.T) *cache.InsightsCache {
	t.Helper()
	addr := testutil.RedisAddr(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := cache.New(context.Background(), addr, "", 0, time.Minute, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInsightsCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	q := testQuery("T" + time.Now().Format("150405.000000"))

	_, ok, err := c.Get(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok, "fresh key must miss")

	want := domain.Insights{
		TopRoutes:   []domain.Point{{Label: "SYD-MEL", Value: 2}},
		PriceTrends: []domain.Point{},
		TableData:   []domain.Flight{{Route: "SYD-MEL", Status: domain.StatusDelayed}},
	}
	require.NoError(t, c.Set(ctx, q, want))

	got, ok, err := c.Get(ctx, q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.TopRoutes, got.TopRoutes)
	assert.Equal(t, want.TableData, got.TableData)
}

func TestNew_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cache.New(ctx, "127.0.0.1:1", "", 0, time.Minute, logger)

	assert.Error(t, err)
}
