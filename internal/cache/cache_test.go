package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydeals/flightmonitor/internal/models"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCacheWithClient(client, 15*time.Minute), mr
}

func testRequest() models.SearchRequest {
	return models.SearchRequest{
		Origin:        "LAX",
		Destination:   "PHX",
		DepartureDate: "2026-09-15",
		Passengers:    1,
		CabinClass:    "economy",
	}
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	offers := []models.Offer{
		{ID: "a", Provider: "mock", Segments: []models.Segment{{}}, TotalPrice: 180, Currency: "USD"},
	}
	require.NoError(t, c.Set(ctx, testRequest(), offers))

	got, ok := c.Get(ctx, testRequest())
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 180.0, got[0].TotalPrice)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), testRequest())
	assert.False(t, ok)
}

func TestCacheKeyIgnoresBusyDates(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	req := testRequest()
	require.NoError(t, c.Set(ctx, req, []models.Offer{
		{ID: "a", Segments: []models.Segment{{}}, TotalPrice: 180},
	}))

	withBusy := testRequest()
	withBusy.BusyDates = []string{"2026-09-16"}

	_, ok := c.Get(ctx, withBusy)
	assert.True(t, ok)
}

func TestCacheKeyVariesByRoute(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testRequest(), []models.Offer{
		{ID: "a", Segments: []models.Segment{{}}, TotalPrice: 180},
	}))

	other := testRequest()
	other.Destination = "SEA"

	_, ok := c.Get(ctx, other)
	assert.False(t, ok)
}

func TestCacheEntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testRequest(), []models.Offer{
		{ID: "a", Segments: []models.Segment{{}}, TotalPrice: 180},
	}))

	mr.FastForward(16 * time.Minute)

	_, ok := c.Get(ctx, testRequest())
	assert.False(t, ok)
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testRequest(), []models.Offer{{ID: "a"}}))
	_, ok := c.Get(ctx, testRequest())
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
