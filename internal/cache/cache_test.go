package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Flights(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	filter := domain.SearchFilter{From: "Delhi"}
	flights := []domain.Flight{{ID: 1, Airline: "IndiGo", DepartureCity: "Delhi", ArrivalCity: "Goa", BasePrice: 4500}}

	got, err := c.GetFlights(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SetFlights(ctx, filter, flights))

	got, err = c.GetFlights(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, flights, got)

	other, err := c.GetFlights(ctx, domain.SearchFilter{From: "Goa"})
	require.NoError(t, err)
	assert.Nil(t, other)

	mr.FastForward(2 * time.Minute)
	got, err = c.GetFlights(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisAttemptLog_SlidingWindow(t *testing.T) {
	_, client := setupMiniredis(t)
	log := NewRedisAttemptLog(client)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 300 * time.Second

	for i := 0; i < 4; i++ {
		require.NoError(t, log.Record(ctx, 1, base.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, log.Record(ctx, 2, base))

	count, err := log.CountSince(ctx, 1, base.Add(3*time.Second).Add(-window))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	now := base.Add(400 * time.Second)
	evicted, err := log.EvictBefore(ctx, now.Add(-window))
	require.NoError(t, err)
	assert.Equal(t, int64(5), evicted)

	count, err = log.CountSince(ctx, 2, now.Add(-window))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	evicted, err = log.EvictBefore(ctx, now.Add(-window))
	require.NoError(t, err)
	assert.Equal(t, int64(0), evicted)
}

func TestRedisAttemptLog_CutoffIsInclusive(t *testing.T) {
	_, client := setupMiniredis(t)
	log := NewRedisAttemptLog(client)
	ctx := context.Background()

	cutoff := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, log.Record(ctx, 7, cutoff))
	require.NoError(t, log.Record(ctx, 7, cutoff.Add(-time.Microsecond)))

	evicted, err := log.EvictBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), evicted)

	count, err := log.CountSince(ctx, 7, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
