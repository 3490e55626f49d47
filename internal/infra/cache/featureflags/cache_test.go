package featureflags

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func TestCache_SetGetInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, "salon")
	assert.ErrorIs(t, err, ErrCacheMiss)

	flags := domain.FeatureFlags{StaffSelection: true, Analytics: true}
	require.NoError(t, cache.Set(ctx, "salon", flags))

	got, err := cache.Get(ctx, "salon")
	require.NoError(t, err)
	assert.Equal(t, flags, got)

	// Другой тенант не затронут
	_, err = cache.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Invalidate(ctx, "salon"))
	_, err = cache.Get(ctx, "salon")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "salon", domain.FeatureFlags{Coupon: true}))
	mr.FastForward(31 * time.Second)

	_, err := cache.Get(ctx, "salon")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_CorruptedValueIsMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"salon", "{not json"))

	_, err := cache.Get(context.Background(), "salon")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	mr.Close()

	_, err = cache.Get(context.Background(), "salon")
	assert.ErrorIs(t, err, ErrCache)
}
