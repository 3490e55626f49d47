package featureflags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const keyPrefix = "reservation-service:feature-flags:"

var (
	// ErrCacheMiss флаги тенанта отсутствуют в кэше
	ErrCacheMiss = errors.New("featureflags cache: miss")

	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("featureflags cache: redis error")
)

// Cache кэш флагов тенанта в Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш флагов
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(tenantID string) string {
	return keyPrefix + tenantID
}

// Get возвращает флаги из кэша или ErrCacheMiss
func (c *Cache) Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error) {
	raw, err := c.client.Get(ctx, key(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.FeatureFlags{}, ErrCacheMiss
		}
		return domain.FeatureFlags{}, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var flags domain.FeatureFlags
	if err := json.Unmarshal(raw, &flags); err != nil {
		// Битое значение считаем промахом, оно будет перезаписано
		return domain.FeatureFlags{}, ErrCacheMiss
	}
	return flags, nil
}

// Set сохраняет флаги с TTL
func (c *Cache) Set(ctx context.Context, tenantID string, flags domain.FeatureFlags) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCache, err)
	}
	if err := c.client.Set(ctx, key(tenantID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return nil
}

// Invalidate удаляет флаги тенанта из кэша
func (c *Cache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, key(tenantID)).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCache, err)
	}
	return nil
}
