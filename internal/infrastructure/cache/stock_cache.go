package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/pos/backend/internal/application/inventory"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Ensure RedisStockCache implements StockCache
var _ appinventory.StockCache = (*RedisStockCache)(nil)

// NewRedisClient creates a Redis client from configuration and verifies
// the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RedisStockCache caches computed stock levels per variant. The cache is
// for display reads only; availability checks always recompute from the
// adjustment log.
type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStockCache creates a new RedisStockCache with the given TTL
func NewRedisStockCache(client *redis.Client, ttl time.Duration) *RedisStockCache {
	return &RedisStockCache{client: client, ttl: ttl}
}

func stockKey(variantID uuid.UUID) string {
	return "stock:variant:" + variantID.String()
}

// Get returns the cached stock level for a variant, with a hit indicator
func (c *RedisStockCache) Get(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, stockKey(variantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to read stock cache: %w", err)
	}

	stock, err := decimal.NewFromString(val)
	if err != nil {
		// Unparseable entry, treat as a miss
		return decimal.Zero, false, nil
	}
	return stock, true, nil
}

// Set stores the stock level for a variant
func (c *RedisStockCache) Set(ctx context.Context, variantID uuid.UUID, stock decimal.Decimal) error {
	if err := c.client.Set(ctx, stockKey(variantID), stock.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stock cache: %w", err)
	}
	return nil
}

// Invalidate removes the cached stock level for a variant
func (c *RedisStockCache) Invalidate(ctx context.Context, variantID uuid.UUID) error {
	if err := c.client.Del(ctx, stockKey(variantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stock cache: %w", err)
	}
	return nil
}
