package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ ports.ProductCache = (*RedisProductCache)(nil)

// RedisProductCache implements ProductCache using Redis
type RedisProductCache struct {
	client redis.Cmdable
	prefix string
	logger zerolog.Logger
}

// NewRedisProductCache creates a cache on an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisProductCache(client redis.Cmdable, prefix string, logger zerolog.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *RedisProductCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get retrieves a cached product, nil on a miss
func (c *RedisProductCache) Get(ctx context.Context, key string) (*domain.RemoteProduct, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product domain.RemoteProduct
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping corrupted cache entry")
		_ = c.client.Del(ctx, c.key(key))
		return nil, nil
	}

	return &product, nil
}

// Set stores a product for ttl
func (c *RedisProductCache) Set(ctx context.Context, key string, product *domain.RemoteProduct, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set product in cache: %w", err)
	}
	return nil
}

// Delete removes a cached product
func (c *RedisProductCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}
