package cache

import (
	"context"
	"sync"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"
)

var _ ports.ProductCache = (*InMemoryProductCache)(nil)

type cacheEntry struct {
	product   domain.RemoteProduct
	expiresAt time.Time
}

// InMemoryProductCache implements ProductCache in process memory.
// Expired entries are dropped when read.
type InMemoryProductCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewInMemoryProductCache creates an empty in-memory cache
func NewInMemoryProductCache() *InMemoryProductCache {
	return NewInMemoryProductCacheWithClock(time.Now)
}

// NewInMemoryProductCacheWithClock creates an empty cache reading time from now
func NewInMemoryProductCacheWithClock(now func() time.Time) *InMemoryProductCache {
	return &InMemoryProductCache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

// Get retrieves a cached product, nil on a miss or after expiry
func (c *InMemoryProductCache) Get(_ context.Context, key string) (*domain.RemoteProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}

	product := entry.product
	product.Variants = append([]domain.RemoteVariant(nil), entry.product.Variants...)
	return &product, nil
}

// Set stores a product for ttl
func (c *InMemoryProductCache) Set(_ context.Context, key string, product *domain.RemoteProduct, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	stored := *product
	stored.Variants = append([]domain.RemoteVariant(nil), product.Variants...)
	c.entries[key] = cacheEntry{product: stored, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes a cached product
func (c *InMemoryProductCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len reports the number of stored entries, expired ones included
func (c *InMemoryProductCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
