package ports

import (
	"context"
	"time"

	"commerce-sync-bridge/internal/domain"
)

// ProductCache is a key-value cache of remote products with passive expiry.
// Get returns nil, nil on a miss.
type ProductCache interface {
	Get(ctx context.Context, key string) (*domain.RemoteProduct, error)
	Set(ctx context.Context, key string, product *domain.RemoteProduct, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
