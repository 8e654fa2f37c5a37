package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"
)

var _ ports.ProductsMap = (*ProductsMap)(nil)

type mappingKey struct {
	storeID    string
	externalID int64
}

// ProductsMap is an in-memory product mapping adapter.
type ProductsMap struct {
	mu       sync.RWMutex
	mappings map[mappingKey]*domain.ProductMapping
}

// NewProductsMap creates an empty product mapping store
func NewProductsMap() *ProductsMap {
	return &ProductsMap{mappings: map[mappingKey]*domain.ProductMapping{}}
}

// GetByExternalID returns a copy of the mapping, nil when the product is not mapped
func (r *ProductsMap) GetByExternalID(_ context.Context, storeID string, externalProductID int64) (*domain.ProductMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mapping, ok := r.mappings[mappingKey{storeID, externalProductID}]
	if !ok {
		return nil, nil
	}
	clone := *mapping
	return &clone, nil
}

// Add saves a mapping, replacing any previous one for the same source product
func (r *ProductsMap) Add(_ context.Context, mapping *domain.ProductMapping) error {
	if mapping == nil {
		return fmt.Errorf("mapping is nil")
	}
	clone := *mapping
	clone.UpdatedAt = time.Now()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = clone.UpdatedAt
	}
	key := mappingKey{clone.StoreID, clone.ExternalProductID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.mappings[key]; ok {
		clone.CreatedAt = existing.CreatedAt
	}
	r.mappings[key] = &clone
	return nil
}

// UpdateHash stores a new content hash for a remote product of the store
func (r *ProductsMap) UpdateHash(_ context.Context, storeID string, remoteProductID string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, mapping := range r.mappings {
		if key.storeID == storeID && mapping.RemoteProductID == remoteProductID {
			mapping.Hash = hash
			mapping.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("product mapping not found for remote product %s", remoteProductID)
}

// RemoveByStoreAndExternalID deletes the mapping of a source product
func (r *ProductsMap) RemoveByStoreAndExternalID(_ context.Context, storeID string, externalProductID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappings, mappingKey{storeID, externalProductID})
	return nil
}
