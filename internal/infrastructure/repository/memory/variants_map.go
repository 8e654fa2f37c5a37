package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"
)

var _ ports.VariantsMap = (*VariantsMap)(nil)

// VariantsMap is an in-memory variant mapping adapter.
type VariantsMap struct {
	mu       sync.RWMutex
	mappings map[mappingKey]*domain.VariantMapping
}

// NewVariantsMap creates an empty variant mapping store
func NewVariantsMap() *VariantsMap {
	return &VariantsMap{mappings: map[mappingKey]*domain.VariantMapping{}}
}

// GetByExternalID returns a copy of the mapping, nil when the variant is not mapped
func (r *VariantsMap) GetByExternalID(_ context.Context, storeID string, externalVariantID int64) (*domain.VariantMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mapping, ok := r.mappings[mappingKey{storeID, externalVariantID}]
	if !ok {
		return nil, nil
	}
	clone := *mapping
	return &clone, nil
}

// Add saves a variant mapping
func (r *VariantsMap) Add(_ context.Context, mapping *domain.VariantMapping) error {
	if mapping == nil {
		return fmt.Errorf("mapping is nil")
	}
	clone := *mapping
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	key := mappingKey{clone.StoreID, clone.ExternalVariantID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.mappings[key]; ok {
		clone.CreatedAt = existing.CreatedAt
	}
	r.mappings[key] = &clone
	return nil
}

// RemoveByStoreAndExternalID deletes the mapping of a single variant
func (r *VariantsMap) RemoveByStoreAndExternalID(_ context.Context, storeID string, externalVariantID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappings, mappingKey{storeID, externalVariantID})
	return nil
}

// RemoveByStoreAndExternalProductID deletes every variant mapping of a source product
func (r *VariantsMap) RemoveByStoreAndExternalProductID(_ context.Context, storeID string, externalProductID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, mapping := range r.mappings {
		if key.storeID == storeID && mapping.ExternalProductID == externalProductID {
			delete(r.mappings, key)
		}
	}
	return nil
}
