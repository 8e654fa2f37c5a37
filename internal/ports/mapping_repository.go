package ports

import (
	"context"

	"commerce-sync-bridge/internal/domain"
)

// ProductsMap defines persistence for source product to remote product mappings.
// Lookups return nil, nil when no mapping exists.
type ProductsMap interface {
	GetByExternalID(ctx context.Context, storeID string, externalProductID int64) (*domain.ProductMapping, error)
	Add(ctx context.Context, mapping *domain.ProductMapping) error
	UpdateHash(ctx context.Context, storeID string, remoteProductID string, hash string) error
	RemoveByStoreAndExternalID(ctx context.Context, storeID string, externalProductID int64) error
}

// VariantsMap defines persistence for source variant to remote variant mappings
type VariantsMap interface {
	GetByExternalID(ctx context.Context, storeID string, externalVariantID int64) (*domain.VariantMapping, error)
	Add(ctx context.Context, mapping *domain.VariantMapping) error
	RemoveByStoreAndExternalID(ctx context.Context, storeID string, externalVariantID int64) error
	RemoveByStoreAndExternalProductID(ctx context.Context, storeID string, externalProductID int64) error
}
