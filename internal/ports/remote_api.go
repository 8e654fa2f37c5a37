package ports

import (
	"context"

	"commerce-sync-bridge/internal/domain"
)

// RemoteAPI defines the remote marketing API product operations.
// Failures are reported as *domain.APIError.
type RemoteAPI interface {
	GetProduct(ctx context.Context, storeID string, productID string) (*domain.RemoteProduct, error)
	CreateProduct(ctx context.Context, storeID string, params domain.ProductParams) (*domain.RemoteProduct, error)
	UpdateProduct(ctx context.Context, storeID string, productID string, params domain.ProductParams) (*domain.RemoteProduct, error)
}
