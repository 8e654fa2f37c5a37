package ports

import (
	"context"

	"commerce-sync-bridge/internal/domain"
)

// SourceCatalog loads products from the origin commerce system
type SourceCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*domain.SourceProduct, error)
}
