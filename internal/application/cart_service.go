package application

import (
	"context"
	"errors"
	"fmt"

	"commerce-sync-bridge/internal/domain"

	"github.com/rs/zerolog"
)

// CartService turns store order lines into remote cart lines
type CartService struct {
	products *ProductService
	logger   zerolog.Logger
}

// NewCartService creates a new cart service
func NewCartService(products *ProductService, logger zerolog.Logger) *CartService {
	return &CartService{
		products: products,
		logger:   logger,
	}
}

// BuildCart resolves every line of a store order. Lines of unmapped products
// and lines whose variant has no remote match are left out.
func (s *CartService) BuildCart(ctx context.Context, storeID string, lines []domain.OrderLine) ([]domain.CartVariant, error) {
	cart := make([]domain.CartVariant, 0, len(lines))

	for _, line := range lines {
		remoteID, err := s.products.GetRemoteProductID(ctx, storeID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if remoteID == "" {
			s.logger.Debug().Str("storeId", storeID).Int64("productId", line.ProductID).Msg("Skipping cart line of unmapped product")
			continue
		}

		product, err := s.products.GetProduct(ctx, storeID, remoteID)
		if err != nil {
			return nil, fmt.Errorf("failed to load remote product %s: %w", remoteID, err)
		}
		if product == nil {
			s.logger.Warn().Str("storeId", storeID).Str("remoteProductId", remoteID).Msg("Remote product not found for cart line")
			continue
		}

		variant, err := s.products.ResolveCartVariant(ctx, storeID, line.VariantID, line.Quantity, line.ProductKind, product.Variants)
		if errors.Is(err, domain.ErrProductVariantsNotFound) {
			s.logger.Warn().
				Str("storeId", storeID).
				Int64("productId", line.ProductID).
				Int64("variantId", line.VariantID).
				Msg("No remote variant matches cart line")
			continue
		}
		if err != nil {
			return nil, err
		}

		cart = append(cart, *variant)
	}

	return cart, nil
}
