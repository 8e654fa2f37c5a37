package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/rs/zerolog"
)

const (
	// ProductsCacheKey prefixes cached remote products
	ProductsCacheKey = "remote-product"
	// DefaultCacheTTL is the lifetime of a cached remote product
	DefaultCacheTTL = 300 * time.Second
)

// ProductService keeps source products and remote products in sync.
// It performs no locking: concurrent calls for the same product may create it twice remotely.
type ProductService struct {
	api         ports.RemoteAPI
	productsMap ports.ProductsMap
	variantsMap ports.VariantsMap
	cache       ports.ProductCache
	factory     *ProductFactory
	metrics     ports.SyncMetrics
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithCacheTTL sets the remote product cache lifetime
func WithCacheTTL(ttl time.Duration) ProductServiceOption {
	return func(s *ProductService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSyncMetrics sets the metrics recorder
func WithSyncMetrics(metrics ports.SyncMetrics) ProductServiceOption {
	return func(s *ProductService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewProductService creates a new product sync service
func NewProductService(
	api ports.RemoteAPI,
	productsMap ports.ProductsMap,
	variantsMap ports.VariantsMap,
	cache ports.ProductCache,
	logger zerolog.Logger,
	opts ...ProductServiceOption,
) *ProductService {
	s := &ProductService{
		api:         api,
		productsMap: productsMap,
		variantsMap: variantsMap,
		cache:       cache,
		factory:     NewProductFactory(),
		metrics:     ports.NopSyncMetrics{},
		cacheTTL:    DefaultCacheTTL,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRemoteProductID returns the remote id mapped to a source product, or "" when unmapped
func (s *ProductService) GetRemoteProductID(ctx context.Context, storeID string, externalProductID int64) (string, error) {
	mapping, err := s.productsMap.GetByExternalID(ctx, storeID, externalProductID)
	if err != nil {
		return "", fmt.Errorf("failed to get product mapping: %w", err)
	}
	if mapping == nil {
		return "", nil
	}
	return mapping.RemoteProductID, nil
}

// SyncProduct creates the product remotely on first sight and updates it afterwards
func (s *ProductService) SyncProduct(ctx context.Context, storeID string, product *domain.SourceProduct) error {
	if product == nil {
		return domain.ErrIncorrectProductType
	}

	remoteID, err := s.GetRemoteProductID(ctx, storeID, product.ID)
	if err != nil {
		return err
	}

	if remoteID == "" {
		_, err = s.AddProduct(ctx, storeID, product)
		return err
	}
	return s.UpdateProduct(ctx, storeID, product)
}

// AddProduct creates a source product remotely and returns the freshly fetched remote product
func (s *ProductService) AddProduct(ctx context.Context, storeID string, product *domain.SourceProduct) (*domain.RemoteProduct, error) {
	normalized, err := s.normalize(product)
	if err != nil {
		return nil, err
	}

	remoteID, err := s.CreateProduct(ctx, storeID, normalized.Params, product.ID, normalized.Hash)
	if err != nil {
		return nil, err
	}

	// Just created, so the cache cannot hold it yet.
	remote, err := s.api.GetProduct(ctx, storeID, remoteID)
	s.metrics.ObserveRemoteCall("get_product", err)
	if err != nil {
		s.logger.Error().Err(err).Str("storeId", storeID).Str("remoteProductId", remoteID).Msg("Failed to fetch created product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return remote, nil
}

// CreateProduct creates the product remotely and records the product and variant mappings.
// Mapping failures after a successful remote create are returned without rollback.
func (s *ProductService) CreateProduct(ctx context.Context, storeID string, params domain.ProductParams, externalProductID int64, hash string) (string, error) {
	result, err := s.api.CreateProduct(ctx, storeID, params)
	s.metrics.ObserveRemoteCall("create_product", err)
	if err != nil {
		s.logger.Error().Err(err).Str("storeId", storeID).Int64("productId", externalProductID).Msg("Failed to create remote product")
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	for _, variant := range result.Variants {
		externalVariantID, err := strconv.ParseInt(variant.ExternalID, 10, 64)
		if err != nil {
			s.logger.Warn().Str("storeId", storeID).Str("externalId", variant.ExternalID).Msg("Skipping remote variant with non-numeric external id")
			continue
		}
		if err := s.variantsMap.Add(ctx, &domain.VariantMapping{
			StoreID:           storeID,
			ExternalVariantID: externalVariantID,
			ExternalProductID: externalProductID,
			RemoteVariantID:   variant.VariantID,
		}); err != nil {
			return "", fmt.Errorf("failed to add variant mapping: %w", err)
		}
	}

	if err := s.productsMap.Add(ctx, &domain.ProductMapping{
		StoreID:           storeID,
		ExternalProductID: externalProductID,
		RemoteProductID:   result.ProductID,
		Hash:              hash,
	}); err != nil {
		return "", fmt.Errorf("failed to add product mapping: %w", err)
	}

	s.logger.Info().
		Str("storeId", storeID).
		Int64("productId", externalProductID).
		Str("remoteProductId", result.ProductID).
		Int("variants", len(result.Variants)).
		Msg("Created remote product")

	return result.ProductID, nil
}

// UpdateProduct pushes a changed source product to the remote API.
// Nothing is sent when the content hash matches the stored one.
func (s *ProductService) UpdateProduct(ctx context.Context, storeID string, product *domain.SourceProduct) error {
	normalized, err := s.normalize(product)
	if err != nil {
		return err
	}

	return s.updateExistingProduct(ctx, storeID, normalized.Params, product.ID, normalized.Hash)
}

func (s *ProductService) updateExistingProduct(ctx context.Context, storeID string, params domain.ProductParams, externalProductID int64, hash string) error {
	mapping, err := s.productsMap.GetByExternalID(ctx, storeID, externalProductID)
	if err != nil {
		return fmt.Errorf("failed to get product mapping: %w", err)
	}
	if mapping == nil {
		return fmt.Errorf("%w: store %s product %d", domain.ErrProductNotMapped, storeID, externalProductID)
	}

	if mapping.Hash == hash {
		s.metrics.IncUpdateSkipped()
		s.logger.Debug().Str("storeId", storeID).Int64("productId", externalProductID).Msg("Product unchanged, skipping update")
		return nil
	}

	result, err := s.api.UpdateProduct(ctx, storeID, mapping.RemoteProductID, params)
	s.metrics.ObserveRemoteCall("update_product", err)
	if err != nil {
		s.logger.Error().Err(err).Str("storeId", storeID).Str("remoteProductId", mapping.RemoteProductID).Msg("Failed to update remote product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := s.productsMap.UpdateHash(ctx, storeID, mapping.RemoteProductID, hash); err != nil {
		return fmt.Errorf("failed to update product hash: %w", err)
	}

	for _, variant := range result.Variants {
		externalVariantID, err := strconv.ParseInt(variant.ExternalID, 10, 64)
		if err != nil {
			continue
		}
		existing, err := s.variantsMap.GetByExternalID(ctx, storeID, externalVariantID)
		if err != nil {
			return fmt.Errorf("failed to get variant mapping: %w", err)
		}
		if existing != nil {
			continue
		}
		if err := s.variantsMap.Add(ctx, &domain.VariantMapping{
			StoreID:           storeID,
			ExternalVariantID: externalVariantID,
			ExternalProductID: externalProductID,
			RemoteVariantID:   variant.VariantID,
		}); err != nil {
			return fmt.Errorf("failed to add variant mapping: %w", err)
		}
	}

	s.logger.Info().
		Str("storeId", storeID).
		Int64("productId", externalProductID).
		Str("remoteProductId", mapping.RemoteProductID).
		Msg("Updated remote product")

	return nil
}

// GetProduct returns a remote product through the cache.
// An empty remote result is returned as nil without error and is not cached.
func (s *ProductService) GetProduct(ctx context.Context, storeID string, remoteProductID string) (*domain.RemoteProduct, error) {
	key := productCacheKey(storeID, remoteProductID)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		// A broken cache should not block reads.
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read product cache")
	}
	if !cached.IsEmpty() {
		s.metrics.IncCacheLookup(true)
		return cached, nil
	}
	s.metrics.IncCacheLookup(false)

	product, err := s.api.GetProduct(ctx, storeID, remoteProductID)
	s.metrics.ObserveRemoteCall("get_product", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.IsEmpty() {
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, product, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to write product cache")
	}

	return product, nil
}

// Unmap forgets a source product: its cached remote product, its product mapping and its variant mappings
func (s *ProductService) Unmap(ctx context.Context, storeID string, externalProductID int64) error {
	mapping, err := s.productsMap.GetByExternalID(ctx, storeID, externalProductID)
	if err != nil {
		return fmt.Errorf("failed to get product mapping: %w", err)
	}

	if mapping != nil {
		if err := s.cache.Delete(ctx, productCacheKey(storeID, mapping.RemoteProductID)); err != nil {
			return fmt.Errorf("failed to delete cached product: %w", err)
		}
	}

	if err := s.productsMap.RemoveByStoreAndExternalID(ctx, storeID, externalProductID); err != nil {
		return fmt.Errorf("failed to remove product mapping: %w", err)
	}
	if err := s.variantsMap.RemoveByStoreAndExternalProductID(ctx, storeID, externalProductID); err != nil {
		return fmt.Errorf("failed to remove variant mappings: %w", err)
	}

	s.logger.Info().Str("storeId", storeID).Int64("productId", externalProductID).Msg("Unmapped product")
	return nil
}

// ResolveCartVariant picks the remote variant for a cart line and attaches the quantity.
// Variable products are matched through the variant mapping; other kinds use the first candidate.
func (s *ProductService) ResolveCartVariant(
	ctx context.Context,
	storeID string,
	selectedVariantID int64,
	quantity int,
	kind domain.ProductKind,
	remoteVariants []domain.RemoteVariant,
) (*domain.CartVariant, error) {
	var selected *domain.RemoteVariant

	if kind == domain.ProductKindVariable {
		mapping, err := s.variantsMap.GetByExternalID(ctx, storeID, selectedVariantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get variant mapping: %w", err)
		}
		if mapping != nil {
			for i := range remoteVariants {
				if remoteVariants[i].VariantID == mapping.RemoteVariantID {
					selected = &remoteVariants[i]
					break
				}
			}
		}
	} else if len(remoteVariants) > 0 {
		selected = &remoteVariants[0]
	}

	if selected == nil {
		return nil, fmt.Errorf("%w: store %s variant %d", domain.ErrProductVariantsNotFound, storeID, selectedVariantID)
	}

	return &domain.CartVariant{
		VariantID: selected.VariantID,
		Price:     selected.Price,
		PriceTax:  selected.PriceTax,
		Quantity:  quantity,
	}, nil
}

func (s *ProductService) normalize(product *domain.SourceProduct) (*domain.NormalizedProduct, error) {
	normalized, err := s.factory.Build(product)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectProductType) && product != nil {
			s.logger.Warn().Int64("productId", product.ID).Str("kind", string(product.Kind)).Msg("Unsupported product type")
		}
		return nil, err
	}
	return normalized, nil
}

func productCacheKey(storeID string, remoteProductID string) string {
	return ProductsCacheKey + "-" + storeID + "-" + remoteProductID
}
