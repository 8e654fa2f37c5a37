package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/infrastructure/cache"
	"commerce-sync-bridge/internal/infrastructure/repository/memory"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service     *ProductService
	api         *fakeRemoteAPI
	productsMap *memory.ProductsMap
	variantsMap *memory.VariantsMap
	cache       *cache.InMemoryProductCache
	metrics     *countingMetrics
	now         time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		api:         newFakeRemoteAPI("r100"),
		productsMap: memory.NewProductsMap(),
		variantsMap: memory.NewVariantsMap(),
		metrics:     newCountingMetrics(),
		now:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.cache = cache.NewInMemoryProductCacheWithClock(func() time.Time { return f.now })
	f.service = NewProductService(
		f.api,
		f.productsMap,
		f.variantsMap,
		f.cache,
		zerolog.Nop(),
		WithSyncMetrics(f.metrics),
	)
	return f
}

func variableProduct() *domain.SourceProduct {
	return &domain.SourceProduct{
		ID:   42,
		Kind: domain.ProductKindVariable,
		Name: "T-Shirt",
		URL:  "https://shop.example/products/t-shirt",
		Variants: []domain.SourceVariant{
			{ID: 7, Name: "Small", SKU: "TS-S", Price: decimal.RequireFromString("10.00"), Quantity: 3},
			{ID: 8, Name: "Large", SKU: "TS-L", Price: decimal.RequireFromString("12.00"), Quantity: 1},
		},
	}
}

func TestCreateProduct_RecordsMappings(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	normalized, err := f.service.factory.Build(variableProduct())
	require.NoError(t, err)

	remoteID, err := f.service.CreateProduct(ctx, "s1", normalized.Params, 42, "h1")
	require.NoError(t, err)
	assert.Equal(t, "r100", remoteID)

	mapping, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, "r100", mapping.RemoteProductID)
	assert.Equal(t, "h1", mapping.Hash)

	for _, variantID := range []int64{7, 8} {
		variant, err := f.variantsMap.GetByExternalID(ctx, "s1", variantID)
		require.NoError(t, err)
		require.NotNil(t, variant)
		assert.Equal(t, int64(42), variant.ExternalProductID)
	}
}

func TestCreateProduct_RemoteFailureLeavesNoMapping(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.api.createErr = &domain.APIError{Operation: "create_product", StatusCode: 500, Message: "boom"}

	_, err := f.service.CreateProduct(ctx, "s1", domain.ProductParams{Name: "x"}, 42, "h1")
	require.Error(t, err)

	var apiErr *domain.APIError
	assert.True(t, errors.As(err, &apiErr))

	mapping, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.Nil(t, mapping)
}

func TestAddProduct_ReturnsFreshRemoteProduct(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	remote, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)
	require.NotNil(t, remote)
	assert.Equal(t, "r100", remote.ProductID)
	assert.Len(t, remote.Variants, 2)

	assert.Equal(t, 1, f.api.createCalls)
	assert.Equal(t, 1, f.api.getCalls)
	assert.Equal(t, 0, f.cache.Len())
}

func TestAddProduct_UnknownKind(t *testing.T) {
	f := newServiceFixture(t)

	product := variableProduct()
	product.Kind = "grouped"

	_, err := f.service.AddProduct(context.Background(), "s1", product)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncorrectProductType))
	assert.True(t, errors.Is(err, domain.ErrEcommerce))
	assert.Equal(t, 0, f.api.createCalls)
}

func TestUpdateProduct_UnchangedSkipsRemoteCall(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateProduct(ctx, "s1", variableProduct()))

	assert.Equal(t, 0, f.api.updateCalls)
	assert.Equal(t, 1, f.metrics.skipped)
}

func TestUpdateProduct_ChangedIssuesOneCallAndPersistsHash(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)

	before, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)

	changed := variableProduct()
	changed.Name = "T-Shirt v2"
	require.NoError(t, f.service.UpdateProduct(ctx, "s1", changed))
	assert.Equal(t, 1, f.api.updateCalls)
	assert.Equal(t, "T-Shirt v2", f.api.lastUpdate.Name)

	after, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, after.Hash)

	expected, err := f.service.factory.Build(changed)
	require.NoError(t, err)
	assert.Equal(t, expected.Hash, after.Hash)

	// Same content again: no further call.
	require.NoError(t, f.service.UpdateProduct(ctx, "s1", changed))
	assert.Equal(t, 1, f.api.updateCalls)
}

func TestUpdateProduct_BackfillsOnlyNewVariants(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)

	// Point variant 7 somewhere else to detect an overwrite.
	require.NoError(t, f.variantsMap.Add(ctx, &domain.VariantMapping{
		StoreID:           "s1",
		ExternalVariantID: 7,
		ExternalProductID: 42,
		RemoteVariantID:   "kept",
	}))

	changed := variableProduct()
	changed.Variants = append(changed.Variants, domain.SourceVariant{ID: 9, Name: "XL", Price: decimal.RequireFromString("14.00")})
	require.NoError(t, f.service.UpdateProduct(ctx, "s1", changed))

	kept, err := f.variantsMap.GetByExternalID(ctx, "s1", 7)
	require.NoError(t, err)
	assert.Equal(t, "kept", kept.RemoteVariantID)

	added, err := f.variantsMap.GetByExternalID(ctx, "s1", 9)
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "rv-9", added.RemoteVariantID)
}

func TestUpdateProduct_NotMapped(t *testing.T) {
	f := newServiceFixture(t)

	err := f.service.UpdateProduct(context.Background(), "s1", variableProduct())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProductNotMapped))
	assert.Equal(t, 0, f.api.updateCalls)
}

func TestUpdateProduct_RemoteFailureKeepsHash(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)

	before, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)

	f.api.updateErr = &domain.APIError{Operation: "update_product", StatusCode: 503, Message: "unavailable"}
	changed := variableProduct()
	changed.Name = "T-Shirt v2"

	err = f.service.UpdateProduct(ctx, "s1", changed)
	require.Error(t, err)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Equal(t, 1, f.api.updateCalls)

	unchanged, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.Equal(t, before.Hash, unchanged.Hash)

	// The stored hash still differs, so the next attempt retries.
	f.api.updateErr = nil
	require.NoError(t, f.service.UpdateProduct(ctx, "s1", changed))
	assert.Equal(t, 2, f.api.updateCalls)

	after, err := f.productsMap.GetByExternalID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestUpdateProduct_UnknownKind(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)
	getCalls := f.api.getCalls

	product := variableProduct()
	product.Kind = "grouped"

	err = f.service.UpdateProduct(ctx, "s1", product)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncorrectProductType))
	assert.Equal(t, 0, f.api.updateCalls)
	assert.Equal(t, getCalls, f.api.getCalls)
}

func TestSyncProduct_UnknownKind(t *testing.T) {
	t.Run("unmapped", func(t *testing.T) {
		f := newServiceFixture(t)

		product := variableProduct()
		product.Kind = "bundle"

		err := f.service.SyncProduct(context.Background(), "s1", product)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrIncorrectProductType))
		assert.Equal(t, 0, f.api.createCalls)
		assert.Equal(t, 0, f.api.updateCalls)
		assert.Equal(t, 0, f.api.getCalls)
	})

	t.Run("mapped", func(t *testing.T) {
		f := newServiceFixture(t)
		ctx := context.Background()

		require.NoError(t, f.service.SyncProduct(ctx, "s1", variableProduct()))

		product := variableProduct()
		product.Kind = "bundle"

		err := f.service.SyncProduct(ctx, "s1", product)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrIncorrectProductType))
		assert.Equal(t, 1, f.api.createCalls)
		assert.Equal(t, 0, f.api.updateCalls)
	})
}

func TestSyncProduct_CreatesThenUpdates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.SyncProduct(ctx, "s1", variableProduct()))
	assert.Equal(t, 1, f.api.createCalls)

	changed := variableProduct()
	changed.Description = "now with a description"
	require.NoError(t, f.service.SyncProduct(ctx, "s1", changed))
	assert.Equal(t, 1, f.api.createCalls)
	assert.Equal(t, 1, f.api.updateCalls)

	remoteID, err := f.service.GetRemoteProductID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.Equal(t, "r100", remoteID)
}

func TestGetProduct_CachesWithinTTL(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.api.products["r100"] = &domain.RemoteProduct{ProductID: "r100", Name: "T-Shirt"}

	first, err := f.service.GetProduct(ctx, "s1", "r100")
	require.NoError(t, err)
	require.NotNil(t, first)

	f.now = f.now.Add(DefaultCacheTTL - time.Second)
	second, err := f.service.GetProduct(ctx, "s1", "r100")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.api.getCalls)
	assert.Equal(t, 1, f.metrics.hits)

	f.now = f.now.Add(2 * time.Second)
	_, err = f.service.GetProduct(ctx, "s1", "r100")
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.getCalls)
}

func TestGetProduct_EmptyResultNotCached(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	product, err := f.service.GetProduct(ctx, "s1", "missing")
	require.NoError(t, err)
	assert.Nil(t, product)
	assert.Equal(t, 0, f.cache.Len())

	_, err = f.service.GetProduct(ctx, "s1", "missing")
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.getCalls)
}

func TestGetProduct_EmptyCachedValueRefetches(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.api.products["r100"] = &domain.RemoteProduct{ProductID: "r100"}

	require.NoError(t, f.cache.Set(ctx, productCacheKey("s1", "r100"), &domain.RemoteProduct{}, time.Minute))

	product, err := f.service.GetProduct(ctx, "s1", "r100")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "r100", product.ProductID)
	assert.Equal(t, 1, f.api.getCalls)
}

func TestGetProduct_RemoteError(t *testing.T) {
	f := newServiceFixture(t)
	f.api.getErr = &domain.APIError{Operation: "get_product", StatusCode: 404, Message: "not found"}

	_, err := f.service.GetProduct(context.Background(), "s1", "r100")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestUnmap_RemovesMappingsAndCache(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddProduct(ctx, "s1", variableProduct())
	require.NoError(t, err)
	_, err = f.service.GetProduct(ctx, "s1", "r100")
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.Len())

	require.NoError(t, f.service.Unmap(ctx, "s1", 42))

	remoteID, err := f.service.GetRemoteProductID(ctx, "s1", 42)
	require.NoError(t, err)
	assert.Empty(t, remoteID)

	variant, err := f.variantsMap.GetByExternalID(ctx, "s1", 7)
	require.NoError(t, err)
	assert.Nil(t, variant)
	assert.Equal(t, 0, f.cache.Len())
}

func TestUnmap_UnknownProductIsNoop(t *testing.T) {
	f := newServiceFixture(t)
	require.NoError(t, f.service.Unmap(context.Background(), "s1", 999))
}

func TestResolveCartVariant(t *testing.T) {
	ctx := context.Background()
	candidates := []domain.RemoteVariant{
		{VariantID: "v1", Price: decimal.RequireFromString("10"), PriceTax: decimal.RequireFromString("12.3")},
		{VariantID: "v2", Price: decimal.RequireFromString("20"), PriceTax: decimal.RequireFromString("24.6")},
	}

	t.Run("variable matches the mapped variant", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.variantsMap.Add(ctx, &domain.VariantMapping{StoreID: "s1", ExternalVariantID: 7, RemoteVariantID: "v2"}))

		line, err := f.service.ResolveCartVariant(ctx, "s1", 7, 3, domain.ProductKindVariable, candidates)
		require.NoError(t, err)
		assert.Equal(t, "v2", line.VariantID)
		assert.Equal(t, 3, line.Quantity)
		assert.True(t, decimal.RequireFromString("24.6").Equal(line.PriceTax))
	})

	t.Run("variable without match", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.variantsMap.Add(ctx, &domain.VariantMapping{StoreID: "s1", ExternalVariantID: 7, RemoteVariantID: "v9"}))

		_, err := f.service.ResolveCartVariant(ctx, "s1", 7, 1, domain.ProductKindVariable, candidates)
		assert.True(t, errors.Is(err, domain.ErrProductVariantsNotFound))
	})

	t.Run("variable without mapping", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ResolveCartVariant(ctx, "s1", 7, 1, domain.ProductKindVariable, candidates)
		assert.True(t, errors.Is(err, domain.ErrProductVariantsNotFound))
	})

	t.Run("simple takes the first candidate", func(t *testing.T) {
		f := newServiceFixture(t)

		line, err := f.service.ResolveCartVariant(ctx, "s1", 0, 2, domain.ProductKindSimple, candidates)
		require.NoError(t, err)
		assert.Equal(t, "v1", line.VariantID)
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("simple without candidates", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ResolveCartVariant(ctx, "s1", 0, 2, domain.ProductKindSimple, nil)
		assert.True(t, errors.Is(err, domain.ErrProductVariantsNotFound))
	})
}
