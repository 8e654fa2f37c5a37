//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/infrastructure/repository/entity"
)

func setupMongoContainer(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	mongoContainer, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("commerce_sync_test")

	cleanup := func() {
		_ = client.Disconnect(ctx)
		_ = mongoContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestMongoProductsMap_AddUpsertsAndKeepsCreatedAt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoProductsMap(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, &domain.ProductMapping{
		StoreID:           "store-1",
		ExternalProductID: 42,
		RemoteProductID:   "r1",
		Hash:              "h1",
		CreatedAt:         created,
	}))

	require.NoError(t, repo.Add(ctx, &domain.ProductMapping{
		StoreID:           "store-1",
		ExternalProductID: 42,
		RemoteProductID:   "r2",
		Hash:              "h2",
		CreatedAt:         created.Add(time.Hour),
	}))

	count, err := db.Collection("product_mappings").CountDocuments(ctx, bson.M{"storeId": "store-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByExternalID(ctx, "store-1", 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "r2", got.RemoteProductID)
	assert.Equal(t, "h2", got.Hash)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMongoProductsMap_GetMissingReturnsNil(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoProductsMap(db)

	got, err := repo.GetByExternalID(context.Background(), "store-1", 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMongoProductsMap_UpdateHashScopedToStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoProductsMap(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &domain.ProductMapping{StoreID: "store-1", ExternalProductID: 1, RemoteProductID: "shared", Hash: "a"}))
	require.NoError(t, repo.Add(ctx, &domain.ProductMapping{StoreID: "store-2", ExternalProductID: 1, RemoteProductID: "shared", Hash: "a"}))

	require.NoError(t, repo.UpdateHash(ctx, "store-1", "shared", "b"))

	first, err := repo.GetByExternalID(ctx, "store-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "b", first.Hash)

	second, err := repo.GetByExternalID(ctx, "store-2", 1)
	require.NoError(t, err)
	assert.Equal(t, "a", second.Hash)

	err = repo.UpdateHash(ctx, "store-3", "shared", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product mapping not found")
}

func TestMongoProductsMap_UniqueIndex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoProductsMap(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	doc := entity.MongoProductMappingDoc{StoreID: "store-1", ExternalProductID: 9, RemoteProductID: "r9"}
	_, err := db.Collection("product_mappings").InsertOne(ctx, doc)
	require.NoError(t, err)

	_, err = db.Collection("product_mappings").InsertOne(ctx, doc)
	require.Error(t, err)
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestMongoProductsMap_Remove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoProductsMap(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &domain.ProductMapping{StoreID: "store-1", ExternalProductID: 5, RemoteProductID: "r5"}))
	require.NoError(t, repo.RemoveByStoreAndExternalID(ctx, "store-1", 5))

	got, err := repo.GetByExternalID(ctx, "store-1", 5)
	require.NoError(t, err)
	assert.Nil(t, got)

	// removing an absent mapping is not an error
	require.NoError(t, repo.RemoveByStoreAndExternalID(ctx, "store-1", 5))
}

func TestMongoVariantsMap_AddUpsertsAndKeepsCreatedAt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoVariantsMap(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{
		StoreID: "store-1", ExternalVariantID: 7, ExternalProductID: 42, RemoteVariantID: "v1", CreatedAt: created,
	}))
	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{
		StoreID: "store-1", ExternalVariantID: 7, ExternalProductID: 42, RemoteVariantID: "v2", CreatedAt: created.Add(time.Hour),
	}))

	count, err := db.Collection("variant_mappings").CountDocuments(ctx, bson.M{"storeId": "store-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByExternalID(ctx, "store-1", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.RemoteVariantID)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestMongoVariantsMap_RemoveByProductCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoVariantsMap(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{StoreID: "store-1", ExternalVariantID: 7, ExternalProductID: 42, RemoteVariantID: "v7"}))
	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{StoreID: "store-1", ExternalVariantID: 8, ExternalProductID: 42, RemoteVariantID: "v8"}))
	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{StoreID: "store-1", ExternalVariantID: 9, ExternalProductID: 43, RemoteVariantID: "v9"}))
	require.NoError(t, repo.Add(ctx, &domain.VariantMapping{StoreID: "store-2", ExternalVariantID: 7, ExternalProductID: 42, RemoteVariantID: "other"}))

	require.NoError(t, repo.RemoveByStoreAndExternalProductID(ctx, "store-1", 42))

	for _, id := range []int64{7, 8} {
		got, err := repo.GetByExternalID(ctx, "store-1", id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	kept, err := repo.GetByExternalID(ctx, "store-1", 9)
	require.NoError(t, err)
	require.NotNil(t, kept)

	otherStore, err := repo.GetByExternalID(ctx, "store-2", 7)
	require.NoError(t, err)
	require.NotNil(t, otherStore)
	assert.Equal(t, "other", otherStore.RemoteVariantID)

	require.NoError(t, repo.RemoveByStoreAndExternalID(ctx, "store-1", 9))
	gone, err := repo.GetByExternalID(ctx, "store-1", 9)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMongoFileAliasRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoFileAliasRepository(db)
	ctx := context.Background()

	aliases, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, aliases)

	require.NoError(t, repo.Save(ctx, domain.FileAliases{"caos.js": "a1b2c3.js"}))
	require.NoError(t, repo.Save(ctx, domain.FileAliases{"caos.js": "d4e5f6.js", "sw.js": "s1.js"}))

	aliases, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FileAliases{"caos.js": "d4e5f6.js", "sw.js": "s1.js"}, aliases)

	require.NoError(t, repo.Delete(ctx))
	aliases, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, aliases)
}

func TestMongoWebhookEventRepository_LogWebhook(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupMongoContainer(t)
	defer cleanup()

	repo := NewMongoWebhookEventRepository(db)
	ctx := context.Background()

	event := &domain.WebhookEvent{Topic: "products/update", Shop: "demo.myshopify.com", StoreID: "store-1", Payload: []byte(`{"id":1}`), Verified: true}
	require.NoError(t, repo.LogWebhook(ctx, event))
	require.NoError(t, repo.LogWebhook(ctx, event))

	count, err := db.Collection("webhook_events").CountDocuments(ctx, bson.M{"storeId": "store-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
