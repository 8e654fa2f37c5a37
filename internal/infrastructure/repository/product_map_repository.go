package repository

import (
	"context"
	"fmt"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/infrastructure/repository/entity"
	"commerce-sync-bridge/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ ports.ProductsMap = (*MongoProductsMap)(nil)

// MongoProductsMap implements ProductsMap using MongoDB
type MongoProductsMap struct {
	collection *mongo.Collection
}

// NewMongoProductsMap creates a new MongoDB product mapping repository
func NewMongoProductsMap(db *mongo.Database) *MongoProductsMap {
	return &MongoProductsMap{
		collection: db.Collection("product_mappings"),
	}
}

// EnsureIndexes creates the unique (storeId, externalProductId) index
func (r *MongoProductsMap) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "externalProductId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "remoteProductId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create product mapping indexes: %w", err)
	}
	return nil
}

// GetByExternalID retrieves a mapping by store and source product id
func (r *MongoProductsMap) GetByExternalID(ctx context.Context, storeID string, externalProductID int64) (*domain.ProductMapping, error) {
	var doc entity.MongoProductMappingDoc
	filter := bson.M{"storeId": storeID, "externalProductId": externalProductID}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product mapping: %w", err)
	}

	return doc.ToDomain(), nil
}

// Add saves a mapping, replacing any previous one for the same source product.
// createdAt is only written when the mapping is inserted.
func (r *MongoProductsMap) Add(ctx context.Context, mapping *domain.ProductMapping) error {
	doc := entity.MongoProductMappingDocFromDomain(mapping)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": doc.StoreID, "externalProductId": doc.ExternalProductID}
	update := bson.M{
		"$set": bson.M{
			"remoteProductId": doc.RemoteProductID,
			"hash":            doc.Hash,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save product mapping: %w", err)
	}

	return nil
}

// UpdateHash stores a new content hash for a remote product
func (r *MongoProductsMap) UpdateHash(ctx context.Context, storeID string, remoteProductID string, hash string) error {
	filter := bson.M{"storeId": storeID, "remoteProductId": remoteProductID}
	update := bson.M{"$set": bson.M{"hash": hash, "updatedAt": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update product hash: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product mapping not found for remote product %s", remoteProductID)
	}

	return nil
}

// RemoveByStoreAndExternalID deletes the mapping of a source product
func (r *MongoProductsMap) RemoveByStoreAndExternalID(ctx context.Context, storeID string, externalProductID int64) error {
	filter := bson.M{"storeId": storeID, "externalProductId": externalProductID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete product mapping: %w", err)
	}

	return nil
}
