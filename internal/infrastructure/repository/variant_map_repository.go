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

var _ ports.VariantsMap = (*MongoVariantsMap)(nil)

// MongoVariantsMap implements VariantsMap using MongoDB
type MongoVariantsMap struct {
	collection *mongo.Collection
}

// NewMongoVariantsMap creates a new MongoDB variant mapping repository
func NewMongoVariantsMap(db *mongo.Database) *MongoVariantsMap {
	return &MongoVariantsMap{
		collection: db.Collection("variant_mappings"),
	}
}

// EnsureIndexes creates the unique (storeId, externalVariantId) index
func (r *MongoVariantsMap) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "externalVariantId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "externalProductId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create variant mapping indexes: %w", err)
	}
	return nil
}

// GetByExternalID retrieves a mapping by store and source variant id
func (r *MongoVariantsMap) GetByExternalID(ctx context.Context, storeID string, externalVariantID int64) (*domain.VariantMapping, error) {
	var doc entity.MongoVariantMappingDoc
	filter := bson.M{"storeId": storeID, "externalVariantId": externalVariantID}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variant mapping: %w", err)
	}

	return doc.ToDomain(), nil
}

// Add saves a variant mapping. createdAt is only written when the mapping is inserted.
func (r *MongoVariantsMap) Add(ctx context.Context, mapping *domain.VariantMapping) error {
	doc := entity.MongoVariantMappingDocFromDomain(mapping)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": doc.StoreID, "externalVariantId": doc.ExternalVariantID}
	update := bson.M{
		"$set": bson.M{
			"externalProductId": doc.ExternalProductID,
			"remoteVariantId":   doc.RemoteVariantID,
		},
		"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save variant mapping: %w", err)
	}

	return nil
}

// RemoveByStoreAndExternalID deletes the mapping of a single source variant
func (r *MongoVariantsMap) RemoveByStoreAndExternalID(ctx context.Context, storeID string, externalVariantID int64) error {
	filter := bson.M{"storeId": storeID, "externalVariantId": externalVariantID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete variant mapping: %w", err)
	}

	return nil
}

// RemoveByStoreAndExternalProductID deletes every variant mapping of a source product
func (r *MongoVariantsMap) RemoveByStoreAndExternalProductID(ctx context.Context, storeID string, externalProductID int64) error {
	filter := bson.M{"storeId": storeID, "externalProductId": externalProductID}

	_, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete variant mappings: %w", err)
	}

	return nil
}
