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

const fileAliasDocID = "file_aliases"

// MongoFileAliasRepository implements FileAliasRepository using MongoDB.
// The whole table lives in one settings document.
type MongoFileAliasRepository struct {
	collection *mongo.Collection
}

// NewMongoFileAliasRepository creates a new MongoDB alias table repository
func NewMongoFileAliasRepository(db *mongo.Database) ports.FileAliasRepository {
	return &MongoFileAliasRepository{
		collection: db.Collection("analytics_settings"),
	}
}

// Load retrieves the alias table
func (r *MongoFileAliasRepository) Load(ctx context.Context) (domain.FileAliases, error) {
	var doc entity.MongoFileAliasDoc

	err := r.collection.FindOne(ctx, bson.M{"_id": fileAliasDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file aliases: %w", err)
	}

	aliases := make(domain.FileAliases, len(doc.Aliases))
	for key, alias := range doc.Aliases {
		aliases[key] = alias
	}
	return aliases, nil
}

// Save replaces the alias table
func (r *MongoFileAliasRepository) Save(ctx context.Context, aliases domain.FileAliases) error {
	doc := entity.MongoFileAliasDoc{
		ID:        fileAliasDocID,
		Aliases:   map[string]string(aliases),
		UpdatedAt: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": fileAliasDocID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save file aliases: %w", err)
	}

	return nil
}

// Delete removes the alias table
func (r *MongoFileAliasRepository) Delete(ctx context.Context) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": fileAliasDocID})
	if err != nil {
		return fmt.Errorf("failed to delete file aliases: %w", err)
	}
	return nil
}
