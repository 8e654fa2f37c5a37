package entity

import (
	"time"

	"commerce-sync-bridge/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoProductMappingDoc represents a product mapping in MongoDB
type MongoProductMappingDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	StoreID           string             `bson:"storeId"`
	ExternalProductID int64              `bson:"externalProductId"`
	RemoteProductID   string             `bson:"remoteProductId"`
	Hash              string             `bson:"hash"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoProductMappingDoc) ToDomain() *domain.ProductMapping {
	return &domain.ProductMapping{
		StoreID:           d.StoreID,
		ExternalProductID: d.ExternalProductID,
		RemoteProductID:   d.RemoteProductID,
		Hash:              d.Hash,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// MongoProductMappingDocFromDomain converts a domain entity to a MongoDB document
func MongoProductMappingDocFromDomain(mapping *domain.ProductMapping) *MongoProductMappingDoc {
	return &MongoProductMappingDoc{
		StoreID:           mapping.StoreID,
		ExternalProductID: mapping.ExternalProductID,
		RemoteProductID:   mapping.RemoteProductID,
		Hash:              mapping.Hash,
		CreatedAt:         mapping.CreatedAt,
		UpdatedAt:         mapping.UpdatedAt,
	}
}

// MongoVariantMappingDoc represents a variant mapping in MongoDB
type MongoVariantMappingDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	StoreID           string             `bson:"storeId"`
	ExternalVariantID int64              `bson:"externalVariantId"`
	ExternalProductID int64              `bson:"externalProductId"`
	RemoteVariantID   string             `bson:"remoteVariantId"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoVariantMappingDoc) ToDomain() *domain.VariantMapping {
	return &domain.VariantMapping{
		StoreID:           d.StoreID,
		ExternalVariantID: d.ExternalVariantID,
		ExternalProductID: d.ExternalProductID,
		RemoteVariantID:   d.RemoteVariantID,
		CreatedAt:         d.CreatedAt,
	}
}

// MongoVariantMappingDocFromDomain converts a domain entity to a MongoDB document
func MongoVariantMappingDocFromDomain(mapping *domain.VariantMapping) *MongoVariantMappingDoc {
	return &MongoVariantMappingDoc{
		StoreID:           mapping.StoreID,
		ExternalVariantID: mapping.ExternalVariantID,
		ExternalProductID: mapping.ExternalProductID,
		RemoteVariantID:   mapping.RemoteVariantID,
		CreatedAt:         mapping.CreatedAt,
	}
}
