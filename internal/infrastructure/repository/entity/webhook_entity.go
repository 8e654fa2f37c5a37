package entity

import (
	"time"

	"commerce-sync-bridge/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoWebhookDoc represents a logged webhook in MongoDB
type MongoWebhookDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Topic     string             `bson:"topic"`
	Shop      string             `bson:"shop"`
	StoreID   string             `bson:"storeId"`
	Payload   string             `bson:"payload"`
	Verified  bool               `bson:"verified"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoWebhookDocFromDomain converts a domain event to a MongoDB document
func MongoWebhookDocFromDomain(event *domain.WebhookEvent) *MongoWebhookDoc {
	return &MongoWebhookDoc{
		Topic:     event.Topic,
		Shop:      event.Shop,
		StoreID:   event.StoreID,
		Payload:   string(event.Payload),
		Verified:  event.Verified,
		CreatedAt: event.ReceivedAt,
	}
}

// MongoFileAliasDoc stores the hosted script alias table as a single document
type MongoFileAliasDoc struct {
	ID        string            `bson:"_id"`
	Aliases   map[string]string `bson:"aliases"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}
