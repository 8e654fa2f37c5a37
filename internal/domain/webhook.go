package domain

import "time"

// WebhookEvent represents an inbound store webhook
type WebhookEvent struct {
	Topic      string    `json:"topic"`
	Shop       string    `json:"shop"`
	StoreID    string    `json:"store_id"`
	Payload    []byte    `json:"payload"`
	Verified   bool      `json:"verified"`
	ReceivedAt time.Time `json:"received_at"`
}

// OrderLine is a purchased line of a store order or checkout
type OrderLine struct {
	ProductID   int64       `json:"product_id"`
	VariantID   int64       `json:"variant_id"`
	ProductKind ProductKind `json:"product_kind"`
	Quantity    int         `json:"quantity"`
}
