package domain

import "time"

// ProductMapping links a source product to its remote counterpart
type ProductMapping struct {
	StoreID           string    `json:"store_id"`
	ExternalProductID int64     `json:"external_product_id"`
	RemoteProductID   string    `json:"remote_product_id"`
	Hash              string    `json:"hash"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// VariantMapping links a source variant to its remote counterpart
type VariantMapping struct {
	StoreID           string    `json:"store_id"`
	ExternalVariantID int64     `json:"external_variant_id"`
	ExternalProductID int64     `json:"external_product_id"`
	RemoteVariantID   string    `json:"remote_variant_id"`
	CreatedAt         time.Time `json:"created_at"`
}
