package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductKind identifies how a source product is laid out
type ProductKind string

const (
	// ProductKindSimple is a product sold as a single variant
	ProductKindSimple ProductKind = "simple"
	// ProductKindVariable is a product with selectable child variants
	ProductKindVariable ProductKind = "variable"
)

// SourceProduct represents a product as it exists in the origin commerce system
type SourceProduct struct {
	ID          int64           `json:"id"`
	Kind        ProductKind     `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Vendor      string          `json:"vendor"`
	Categories  []string        `json:"categories"`
	Variants    []SourceVariant `json:"variants"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HasVariants reports whether the product exposes child variants
func (p *SourceProduct) HasVariants() bool {
	return p.Kind == ProductKindVariable
}

// SourceVariant is a purchasable unit of a source product
type SourceVariant struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url"`
}

// ProductParams is the normalized product representation sent to the remote API
type ProductParams struct {
	Name       string           `json:"name"`
	Type       string           `json:"type,omitempty"`
	URL        string           `json:"url,omitempty"`
	Vendor     string           `json:"vendor,omitempty"`
	ExternalID string           `json:"externalId"`
	Categories []CategoryParams `json:"categories,omitempty"`
	Variants   []VariantParams  `json:"variants"`
}

// CategoryParams is a category entry of ProductParams
type CategoryParams struct {
	Name       string `json:"name"`
	ExternalID string `json:"externalId,omitempty"`
}

// VariantParams is a variant entry of ProductParams
type VariantParams struct {
	Name        string          `json:"name"`
	URL         string          `json:"url,omitempty"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	PriceTax    decimal.Decimal `json:"priceTax"`
	Quantity    int             `json:"quantity"`
	ExternalID  string          `json:"externalId"`
	Description string          `json:"description,omitempty"`
	Images      []ImageParams   `json:"images,omitempty"`
}

// ImageParams is an image entry of VariantParams
type ImageParams struct {
	Src      string `json:"src"`
	Position int    `json:"position"`
}

// NormalizedProduct pairs the remote representation with its content hash
type NormalizedProduct struct {
	Params ProductParams
	Hash   string
}

// RemoteProduct is a product as returned by the remote marketing API
type RemoteProduct struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	URL        string          `json:"url,omitempty"`
	ExternalID string          `json:"externalId,omitempty"`
	Variants   []RemoteVariant `json:"variants"`
	CreatedOn  string          `json:"createdOn,omitempty"`
	UpdatedOn  string          `json:"updatedOn,omitempty"`
}

// IsEmpty reports whether the payload carries no product
func (p *RemoteProduct) IsEmpty() bool {
	return p == nil || p.ProductID == ""
}

// RemoteVariant is a variant as returned by the remote marketing API
type RemoteVariant struct {
	VariantID  string          `json:"variantId"`
	ExternalID string          `json:"externalId"`
	Name       string          `json:"name,omitempty"`
	SKU        string          `json:"sku,omitempty"`
	Price      decimal.Decimal `json:"price"`
	PriceTax   decimal.Decimal `json:"priceTax"`
	Quantity   int             `json:"quantity,omitempty"`
}

// CartVariant is a normalized cart line built from a remote variant
type CartVariant struct {
	VariantID string          `json:"variantId"`
	Price     decimal.Decimal `json:"price"`
	PriceTax  decimal.Decimal `json:"priceTax"`
	Quantity  int             `json:"quantity"`
}
