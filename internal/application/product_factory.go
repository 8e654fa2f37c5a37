package application

import (
	"encoding/json"
	"fmt"
	"strconv"

	"commerce-sync-bridge/internal/domain"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// ProductFactory converts source products into the remote product representation
type ProductFactory struct{}

// NewProductFactory creates a new product factory
func NewProductFactory() *ProductFactory {
	return &ProductFactory{}
}

// BuildFromSimpleProduct normalizes a simple product. The product itself is sent as its only variant.
func (f *ProductFactory) BuildFromSimpleProduct(product *domain.SourceProduct) (*domain.NormalizedProduct, error) {
	if product == nil || product.Kind != domain.ProductKindSimple {
		return nil, domain.ErrIncorrectProductType
	}

	variant := domain.SourceVariant{
		ID:   product.ID,
		Name: product.Name,
	}
	if len(product.Variants) > 0 {
		variant = product.Variants[0]
		if variant.Name == "" {
			variant.Name = product.Name
		}
	}

	params := f.baseParams(product)
	params.Variants = []domain.VariantParams{f.variantParams(product, variant)}

	return f.normalize(params)
}

// BuildFromVariableProduct normalizes a variable product with one remote variant per child variant
func (f *ProductFactory) BuildFromVariableProduct(product *domain.SourceProduct) (*domain.NormalizedProduct, error) {
	if product == nil || !product.HasVariants() {
		return nil, domain.ErrIncorrectProductType
	}
	if len(product.Variants) == 0 {
		return nil, fmt.Errorf("%w: product %d has no variants", domain.ErrProductVariantsNotFound, product.ID)
	}

	params := f.baseParams(product)
	params.Variants = make([]domain.VariantParams, 0, len(product.Variants))
	for _, variant := range product.Variants {
		params.Variants = append(params.Variants, f.variantParams(product, variant))
	}

	return f.normalize(params)
}

// Build dispatches on the product kind
func (f *ProductFactory) Build(product *domain.SourceProduct) (*domain.NormalizedProduct, error) {
	if product == nil {
		return nil, domain.ErrIncorrectProductType
	}

	switch product.Kind {
	case domain.ProductKindSimple:
		return f.BuildFromSimpleProduct(product)
	case domain.ProductKindVariable:
		return f.BuildFromVariableProduct(product)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrIncorrectProductType, product.Kind)
	}
}

func (f *ProductFactory) baseParams(product *domain.SourceProduct) domain.ProductParams {
	params := domain.ProductParams{
		Name:       product.Name,
		Type:       string(product.Kind),
		URL:        product.URL,
		Vendor:     product.Vendor,
		ExternalID: strconv.FormatInt(product.ID, 10),
	}
	for _, category := range product.Categories {
		params.Categories = append(params.Categories, domain.CategoryParams{Name: category})
	}
	return params
}

func (f *ProductFactory) variantParams(product *domain.SourceProduct, variant domain.SourceVariant) domain.VariantParams {
	priceTax := variant.Price.Mul(decimal.NewFromInt(1).Add(variant.TaxRate)).Round(2)

	params := domain.VariantParams{
		Name:        variant.Name,
		URL:         product.URL,
		SKU:         variant.SKU,
		Price:       variant.Price.Round(2),
		PriceTax:    priceTax,
		Quantity:    variant.Quantity,
		ExternalID:  strconv.FormatInt(variant.ID, 10),
		Description: product.Description,
	}
	if variant.ImageURL != "" {
		params.Images = []domain.ImageParams{{Src: variant.ImageURL, Position: 1}}
	}
	return params
}

func (f *ProductFactory) normalize(params domain.ProductParams) (*domain.NormalizedProduct, error) {
	hash, err := ContentHash(params)
	if err != nil {
		return nil, err
	}
	return &domain.NormalizedProduct{Params: params, Hash: hash}, nil
}

// ContentHash returns the digest of the JSON encoding of params
func ContentHash(params domain.ProductParams) (string, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode product params: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(payload), 16), nil
}
