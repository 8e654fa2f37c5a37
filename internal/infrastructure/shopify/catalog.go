package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultVariantTitle = "Default Title"

// Catalog reads products from a Shopify store
type Catalog struct {
	app         goshopify.App
	shopDomain  string
	accessToken string
	taxRate     decimal.Decimal
	logger      zerolog.Logger
}

var (
	_ ports.SourceCatalog  = (*Catalog)(nil)
	_ ports.WebhookDecoder = (*Catalog)(nil)
)

// NewCatalog creates a new Shopify catalog adapter
func NewCatalog(apiKey, apiSecret, shopDomain, accessToken string, taxRate decimal.Decimal, logger zerolog.Logger) *Catalog {
	return &Catalog{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		shopDomain:  shopDomain,
		accessToken: accessToken,
		taxRate:     taxRate,
		logger:      logger,
	}
}

// createClient is a helper to create a goshopify client
func (c *Catalog) createClient() (*goshopify.Client, error) {
	client, err := goshopify.NewClient(c.app, c.shopDomain, c.accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// GetProduct loads a product with its variants and converts it
func (c *Catalog) GetProduct(ctx context.Context, productID int64) (*domain.SourceProduct, error) {
	client, err := c.createClient()
	if err != nil {
		return nil, err
	}
	product, err := client.Product.Get(ctx, uint64(productID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	c.logger.Debug().Int64("productId", productID).Int("variants", len(product.Variants)).Msg("Loaded product from Shopify")
	return c.ToSourceProduct(product), nil
}

// DecodeProduct parses a products/* webhook payload
func (c *Catalog) DecodeProduct(payload []byte) (*domain.SourceProduct, error) {
	var product goshopify.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("failed to parse product payload: %w", err)
	}
	if product.Id == 0 {
		return nil, fmt.Errorf("product payload has no id")
	}
	return c.ToSourceProduct(&product), nil
}

// DecodeOrderLines parses the line items of an orders/* or checkouts/* webhook payload
func (c *Catalog) DecodeOrderLines(payload []byte) ([]domain.OrderLine, error) {
	var order goshopify.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("failed to parse order payload: %w", err)
	}

	lines := make([]domain.OrderLine, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		kind := domain.ProductKindSimple
		if item.VariantTitle != "" && item.VariantTitle != defaultVariantTitle {
			kind = domain.ProductKindVariable
		}
		lines = append(lines, domain.OrderLine{
			ProductID:   int64(item.ProductId),
			VariantID:   int64(item.VariantId),
			ProductKind: kind,
			Quantity:    item.Quantity,
		})
	}
	return lines, nil
}

// ToSourceProduct converts a Shopify product. Products whose only variant is the
// default one are simple, everything else is variable.
func (c *Catalog) ToSourceProduct(product *goshopify.Product) *domain.SourceProduct {
	source := &domain.SourceProduct{
		ID:          int64(product.Id),
		Kind:        productKind(product),
		Name:        product.Title,
		Description: product.BodyHTML,
		Vendor:      product.Vendor,
	}
	if product.Handle != "" {
		source.URL = fmt.Sprintf("https://%s/products/%s", c.shopHost(), product.Handle)
	}
	if product.ProductType != "" {
		source.Categories = append(source.Categories, product.ProductType)
	}
	if product.UpdatedAt != nil {
		source.UpdatedAt = *product.UpdatedAt
	}

	images := make(map[uint64]string, len(product.Images))
	for _, image := range product.Images {
		images[image.Id] = image.Src
	}

	for _, variant := range product.Variants {
		sv := domain.SourceVariant{
			ID:       int64(variant.Id),
			Name:     variant.Title,
			SKU:      variant.Sku,
			Quantity: variant.InventoryQuantity,
			ImageURL: images[variant.ImageId],
		}
		if variant.Price != nil {
			sv.Price = *variant.Price
		}
		if variant.Taxable {
			sv.TaxRate = c.taxRate
		}
		if sv.Name == defaultVariantTitle {
			sv.Name = product.Title
		}
		source.Variants = append(source.Variants, sv)
	}

	return source
}

func (c *Catalog) shopHost() string {
	if strings.Contains(c.shopDomain, ".") {
		return c.shopDomain
	}
	return c.shopDomain + ".myshopify.com"
}

func productKind(product *goshopify.Product) domain.ProductKind {
	if len(product.Variants) > 1 {
		return domain.ProductKindVariable
	}
	if len(product.Variants) == 1 && product.Variants[0].Title != "" && product.Variants[0].Title != defaultVariantTitle {
		return domain.ProductKindVariable
	}
	return domain.ProductKindSimple
}
