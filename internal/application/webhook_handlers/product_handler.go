package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// ProductHandler keeps remote products in sync with store product webhooks
type ProductHandler struct {
	products *application.ProductService
	decoder  ports.WebhookDecoder
	logger   zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(products *application.ProductService, decoder ports.WebhookDecoder, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		decoder:  decoder,
		logger:   logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == "products/create" ||
		topic == "products/update" ||
		topic == "products/delete"
}

// Handle processes a product webhook event
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	if event.Topic == "products/delete" {
		var deleted struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(event.Payload, &deleted); err != nil {
			return fmt.Errorf("failed to parse product webhook payload: %w", err)
		}

		h.logger.Info().Str("storeId", event.StoreID).Int64("productId", deleted.ID).Msg("Product deleted, removing mapping")
		return h.products.Unmap(ctx, event.StoreID, deleted.ID)
	}

	product, err := h.decoder.DecodeProduct(event.Payload)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("storeId", event.StoreID).
		Int64("productId", product.ID).
		Str("kind", string(product.Kind)).
		Msg("Processing product webhook event")

	return h.products.SyncProduct(ctx, event.StoreID, product)
}
