package webhook_handlers

import (
	"context"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// OrderHandler resolves the cart lines of order and checkout webhooks.
// Resolving loads the ordered products into the product cache ahead of cart
// operations and reports lines that cannot be matched to a remote variant.
type OrderHandler struct {
	carts   *application.CartService
	decoder ports.WebhookDecoder
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler
func NewOrderHandler(carts *application.CartService, decoder ports.WebhookDecoder, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		carts:   carts,
		decoder: decoder,
		logger:  logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *OrderHandler) CanHandle(topic string) bool {
	return topic == "orders/create" ||
		topic == "checkouts/create" ||
		topic == "checkouts/update"
}

// Handle processes an order webhook event
func (h *OrderHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	lines, err := h.decoder.DecodeOrderLines(event.Payload)
	if err != nil {
		return err
	}

	cart, err := h.carts.BuildCart(ctx, event.StoreID, lines)
	if err != nil {
		return err
	}

	unresolved := len(lines) - len(cart)
	if unresolved > 0 {
		h.logger.Warn().
			Str("topic", event.Topic).
			Str("storeId", event.StoreID).
			Int("lines", len(lines)).
			Int("unresolved", unresolved).
			Msg("Order lines without a remote variant")
		return nil
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("storeId", event.StoreID).
		Int("lines", len(lines)).
		Msg("Resolved cart lines")

	return nil
}
