package api

import (
	"io"
	"net/http"
	"time"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/domain"
	shopifyinfra "commerce-sync-bridge/internal/infrastructure/shopify"
	"commerce-sync-bridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WebhookHandler receives Shopify webhooks for a store
type WebhookHandler struct {
	verifier   *shopifyinfra.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	events     ports.WebhookEventRepository
	logger     zerolog.Logger
}

// NewWebhookHandler creates a new webhook endpoint
func NewWebhookHandler(
	verifier *shopifyinfra.WebhookVerifier,
	dispatcher *application.WebhookDispatcher,
	events ports.WebhookEventRepository,
	logger zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		dispatcher: dispatcher,
		events:     events,
		logger:     logger,
	}
}

// ServeHTTP handles POST /webhooks/shopify/{storeId}
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID := chi.URLParam(r, "storeId")
	if storeID == "" {
		http.Error(w, "storeId is required", http.StatusBadRequest)
		return
	}

	// Get webhook topic from header
	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		h.logger.Warn().Msg("Missing X-Shopify-Topic header")
		http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(r); err != nil {
		h.logger.Warn().Err(err).Str("storeId", storeID).Msg("Webhook signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read webhook payload")
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	event := &domain.WebhookEvent{
		Topic:      topic,
		Shop:       r.Header.Get("X-Shopify-Shop-Domain"),
		StoreID:    storeID,
		Payload:    payload,
		Verified:   true,
		ReceivedAt: time.Now(),
	}

	if err := h.events.LogWebhook(ctx, event); err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Msg("Failed to log webhook event")
		// Continue processing even if logging fails
	}

	if err := h.dispatcher.Dispatch(ctx, event); err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", topic).
			Str("storeId", storeID).
			Msg("Failed to dispatch webhook event")

		// Return 500 to trigger Shopify retry
		http.Error(w, "Failed to process webhook event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
