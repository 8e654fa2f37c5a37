package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler exposes product sync operations over REST
type ProductHandler struct {
	products *application.ProductService
	catalog  ports.SourceCatalog
	logger   zerolog.Logger
}

// NewProductHandler creates a new product REST handler
func NewProductHandler(products *application.ProductService, catalog ports.SourceCatalog, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		catalog:  catalog,
		logger:   logger,
	}
}

// Routes mounts the handler under /stores/{storeId}
func (h *ProductHandler) Routes(r chi.Router) {
	r.Post("/stores/{storeId}/products/{productId}/sync", h.syncProduct)
	r.Get("/stores/{storeId}/products/{productId}", h.getProduct)
	r.Delete("/stores/{storeId}/products/{productId}", h.unmapProduct)
	r.Post("/stores/{storeId}/cart-variants", h.resolveCartVariant)
}

func productParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	storeID := chi.URLParam(r, "storeId")
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if storeID == "" || err != nil {
		writeError(w, http.StatusBadRequest, "storeId and numeric productId are required")
		return "", 0, false
	}
	return storeID, productID, true
}

func (h *ProductHandler) syncProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID, productID, ok := productParams(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		h.logger.Error().Err(err).Int64("productId", productID).Msg("Failed to load source product")
		writeError(w, http.StatusBadGateway, "failed to load source product")
		return
	}

	if err := h.products.SyncProduct(ctx, storeID, product); err != nil {
		h.logger.Error().Err(err).Str("storeId", storeID).Int64("productId", productID).Msg("Failed to sync product")
		writeError(w, statusFor(err), err.Error())
		return
	}

	remoteID, err := h.products.GetRemoteProductID(ctx, storeID, productID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"remoteProductId": remoteID})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID, productID, ok := productParams(w, r)
	if !ok {
		return
	}

	remoteID, err := h.products.GetRemoteProductID(ctx, storeID, productID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if remoteID == "" {
		writeError(w, http.StatusNotFound, "product is not mapped")
		return
	}

	product, err := h.products.GetProduct(ctx, storeID, remoteID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "remote product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) unmapProduct(w http.ResponseWriter, r *http.Request) {
	storeID, productID, ok := productParams(w, r)
	if !ok {
		return
	}

	if err := h.products.Unmap(r.Context(), storeID, productID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type cartVariantRequest struct {
	ProductID   int64              `json:"productId"`
	VariantID   int64              `json:"variantId"`
	Quantity    int                `json:"quantity"`
	ProductKind domain.ProductKind `json:"productKind"`
}

func (h *ProductHandler) resolveCartVariant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID := chi.URLParam(r, "storeId")

	var req cartVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	remoteID, err := h.products.GetRemoteProductID(ctx, storeID, req.ProductID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if remoteID == "" {
		writeError(w, http.StatusNotFound, "product is not mapped")
		return
	}

	product, err := h.products.GetProduct(ctx, storeID, remoteID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "remote product not found")
		return
	}

	variant, err := h.products.ResolveCartVariant(ctx, storeID, req.VariantID, req.Quantity, req.ProductKind, product.Variants)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, variant)
}
