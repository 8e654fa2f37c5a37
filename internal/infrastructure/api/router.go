package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the handlers mounted on the router.
// APIKey protects /api/v1 and the analytics refresh trigger.
type RouterConfig struct {
	Products   *ProductHandler
	Webhooks   *WebhookHandler
	Analytics  *AnalyticsHandler
	Gatherer   prometheus.Gatherer
	SwaggerDoc string
	APIKey     string
	Logger     zerolog.Logger
}

// NewRouter builds the HTTP router
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.SwaggerDoc != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
		r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			http.ServeFile(w, r, cfg.SwaggerDoc)
		})
	}

	// Webhook endpoint: POST /webhooks/shopify/{storeId}
	if cfg.Webhooks != nil {
		r.Method(http.MethodPost, "/webhooks/shopify/{storeId}", cfg.Webhooks)
	}

	requireAPIKey := APIKeyMiddleware(cfg.APIKey, cfg.Logger)

	if cfg.Products != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(requireAPIKey)
			cfg.Products.Routes(r)
		})
	}

	if cfg.Analytics != nil {
		cfg.Analytics.Routes(r, requireAPIKey)
	}

	return r
}
