package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/application/webhook_handlers"
	"commerce-sync-bridge/internal/config"
	apiinfra "commerce-sync-bridge/internal/infrastructure/api"
	"commerce-sync-bridge/internal/infrastructure/cache"
	"commerce-sync-bridge/internal/infrastructure/metrics"
	"commerce-sync-bridge/internal/infrastructure/remoteapi"
	"commerce-sync-bridge/internal/infrastructure/repository"
	shopifyinfra "commerce-sync-bridge/internal/infrastructure/shopify"
	"commerce-sync-bridge/internal/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)

	// Initialize repositories
	productsMap := repository.NewMongoProductsMap(db)
	if err := productsMap.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create product mapping indexes")
	}
	variantsMap := repository.NewMongoVariantsMap(db)
	if err := variantsMap.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create variant mapping indexes")
	}
	webhookEvents := repository.NewMongoWebhookEventRepository(db)
	fileAliases := repository.NewMongoFileAliasRepository(db)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	productCache := newProductCache(ctx, cfg.Redis, logger)

	// Initialize application services
	remoteAPI := remoteapi.NewClient(cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.APIKey, logger)
	productService := application.NewProductService(
		remoteAPI,
		productsMap,
		variantsMap,
		productCache,
		logger,
		application.WithCacheTTL(cfg.RemoteAPI.CacheTTL),
		application.WithSyncMetrics(recorder),
	)
	cartService := application.NewCartService(productService, logger)

	catalog := shopifyinfra.NewCatalog(
		cfg.Shopify.APIKey,
		cfg.Shopify.APISecret,
		cfg.Shopify.ShopDomain,
		cfg.Shopify.AccessToken,
		cfg.Shopify.TaxRate,
		logger,
	)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductHandler(productService, catalog, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderHandler(cartService, catalog, logger))

	webhookSecret := cfg.Shopify.WebhookSecret
	if webhookSecret == "" {
		webhookSecret = cfg.Shopify.APISecret
	}
	if webhookSecret == "" {
		logger.Fatal().Msg("SHOPIFY_WEBHOOK_SECRET or SHOPIFY_API_SECRET environment variable is required")
	}
	verifier := shopifyinfra.NewWebhookVerifier(webhookSecret)

	if cfg.Server.APIKey == "" {
		logger.Warn().Msg("API_KEY not set, /api/v1 and /analytics/update will reject every request")
	}

	// Hosted analytics script
	analyticsHost := application.NewAnalyticsHost(application.AnalyticsSettings{
		TrackingID:      cfg.Analytics.TrackingID,
		SiteURL:         cfg.Analytics.SiteURL,
		ContentDir:      cfg.Analytics.ContentDir,
		CacheDir:        cfg.Analytics.CacheDir,
		RemoteJSFile:    cfg.Analytics.RemoteJSFile,
		CDNURL:          cfg.Analytics.CDNURL,
		StealthMode:     cfg.Analytics.StealthMode,
		TrackAdBlockers: cfg.Analytics.TrackAdBlockers,
	}, fileAliases, logger)
	if err := analyticsHost.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to load hosted analytics file aliases")
	}

	fs := afero.NewOsFs()
	scriptUpdater := application.NewScriptUpdater(analyticsHost, fs, nil, recorder, logger)
	if cfg.Analytics.UpdateInterval > 0 {
		go scriptUpdater.Run(ctx, cfg.Analytics.UpdateInterval)
	}

	r := apiinfra.NewRouter(apiinfra.RouterConfig{
		Products:   apiinfra.NewProductHandler(productService, catalog, logger),
		Webhooks:   apiinfra.NewWebhookHandler(verifier, webhookDispatcher, webhookEvents, logger),
		Analytics:  apiinfra.NewAnalyticsHandler(analyticsHost, scriptUpdater, fs, recorder, logger),
		Gatherer:   registry,
		SwaggerDoc: "./docs/swagger.json",
		APIKey:     cfg.Server.APIKey,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	logger.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Server.Port + "/swagger/index.html")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// newProductCache uses redis when configured and falls back to an in-process cache
func newProductCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) ports.ProductCache {
	if cfg.Addr == "" {
		logger.Info().Msg("REDIS_ADDR not set, caching remote products in memory")
		return cache.NewInMemoryProductCache()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Addr).Msg("Failed to connect to Redis")
	}

	return cache.NewRedisProductCache(rdb, cfg.Prefix, logger)
}
