package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the service configuration read from the environment
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RemoteAPI RemoteAPIConfig
	Shopify   ShopifyConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port     string
	LogLevel string
	APIKey   string
}

type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig is optional: with an empty Addr products are cached in process
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type RemoteAPIConfig struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
}

type ShopifyConfig struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
	ShopDomain    string
	AccessToken   string
	TaxRate       decimal.Decimal
}

// AnalyticsConfig configures the locally hosted analytics script
type AnalyticsConfig struct {
	TrackingID      string
	SiteURL         string
	ContentDir      string
	CacheDir        string
	RemoteJSFile    string
	CDNURL          string
	StealthMode     bool
	TrackAdBlockers bool
	UpdateInterval  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			APIKey:   os.Getenv("API_KEY"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "commerce_sync"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "commerce-sync"),
		},
		RemoteAPI: RemoteAPIConfig{
			BaseURL:  getEnv("REMOTE_API_URL", "https://api.getresponse.com/v3"),
			APIKey:   os.Getenv("REMOTE_API_KEY"),
			CacheTTL: getDuration("PRODUCT_CACHE_TTL", 300*time.Second),
		},
		Shopify: ShopifyConfig{
			APIKey:        os.Getenv("SHOPIFY_API_KEY"),
			APISecret:     os.Getenv("SHOPIFY_API_SECRET"),
			WebhookSecret: os.Getenv("SHOPIFY_WEBHOOK_SECRET"),
			ShopDomain:    os.Getenv("SHOPIFY_SHOP_DOMAIN"),
			AccessToken:   os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			TaxRate:       getDecimal("SHOPIFY_TAX_RATE", decimal.Zero),
		},
		Analytics: AnalyticsConfig{
			TrackingID:      os.Getenv("ANALYTICS_TRACKING_ID"),
			SiteURL:         getEnv("ANALYTICS_SITE_URL", "http://localhost:8080"),
			ContentDir:      getEnv("ANALYTICS_CONTENT_DIR", "./content"),
			CacheDir:        getEnv("ANALYTICS_CACHE_DIR", "/uploads/caos/"),
			RemoteJSFile:    getEnv("ANALYTICS_REMOTE_JS_FILE", "analytics.js"),
			CDNURL:          os.Getenv("ANALYTICS_CDN_URL"),
			StealthMode:     getBool("ANALYTICS_STEALTH_MODE", false),
			TrackAdBlockers: getBool("ANALYTICS_TRACK_AD_BLOCKERS", false),
			UpdateInterval:  getDuration("ANALYTICS_UPDATE_INTERVAL", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getDuration accepts Go durations ("5m") and plain seconds ("300")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
