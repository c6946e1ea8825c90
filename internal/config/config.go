package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every credential and endpoint the process needs. It is
// built once in main and passed into components explicitly, so nothing
// reads the environment at call time.
type Config struct {
	Port string

	// AppURL is the externally visible base URL of this service. Used as a
	// fallback when the OAuth redirect URI cannot be derived from the
	// incoming request.
	AppURL string

	// ReturnPath is where the browser lands after the OAuth flow finishes,
	// with ?connected or ?error&reason=... appended.
	ReturnPath string

	ShopifyAPIKey        string
	ShopifyAPISecret     string
	ShopifyWebhookSecret string
	ShopifyAPIVersion    string

	DocstoreBaseURL string
	DocstoreAPIKey  string

	// MongoURI is optional; when empty the webhook audit log is disabled.
	MongoURI      string
	MongoDatabase string

	// RedisAddr is optional; when empty webhook deliveries are not deduplicated.
	RedisAddr string
}

// Load reads .env (if present) and the process environment into a Config.
// Only the Shopify credentials and the document store endpoint are required.
func Load() (*Config, error) {
	// A missing .env is fine in production; env vars are set directly there.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		AppURL:               getenv("APP_URL", "http://localhost:8080"),
		ReturnPath:           getenv("RETURN_PATH", "/settings"),
		ShopifyAPIKey:        os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret:     os.Getenv("SHOPIFY_API_SECRET"),
		ShopifyWebhookSecret: os.Getenv("SHOPIFY_WEBHOOK_SECRET"),
		ShopifyAPIVersion:    getenv("SHOPIFY_API_VERSION", "2024-01"),
		DocstoreBaseURL:      os.Getenv("DOCSTORE_BASE_URL"),
		DocstoreAPIKey:       os.Getenv("DOCSTORE_API_KEY"),
		MongoURI:             os.Getenv("MONGODB_URI"),
		MongoDatabase:        getenv("MONGODB_DATABASE", "jewelpos"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
	}

	if cfg.ShopifyAPIKey == "" || cfg.ShopifyAPISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}
	if cfg.ShopifyWebhookSecret == "" {
		return nil, fmt.Errorf("SHOPIFY_WEBHOOK_SECRET is required")
	}
	if cfg.DocstoreBaseURL == "" {
		return nil, fmt.Errorf("DOCSTORE_BASE_URL is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
