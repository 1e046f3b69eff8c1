package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Shopify
	ShopDomain         string
	ShopifyAccessToken string
	ShopifyAPIVersion  string

	// Storefront
	StoreURL   string
	StoreBrand string
	Currency   string

	// Feed
	FeedTitle       string
	FeedDescription string
	FeedBaseURL     string

	// Fetch limits
	PageSize     int
	MaxPages     int
	MaxRecords   int
	FetchTimeout int

	// Eligibility policy
	FeedRequireDescription bool
	FeedRequireSKU         bool
	FeedStrictInventory    bool

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:            getEnv("DATABASE_URL", "sqlite://feedgen.db"),
		KafkaBrokers:           getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:                getEnv("API_PORT", "8080"),
		APIHost:                getEnv("API_HOST", "0.0.0.0"),
		ShopDomain:             getEnv("SHOP_DOMAIN", ""),
		ShopifyAccessToken:     getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-10"),
		StoreURL:               getEnv("STORE_URL", "https://www.example.com"),
		StoreBrand:             getEnv("STORE_BRAND", "Store Brand"),
		Currency:               getEnv("CURRENCY", "BRL"),
		FeedTitle:              getEnv("FEED_TITLE", "Product Feed"),
		FeedDescription:        getEnv("FEED_DESCRIPTION", "Product Feed"),
		FeedBaseURL:            getEnv("FEED_BASE_URL", "http://localhost:8080/api/v1/feed/pages"),
		PageSize:               getEnvAsInt("PAGE_SIZE", 50),
		MaxPages:               getEnvAsInt("MAX_PAGES", 200),
		MaxRecords:             getEnvAsInt("MAX_RECORDS", 0),
		FetchTimeout:           getEnvAsInt("FETCH_TIMEOUT_SECONDS", 60),
		FeedRequireDescription: getEnvAsBool("FEED_REQUIRE_DESCRIPTION", true),
		FeedRequireSKU:         getEnvAsBool("FEED_REQUIRE_SKU", true),
		FeedStrictInventory:    getEnvAsBool("FEED_STRICT_INVENTORY", false),
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
