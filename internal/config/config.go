package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	DB      DatabaseConfig
	Redis   RedisConfig
	Shopify ShopifyConfig
	Amazon  AmazonConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters. The database is
// optional: when it is not configured the server runs in fallback-data mode.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Configured reports whether enough parameters are present to attempt a
// connection.
func (c DatabaseConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Name != ""
}

// RedisConfig contains Redis connection parameters. Redis is optional; when
// absent the list cache is disabled.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Configured reports whether a Redis host is set.
func (c RedisConfig) Configured() bool {
	return c.Host != ""
}

// ShopifyConfig contains credentials for the Shopify Admin API.
type ShopifyConfig struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
}

// AmazonConfig contains credentials for the Amazon product search API.
type AmazonConfig struct {
	APIKey         string
	APIHost        string
	SearchKeywords string
	Country        string
}

// WorkerConfig contains interval configuration for background workers.
// A zero SyncInterval disables the periodic sync worker.
type WorkerConfig struct {
	SyncInterval  time.Duration
	ProbeInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "5000")
	cfg.Env = getEnv("ENV", "development")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Shopify
	cfg.Shopify = ShopifyConfig{
		StoreDomain: getEnv("SHOPIFY_STORE_DOMAIN", ""),
		AccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		APIVersion:  getEnv("SHOPIFY_API_VERSION", "2023-10"),
	}

	// Amazon (RapidAPI product search)
	cfg.Amazon = AmazonConfig{
		APIKey:         getEnv("AMAZON_API_KEY", ""),
		APIHost:        getEnv("AMAZON_API_HOST", "amazon-products.p.rapidapi.com"),
		SearchKeywords: getEnv("AMAZON_SEARCH_KEYWORDS", "unstitched suit set"),
		Country:        getEnv("AMAZON_COUNTRY", "IN"),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", "0"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.ProbeInterval, err = parseDurationEnv("DB_PROBE_INTERVAL", "10s"); err != nil {
		return nil, fmt.Errorf("invalid DB_PROBE_INTERVAL: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
