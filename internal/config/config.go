package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Backend     string
	DynamoDB    DynamoDBConfig
	SQLite      SQLiteConfig
	Idempotency IdempotencyConfig
	RateLimit   RateLimitConfig

	// StrictValidation rejects product bodies failing the model's validate tags.
	// Off by default: any decodable body is stored as sent.
	StrictValidation bool

	// FaultInjectionID makes fetches of this product ID fail. Empty disables it.
	FaultInjectionID string
}

// DynamoDBConfig holds the store client and table configuration
type DynamoDBConfig struct {
	Region           string
	Endpoint         string
	ProductTable     string
	IdempotencyTable string
	MaxConns         int
}

// SQLiteConfig holds configuration for the sqlite backend
type SQLiteConfig struct {
	Path string
}

// IdempotencyConfig controls replay of repeated creation requests
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RateLimitConfig controls request rate limiting. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("PRODUCT_TABLE_NAME", "Products")
	v.SetDefault("IDEMPOTENCY_TTL", "5m")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMODB_MAX_CONNS", 50)
	v.SetDefault("SQLITE_PATH", "./data/products.db")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("STRICT_VALIDATION", false)

	idempotencyTable := v.GetString("IDEMPOTENCY_TABLE_NAME")
	idempotencyEnabled := idempotencyTable != ""
	if v.IsSet("IDEMPOTENCY_ENABLED") {
		idempotencyEnabled = v.GetBool("IDEMPOTENCY_ENABLED")
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Backend:     strings.ToLower(v.GetString("STORE_BACKEND")),
		DynamoDB: DynamoDBConfig{
			Region:           v.GetString("AWS_REGION"),
			Endpoint:         v.GetString("DYNAMODB_ENDPOINT"),
			ProductTable:     v.GetString("PRODUCT_TABLE_NAME"),
			IdempotencyTable: idempotencyTable,
			MaxConns:         v.GetInt("DYNAMODB_MAX_CONNS"),
		},
		SQLite: SQLiteConfig{
			Path: v.GetString("SQLITE_PATH"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: idempotencyEnabled,
			TTL:     v.GetDuration("IDEMPOTENCY_TTL"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		StrictValidation: v.GetBool("STRICT_VALIDATION"),
		FaultInjectionID: v.GetString("FAULT_INJECTION_ID"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDynamoDB:
		if c.DynamoDB.ProductTable == "" {
			return fmt.Errorf("PRODUCT_TABLE_NAME is required for the %s backend", BackendDynamoDB)
		}
		if c.DynamoDB.Region == "" {
			return fmt.Errorf("AWS_REGION is required for the %s backend", BackendDynamoDB)
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	if c.Idempotency.Enabled && c.Idempotency.TTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.Idempotency.TTL)
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// IsProduction reports whether the application runs in the production environment
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
