package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Quote providers selectable with QUOTE_PROVIDER
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
)

// Config holds application configuration
type Config struct {
	DatabaseURL   string
	RunMigrations bool

	HTTPPort int
	GRPCPort int

	LogLevel  string
	LogPretty bool

	QuoteProvider       string
	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string
	QuoteTimeout        time.Duration
	EnrichConcurrency   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:         getEnv("DB_CONN_STR", ""),
		RunMigrations:       getEnvAsBool("RUN_MIGRATIONS", true),
		HTTPPort:            getEnvAsInt("HTTP_PORT", 8000),
		GRPCPort:            getEnvAsInt("GRPC_PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBool("LOG_PRETTY", false),
		QuoteProvider:       getEnv("QUOTE_PROVIDER", ProviderAlphaVantage),
		AlphaVantageAPIKey:  getEnv("ALPHAVANTAGE_API_KEY", ""),
		AlphaVantageBaseURL: getEnv("ALPHAVANTAGE_BASE_URL", ""),
		QuoteTimeout:        getEnvAsDuration("QUOTE_TIMEOUT", 5*time.Second),
		EnrichConcurrency:   getEnvAsInt("ENRICH_CONCURRENCY", 4),
	}

	if cfg.DatabaseURL == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DatabaseURL = buildDatabaseURL(
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "portfolio"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and consistent
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_CONN_STR is required")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("GRPC_PORT must be between 1 and 65535, got %d", c.GRPCPort)
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must differ, both are %d", c.HTTPPort)
	}
	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("QUOTE_TIMEOUT must be positive, got %s", c.QuoteTimeout)
	}
	if c.EnrichConcurrency <= 0 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive, got %d", c.EnrichConcurrency)
	}

	switch c.QuoteProvider {
	case ProviderAlphaVantage:
		if c.AlphaVantageAPIKey == "" {
			return fmt.Errorf("ALPHAVANTAGE_API_KEY is required when QUOTE_PROVIDER=%s", ProviderAlphaVantage)
		}
	case ProviderYahoo:
	default:
		return fmt.Errorf("unknown QUOTE_PROVIDER %q (want %s or %s)", c.QuoteProvider, ProviderAlphaVantage, ProviderYahoo)
	}

	return nil
}

// buildDatabaseURL renders a postgres:// URL, escaping the credentials
func buildDatabaseURL(host, port, user, password, dbname string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + dbname,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
