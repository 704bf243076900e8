// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Store and session backend names accepted by STORE_BACKEND and SESSION_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Where the key-value state and the browser sessions live.
	StoreBackend   string
	SessionBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Storefront behaviour
	PaymentDelay       time.Duration
	OrdersPollInterval time.Duration

	// Order events. Publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers     []string
	KafkaOrdersTopic string

	// OpenTelemetry. Tracing is disabled when OTelEndpoint is empty.
	OTelServiceName string
	OTelEndpoint    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend:   envOrDefault("STORE_BACKEND", BackendMemory),
		SessionBackend: envOrDefault("SESSION_BACKEND", BackendMemory),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "storefront"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "storefront"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrdersTopic: envOrDefault("KAFKA_ORDERS_TOPIC", "storefront.orders"),

		OTelServiceName: envOrDefault("OTEL_SERVICE_NAME", "storefront"),
		OTelEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.PaymentDelay, err = durationOrDefault("PAYMENT_DELAY", 1800*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.OrdersPollInterval, err = durationOrDefault("ORDERS_POLL_INTERVAL", 4*time.Second); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres, BackendValkey:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be memory, postgres or valkey, got %q", cfg.StoreBackend)
	}
	switch cfg.SessionBackend {
	case BackendMemory, BackendValkey:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be memory or valkey, got %q", cfg.SessionBackend)
	}

	if cfg.Env == "production" && cfg.StoreBackend == BackendPostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return net.JoinHostPort(c.ValkeyHost, c.ValkeyPort)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NeedsValkey reports whether any configured backend requires a Valkey client.
func (c *Config) NeedsValkey() bool {
	return c.StoreBackend == BackendValkey || c.SessionBackend == BackendValkey
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
