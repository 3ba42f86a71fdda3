package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Host     string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"SERVER_HTTP_PORT" default:"8080"`

	Environment string `envconfig:"SERVER_ENV" default:"development"`

	// Timeouts
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Azure AI Speech
	AzureAISpeechKey   string `envconfig:"AZURE_AI_SPEECH_KEY"`
	AzureServiceRegion string `envconfig:"AZURE_SERVICE_REGION"`
	// Optional full endpoint override (sovereign clouds, local mocks).
	// When set, the region-derived host is not used.
	AzureSpeechEndpoint string `envconfig:"AZURE_SPEECH_ENDPOINT"`

	// Shared secret required in the X-Pronounce-Secret header.
	SharedSecret string `envconfig:"PRONOUNCE_SHARED_SECRET"`

	// CORS. An empty origin list means all origins are accepted.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	// Region codes are case-insensitive on the Azure side but the host we
	// build from them is not.
	cfg.AzureServiceRegion = strings.ToLower(strings.TrimSpace(cfg.AzureServiceRegion))
	cfg.SharedSecret = strings.TrimSpace(cfg.SharedSecret)

	origins := cfg.CORSAllowedOrigins[:0]
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSAllowedOrigins = origins

	return &cfg, nil
}

// HTTPAddress returns the HTTP server address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// AzureConfigured reports whether the upstream credentials are present.
func (c *Config) AzureConfigured() bool {
	return c.AzureAISpeechKey != "" && c.AzureServiceRegion != ""
}

// SecretConfigured reports whether a shared secret is set. Without one the
// pronounce endpoint rejects every request.
func (c *Config) SecretConfigured() bool {
	return c.SharedSecret != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
