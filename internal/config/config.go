package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the amo-server service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"amo-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"AMO_API_PORT" envDefault:"8188"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	LogPIILevel     string        `env:"LOG_PII_LEVEL" envDefault:"hashed"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowOrigin string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Provider
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIRequestTimeout time.Duration `env:"OPENAI_REQUEST_TIMEOUT" envDefault:"120s"`

	// Realtime
	RealtimeDefaultModel string        `env:"REALTIME_DEFAULT_MODEL" envDefault:"gpt-4o-realtime-preview-2024-10-01"`
	RealtimeDefaultVoice string        `env:"REALTIME_DEFAULT_VOICE" envDefault:"coral"`
	LeaseCleanupCron     string        `env:"LEASE_CLEANUP_CRON" envDefault:"* * * * *"`
	LeaseTTL             time.Duration `env:"LEASE_TTL" envDefault:"1m"`

	// Uploads
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("AMO_API_PORT must be a valid port, got %d", cfg.HTTPPort)
	}
	if strings.TrimSpace(cfg.OpenAIBaseURL) == "" {
		return nil, fmt.Errorf("OPENAI_BASE_URL must not be empty")
	}
	switch strings.ToLower(cfg.LogPIILevel) {
	case "none", "hashed", "full":
	default:
		return nil, fmt.Errorf("LOG_PII_LEVEL must be one of none, hashed, full")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasProviderKey reports whether an OpenAI API key is configured.
func (c *Config) HasProviderKey() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}
