package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the chat-state service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-state"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CHAT_STATE_PORT" envDefault:"8187"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Native backend bridge
	BridgeBaseURL       string        `env:"BRIDGE_BASE_URL" envDefault:"http://localhost:8765"`
	BridgeEventsURL     string        `env:"BRIDGE_EVENTS_URL" envDefault:"ws://localhost:8765/events"`
	CommandTimeout      time.Duration `env:"BRIDGE_COMMAND_TIMEOUT" envDefault:"30s"`
	HeavyCommandTimeout time.Duration `env:"BRIDGE_HEAVY_COMMAND_TIMEOUT" envDefault:"120s"`
	RetryMaxAttempts    int           `env:"BRIDGE_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay      time.Duration `env:"BRIDGE_RETRY_BASE_DELAY" envDefault:"1s"`

	// Durable local storage
	DataDir          string        `env:"CHAT_STATE_DATA_DIR" envDefault:".chat-state"`
	SnapshotInterval time.Duration `env:"CHAT_STATE_SNAPSHOT_INTERVAL" envDefault:"2s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.BridgeBaseURL) == "" {
		return nil, fmt.Errorf("BRIDGE_BASE_URL is required")
	}
	if strings.TrimSpace(cfg.BridgeEventsURL) == "" {
		return nil, fmt.Errorf("BRIDGE_EVENTS_URL is required")
	}
	if cfg.RetryMaxAttempts < 1 {
		return nil, fmt.Errorf("BRIDGE_RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return nil, fmt.Errorf("CHAT_STATE_DATA_DIR is required")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
