// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Campaign source kinds.
const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceMongo  = "mongo"
)

var (
	ErrInvalidPort        = errors.New("port is required")
	ErrInvalidSource      = errors.New("campaign source must be one of static, file, mongo")
	ErrMissingCatalogPath = errors.New("catalog path is required for the file source")
	ErrInvalidLoadTimeout = errors.New("load timeout must be positive")
	ErrInvalidLoadDelay   = errors.New("load delay must not be negative")
	ErrInvalidLogLevel    = errors.New("log level must be one of debug, info, warn, error")
)

// Config holds everything the server and CLI read from the environment.
type Config struct {
	Port          string `env:"PORT" envDefault:"7521"`
	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"hopefund"`

	// CampaignSource selects where the listing reads campaigns from.
	CampaignSource string `env:"CAMPAIGN_SOURCE" envDefault:"static"`
	CatalogPath    string `env:"CATALOG_PATH"`

	// LoadDelay simulates network latency on static/file sources.
	LoadDelay   time.Duration `env:"LOAD_DELAY" envDefault:"0s"`
	LoadTimeout time.Duration `env:"LOAD_TIMEOUT" envDefault:"5s"`

	// PaymentDeclineAbove makes the test processor decline larger amounts. 0 never declines.
	PaymentDeclineAbove int64 `env:"PAYMENT_DECLINE_ABOVE" envDefault:"0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return ErrInvalidPort
	}
	switch c.CampaignSource {
	case SourceStatic, SourceMongo:
	case SourceFile:
		if c.CatalogPath == "" {
			return ErrMissingCatalogPath
		}
	default:
		return ErrInvalidSource
	}
	if c.LoadTimeout <= 0 {
		return ErrInvalidLoadTimeout
	}
	if c.LoadDelay < 0 {
		return ErrInvalidLoadDelay
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrInvalidLogLevel
	}
}
