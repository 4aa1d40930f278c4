package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"mmx/internal/mmm"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Logging LoggingConfig `envconfig:"LOGGING"`
	Model   ModelConfig   `envconfig:"MODEL"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// ModelConfig contains the modeling defaults applied when a request does
// not override them. The overfit threshold and selector bounds are fixed
// heuristics from the model's authors, not derived constants; they live
// here so deployments can tune them.
type ModelConfig struct {
	DecayRate        float64 `envconfig:"DECAY_RATE" default:"0.5"`
	Alpha            float64 `envconfig:"ALPHA" default:"10.0"`
	FullAlpha        float64 `envconfig:"FULL_ALPHA" default:"0"`
	BrandColumn      string  `envconfig:"BRAND_COLUMN" default:"NPS"`
	OverfitThreshold float64 `envconfig:"OVERFIT_THRESHOLD" default:"0.99"`
	SelectorRatio    int     `envconfig:"SELECTOR_RATIO" default:"3"`
	SelectorFloor    int     `envconfig:"SELECTOR_FLOOR" default:"4"`
}

// Load loads configuration from environment variables with MMX_ prefix
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MMX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration ranges
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return mmm.ValidateConfig(c.Model.Defaults())
}

// Defaults converts the configured model section into the modeling
// package's configuration
func (m ModelConfig) Defaults() mmm.Config {
	return mmm.Config{
		DecayRate:        m.DecayRate,
		Alpha:            m.Alpha,
		FullAlpha:        m.FullAlpha,
		BrandColumn:      m.BrandColumn,
		OverfitThreshold: m.OverfitThreshold,
		SelectorRatio:    m.SelectorRatio,
		SelectorFloor:    m.SelectorFloor,
	}
}

// Logger builds the application logger from the logging section
func (l LoggingConfig) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(l.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
