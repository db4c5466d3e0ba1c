package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Index      IndexConfig      `mapstructure:"index"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Controller ControllerConfig `mapstructure:"controller"`
	Highlight  HighlightConfig  `mapstructure:"highlight"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// IndexConfig contains search index configuration
type IndexConfig struct {
	Path      string `mapstructure:"path"` // empty means in-memory
	BatchSize int    `mapstructure:"batch_size"`
}

// StorageConfig selects the key/value store behind saved searches and history
type StorageConfig struct {
	Driver       string      `mapstructure:"driver"` // memory, badger, sqlite, redis
	Path         string      `mapstructure:"path"`
	Namespace    string      `mapstructure:"namespace"`
	HistoryLimit int         `mapstructure:"history_limit"`
	Redis        RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BackendConfig tells clients where the search API lives
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ControllerConfig contains the search controller timings
type ControllerConfig struct {
	PageSize         int           `mapstructure:"page_size"`
	QueryDebounce    time.Duration `mapstructure:"query_debounce"`
	SuggestDebounce  time.Duration `mapstructure:"suggest_debounce"`
	MinSuggestLength int           `mapstructure:"min_suggest_length"`
	SuggestionLimit  int           `mapstructure:"suggestion_limit"`
}

// HighlightConfig controls result decoration
type HighlightConfig struct {
	ContentFormat string `mapstructure:"content_format"` // text, html, markdown
	SnippetLength int    `mapstructure:"snippet_length"`
	SummaryLength int    `mapstructure:"summary_length"`
	OpenMarker    string `mapstructure:"open_marker"`
	CloseMarker   string `mapstructure:"close_marker"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// Load loads configuration from file and environment variables.
// Priority: ENV vars > config file > defaults. An explicit path overrides the
// ./configs and . lookup.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("NEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional unless one was named explicitly
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Index defaults
	v.SetDefault("index.path", "./data/search.bleve")
	v.SetDefault("index.batch_size", 100)

	// Storage defaults
	v.SetDefault("storage.driver", "badger")
	v.SetDefault("storage.path", "./data/store")
	v.SetDefault("storage.namespace", "")
	v.SetDefault("storage.history_limit", 50)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", "10s")

	// Controller defaults
	v.SetDefault("controller.page_size", 20)
	v.SetDefault("controller.query_debounce", "300ms")
	v.SetDefault("controller.suggest_debounce", "150ms")
	v.SetDefault("controller.min_suggest_length", 2)
	v.SetDefault("controller.suggestion_limit", 8)

	// Highlight defaults
	v.SetDefault("highlight.content_format", "text")
	v.SetDefault("highlight.snippet_length", 200)
	v.SetDefault("highlight.summary_length", 150)
	v.SetDefault("highlight.open_marker", "<mark>")
	v.SetDefault("highlight.close_marker", "</mark>")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_minute", 600)
	v.SetDefault("rate_limit.burst", 60)
}

func validate(cfg *Config) error {
	if cfg.Server.Mode != "debug" && cfg.Server.Mode != "release" {
		return fmt.Errorf("server.mode must be 'debug' or 'release', got: %s", cfg.Server.Mode)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}

	switch cfg.Storage.Driver {
	case "memory":
	case "badger", "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %s", cfg.Storage.Driver)
		}
	case "redis":
		if cfg.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for driver redis")
		}
	default:
		return fmt.Errorf("storage.driver must be one of: memory, badger, sqlite, redis, got: %s", cfg.Storage.Driver)
	}

	if cfg.Storage.HistoryLimit < 1 {
		return fmt.Errorf("storage.history_limit must be positive, got: %d", cfg.Storage.HistoryLimit)
	}

	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}

	if cfg.Controller.PageSize < 1 || cfg.Controller.PageSize > 100 {
		return fmt.Errorf("controller.page_size must be between 1 and 100, got: %d", cfg.Controller.PageSize)
	}
	if cfg.Controller.QueryDebounce < 0 || cfg.Controller.SuggestDebounce < 0 {
		return fmt.Errorf("controller debounce durations must not be negative")
	}
	if cfg.Controller.MinSuggestLength < 1 {
		return fmt.Errorf("controller.min_suggest_length must be at least 1, got: %d", cfg.Controller.MinSuggestLength)
	}

	switch cfg.Highlight.ContentFormat {
	case "text", "html", "markdown":
	default:
		return fmt.Errorf("highlight.content_format must be one of: text, html, markdown, got: %s", cfg.Highlight.ContentFormat)
	}
	if cfg.Highlight.SnippetLength < 1 || cfg.Highlight.SummaryLength < 1 {
		return fmt.Errorf("highlight snippet and summary lengths must be positive")
	}
	if cfg.Highlight.OpenMarker == "" || cfg.Highlight.CloseMarker == "" {
		return fmt.Errorf("highlight markers must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got: %s", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text', got: %s", cfg.Logging.Format)
	}

	if cfg.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive, got: %d", cfg.RateLimit.RequestsPerMinute)
	}

	return nil
}
