// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package config loads layered service configuration: struct defaults,
// then an optional YAML file, then WANDERLIGHT_-prefixed environment
// variables, with later layers winning.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wanderlight/config.yaml",
	"/etc/wanderlight/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "WANDERLIGHT_CONFIG_PATH"

// envPrefix namespaces all environment overrides.
const envPrefix = "WANDERLIGHT_"

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Journal   JournalConfig   `koanf:"journal"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Catalog   CatalogConfig   `koanf:"catalog"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimit is requests per client IP per minute. Zero disables.
	RateLimit int `koanf:"rate_limit"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// RecommendConfig tunes the engine. Fields map onto recommend.Config;
// see EngineConfig.
type RecommendConfig struct {
	WeightCollaborative float64 `koanf:"weight_collaborative"`
	WeightContentBased  float64 `koanf:"weight_content_based"`
	WeightContextual    float64 `koanf:"weight_contextual"`
	WeightSerendipity   float64 `koanf:"weight_serendipity"`

	DefaultLimit     int     `koanf:"default_limit"`
	MaxLimit         int     `koanf:"max_limit"`
	DefaultDiversity float64 `koanf:"default_diversity"`
	DefaultNovelty   float64 `koanf:"default_novelty"`

	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`

	Seed int64 `koanf:"seed"`
}

// JournalConfig controls event persistence.
type JournalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// IngestConfig controls the interaction intake pipeline.
type IngestConfig struct {
	BufferSize    int64   `koanf:"buffer_size"`
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

// CatalogConfig selects the item catalog source. When URL is set the
// remote catalog is used behind a circuit breaker; otherwise SeedFile
// (optional) populates an in-memory catalog.
type CatalogConfig struct {
	URL      string `koanf:"url"`
	SeedFile string `koanf:"seed_file"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			WeightCollaborative: engine.Weights.Collaborative,
			WeightContentBased:  engine.Weights.ContentBased,
			WeightContextual:    engine.Weights.Contextual,
			WeightSerendipity:   engine.Weights.Serendipity,
			DefaultLimit:        engine.Limits.DefaultLimit,
			MaxLimit:            engine.Limits.MaxLimit,
			DefaultDiversity:    engine.Filters.DefaultDiversity,
			DefaultNovelty:      engine.Filters.DefaultNovelty,
			CacheEnabled:        engine.Cache.Enabled,
			CacheTTL:            engine.Cache.TTL,
			Seed:                engine.Seed,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "/data/wanderlight/journal",
		},
		Ingest: IngestConfig{
			BufferSize:    1024,
			RatePerSecond: 0, // unthrottled
			Burst:         16,
		},
		Catalog: CatalogConfig{
			URL:      "",
			SeedFile: "",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// WANDERLIGHT_SERVER_ADDR -> server.addr. Section names contain no
	// underscores, so only the first underscore becomes a separator.
	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := normalizeCORSOrigins(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, checking
// the env override before the default locations.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// normalizeCORSOrigins converts a comma-separated env value into the
// slice the struct expects. YAML files already provide a slice.
func normalizeCORSOrigins(k *koanf.Koanf) error {
	const path = "server.cors_origins"

	str, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	parts := strings.Split(str, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return k.Set(path, origins)
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Recommend.DefaultLimit <= 0 {
		return fmt.Errorf("recommend.default_limit must be positive")
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit must be >= recommend.default_limit")
	}
	if v := c.Recommend.DefaultDiversity; v < 0 || v > 1 {
		return fmt.Errorf("recommend.default_diversity must be in [0, 1], got %v", v)
	}
	if v := c.Recommend.DefaultNovelty; v < 0 || v > 1 {
		return fmt.Errorf("recommend.default_novelty must be in [0, 1], got %v", v)
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path must be set when journal.enabled is true")
	}
	if c.Ingest.BufferSize <= 0 {
		return fmt.Errorf("ingest.buffer_size must be positive")
	}
	if c.Catalog.URL != "" && c.Catalog.SeedFile != "" {
		return fmt.Errorf("catalog.url and catalog.seed_file are mutually exclusive")
	}
	return nil
}

// EngineConfig maps the flat recommend section onto the engine config,
// starting from engine defaults so untouched knobs keep their
// documented values.
func (c *Config) EngineConfig() recommend.Config {
	engine := *recommend.DefaultConfig()

	engine.Weights.Collaborative = c.Recommend.WeightCollaborative
	engine.Weights.ContentBased = c.Recommend.WeightContentBased
	engine.Weights.Contextual = c.Recommend.WeightContextual
	engine.Weights.Serendipity = c.Recommend.WeightSerendipity

	engine.Limits.DefaultLimit = c.Recommend.DefaultLimit
	engine.Limits.MaxLimit = c.Recommend.MaxLimit
	engine.Filters.DefaultDiversity = c.Recommend.DefaultDiversity
	engine.Filters.DefaultNovelty = c.Recommend.DefaultNovelty

	engine.Cache.Enabled = c.Recommend.CacheEnabled
	if c.Recommend.CacheTTL > 0 {
		engine.Cache.TTL = c.Recommend.CacheTTL
	}
	engine.Seed = c.Recommend.Seed

	return engine
}
