// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 300 {
		t.Errorf("Server.RateLimit = %d, want 300", cfg.Server.RateLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Recommend.DefaultLimit != 12 || cfg.Recommend.MaxLimit != 50 {
		t.Errorf("Recommend limits = %d/%d, want 12/50", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.DefaultDiversity != 0.5 || cfg.Recommend.DefaultNovelty != 0.3 {
		t.Errorf("Recommend filter defaults = %v/%v, want 0.5/0.3",
			cfg.Recommend.DefaultDiversity, cfg.Recommend.DefaultNovelty)
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled = false, want true by default")
	}
	if cfg.Ingest.BufferSize != 1024 {
		t.Errorf("Ingest.BufferSize = %d, want 1024", cfg.Ingest.BufferSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
  rate_limit: 60
recommend:
  default_limit: 8
  max_limit: 20
journal:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 60 {
		t.Errorf("Server.RateLimit = %d, want 60", cfg.Server.RateLimit)
	}
	if cfg.Recommend.DefaultLimit != 8 || cfg.Recommend.MaxLimit != 20 {
		t.Errorf("Recommend limits = %d/%d, want 8/20", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled = true, file layer should have disabled it")
	}
	// Untouched keys keep their defaults.
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want default 15s", cfg.Server.ReadTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WANDERLIGHT_SERVER_ADDR", ":7070")
	t.Setenv("WANDERLIGHT_LOGGING_LEVEL", "debug")
	t.Setenv("WANDERLIGHT_SERVER_CORS_ORIGINS", "https://play.example, https://editor.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://play.example", "https://editor.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("WANDERLIGHT_SERVER_ADDR", ":7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, environment should win over the file", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit = -1 },
			wantErr: "rate_limit",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "zero default limit",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = 0 },
			wantErr: "default_limit",
		},
		{
			name: "max below default",
			mutate: func(c *Config) {
				c.Recommend.DefaultLimit = 20
				c.Recommend.MaxLimit = 10
			},
			wantErr: "max_limit",
		},
		{
			name:    "diversity out of range",
			mutate:  func(c *Config) { c.Recommend.DefaultDiversity = 1.5 },
			wantErr: "default_diversity",
		},
		{
			name:    "novelty out of range",
			mutate:  func(c *Config) { c.Recommend.DefaultNovelty = -0.1 },
			wantErr: "default_novelty",
		},
		{
			name:    "journal enabled without path",
			mutate:  func(c *Config) { c.Journal.Path = "" },
			wantErr: "journal.path",
		},
		{
			name:    "zero ingest buffer",
			mutate:  func(c *Config) { c.Ingest.BufferSize = 0 },
			wantErr: "buffer_size",
		},
		{
			name: "catalog url and seed file together",
			mutate: func(c *Config) {
				c.Catalog.URL = "http://catalog.internal"
				c.Catalog.SeedFile = "seed.json"
			},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate returned %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate returned %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEngineConfigMapping(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.WeightCollaborative = 0.5
	cfg.Recommend.WeightContentBased = 0.2
	cfg.Recommend.DefaultLimit = 6
	cfg.Recommend.MaxLimit = 30
	cfg.Recommend.CacheTTL = 2 * time.Minute
	cfg.Recommend.Seed = 99

	engine := cfg.EngineConfig()

	if engine.Weights.Collaborative != 0.5 || engine.Weights.ContentBased != 0.2 {
		t.Errorf("weights = %v/%v, want 0.5/0.2",
			engine.Weights.Collaborative, engine.Weights.ContentBased)
	}
	if engine.Limits.DefaultLimit != 6 || engine.Limits.MaxLimit != 30 {
		t.Errorf("limits = %d/%d, want 6/30", engine.Limits.DefaultLimit, engine.Limits.MaxLimit)
	}
	if engine.Cache.TTL != 2*time.Minute {
		t.Errorf("cache TTL = %v, want 2m", engine.Cache.TTL)
	}
	if engine.Seed != 99 {
		t.Errorf("seed = %d, want 99", engine.Seed)
	}
}

func TestEngineConfigKeepsDefaultTTLWhenUnset(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.CacheTTL = 0

	engine := cfg.EngineConfig()
	if engine.Cache.TTL <= 0 {
		t.Errorf("cache TTL = %v, want the engine default when unset", engine.Cache.TTL)
	}
}
