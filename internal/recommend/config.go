// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the relative contribution of each strategy in
	// hybrid mode. Weights are applied as-is, not normalized, so the
	// documented hybrid semantics (score x weight summed per item) hold
	// exactly.
	Weights StrategyWeights `json:"weights"`

	// Similarity contains parameters for collaborative neighbor search.
	Similarity SimilarityConfig `json:"similarity"`

	// Filters contains reranking filter defaults.
	Filters FilterConfig `json:"filters"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// Seed is the random seed for the serendipity jitter and
	// probabilistic filter admission. If zero, a fixed default is used.
	Seed int64 `json:"seed"`
}

// StrategyWeights defines the hybrid contribution of each strategy.
type StrategyWeights struct {
	// Collaborative is the weight for the collaborative strategy.
	Collaborative float64 `json:"collaborative"`

	// ContentBased is the weight for the content-based strategy.
	ContentBased float64 `json:"content_based"`

	// Contextual is the weight for the contextual strategy.
	Contextual float64 `json:"contextual"`

	// Serendipity is the weight for the serendipity strategy.
	Serendipity float64 `json:"serendipity"`
}

// ToMap returns the weights keyed by strategy name.
func (w StrategyWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"collaborative": w.Collaborative,
		"contentBased":  w.ContentBased,
		"contextual":    w.Contextual,
		"serendipity":   w.Serendipity,
	}
}

// SimilarityConfig contains parameters for collaborative neighbor search.
type SimilarityConfig struct {
	// Threshold is the minimum similarity for a user to count as a
	// neighbor. Default: 0.3.
	Threshold float64 `json:"threshold"`

	// MaxNeighbors caps how many similar users are considered.
	// Default: 10.
	MaxNeighbors int `json:"max_neighbors"`
}

// FilterConfig contains reranking filter defaults.
type FilterConfig struct {
	// DefaultDiversity is the diversity level applied when the request
	// does not specify one. Default: 0.5.
	DefaultDiversity float64 `json:"default_diversity"`

	// DefaultNovelty is the novelty level applied when the request does
	// not specify one. Default: 0.3.
	DefaultNovelty float64 `json:"default_novelty"`

	// DiversityAdmitProbability is the chance a candidate failing the
	// diversity check is admitted anyway, to avoid over-filtering.
	// Default: 0.3.
	DiversityAdmitProbability float64 `json:"diversity_admit_probability"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the default number of recommendations to return.
	// Default: 12.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the maximum allowed result size. Default: 50.
	MaxLimit int `json:"max_limit"`

	// PerStrategy caps how many candidates each strategy returns.
	// Default: 20.
	PerStrategy int `json:"per_strategy"`

	// StrategyTimeout bounds a single strategy's scoring pass.
	// Default: 2s.
	StrategyTimeout time.Duration `json:"strategy_timeout"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether response caching is active. Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live. Default: 1m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 4096.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: StrategyWeights{
			Collaborative: 0.3,
			ContentBased:  0.4,
			Contextual:    0.2,
			Serendipity:   0.1,
		},
		Similarity: SimilarityConfig{
			Threshold:    0.3,
			MaxNeighbors: 10,
		},
		Filters: FilterConfig{
			DefaultDiversity:          0.5,
			DefaultNovelty:            0.3,
			DiversityAdmitProbability: 0.3,
		},
		Limits: LimitsConfig{
			DefaultLimit:    12,
			MaxLimit:        50,
			PerStrategy:     20,
			StrategyTimeout: 2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        time.Minute,
			MaxEntries: 4096,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Collaborative < 0 || c.Weights.ContentBased < 0 ||
		c.Weights.Contextual < 0 || c.Weights.Serendipity < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}

	if c.Similarity.Threshold < 0 {
		return fmt.Errorf("similarity.threshold must be non-negative, got %f", c.Similarity.Threshold)
	}
	if c.Similarity.MaxNeighbors < 1 {
		return fmt.Errorf("similarity.max_neighbors must be positive, got %d", c.Similarity.MaxNeighbors)
	}

	if c.Filters.DefaultDiversity < 0 || c.Filters.DefaultDiversity > 1 {
		return fmt.Errorf("filters.default_diversity must be in [0, 1], got %f", c.Filters.DefaultDiversity)
	}
	if c.Filters.DefaultNovelty < 0 || c.Filters.DefaultNovelty > 1 {
		return fmt.Errorf("filters.default_novelty must be in [0, 1], got %f", c.Filters.DefaultNovelty)
	}
	if c.Filters.DiversityAdmitProbability < 0 || c.Filters.DiversityAdmitProbability > 1 {
		return fmt.Errorf("filters.diversity_admit_probability must be in [0, 1], got %f", c.Filters.DiversityAdmitProbability)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.PerStrategy < 1 {
		return fmt.Errorf("limits.per_strategy must be positive, got %d", c.Limits.PerStrategy)
	}
	if c.Limits.StrategyTimeout <= 0 {
		return fmt.Errorf("limits.strategy_timeout must be positive, got %v", c.Limits.StrategyTimeout)
	}

	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy: all nested structs contain only value types.
	out := *c
	return &out
}
