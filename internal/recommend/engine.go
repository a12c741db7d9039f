// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlight/wanderlight/internal/cache"
	"github.com/wanderlight/wanderlight/internal/metrics"
)

// Engine coordinates the scoring strategies and reranking filters and
// produces final recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Registered strategies and filters
	strategies []Strategy
	filters    []Filter
	regMu      sync.RWMutex

	// Collaborators
	catalog  Catalog
	profiles ProfileSource

	// Response cache
	cache *cache.LRU[*Response]

	// Random source for request IDs (protected for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	// Counters
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog Catalog, profiles ProfileSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile source is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		strategies: make([]Strategy, 0),
		filters:    make([]Filter, 0),
		catalog:    catalog,
		profiles:   profiles,
		cache:      cache.NewLRU[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL),
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for request IDs
	}, nil
}

// RegisterStrategy adds a scoring strategy. In hybrid mode strategies
// contribute in registration order.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.regMu.Lock()
	defer e.regMu.Unlock()

	e.strategies = append(e.strategies, s)
	e.logger.Info().
		Str("strategy", s.Name()).
		Msg("registered strategy")
}

// RegisterFilter adds a reranking filter. Filters run in registration
// order after scoring and before truncation.
func (e *Engine) RegisterFilter(f Filter) {
	e.regMu.Lock()
	defer e.regMu.Unlock()

	e.filters = append(e.filters, f)
	e.logger.Info().
		Str("filter", f.Name()).
		Msg("registered filter")
}

// Recommend generates recommendations for a user.
//
// The request's Diversity and Novelty values are taken literally: zero
// disables the corresponding filter. Callers that want the configured
// defaults for unspecified options apply them before calling.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Str("algorithm", req.Algorithm.String()).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	if resp := e.tryCache(req, start); resp != nil {
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	items := e.listCatalog(ctx, logger)

	candidates, used := e.score(ctx, req, items)
	candidates = e.applyFilters(ctx, req, candidates)
	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}

	resp := &Response{
		Recommendations: candidates,
		Algorithm:       req.Algorithm.String(),
		TotalResults:    len(candidates),
		UserConfidence:  e.profiles.Confidence(req.UserID),
		Metadata: ResponseMetadata{
			RequestID:      req.RequestID,
			StrategiesUsed: used,
			LatencyMS:      time.Since(start).Milliseconds(),
			Timestamp:      time.Now(),
		},
	}

	if e.config.Cache.Enabled {
		e.cache.Add(e.cacheKey(req), resp)
	}

	logger.Debug().
		Int("candidates", len(items)).
		Int("returned", len(candidates)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// Counters returns request, cache hit/miss, and error totals.
func (e *Engine) Counters() (requests, cacheHits, cacheMisses, errors int64) {
	return e.requestCount.Load(), e.cacheHits.Load(), e.cacheMisses.Load(), e.errorCount.Load()
}

// InvalidateUser drops cached responses for a user. Called after new
// interactions are recorded so fresh events shift subsequent scores.
func (e *Engine) InvalidateUser(userID string) {
	prefix := "rec:" + userID + ":"
	e.cache.RemoveIf(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// prepareRequest applies limit defaults and generates a request ID.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = e.generateRequestID()
	}

	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}

	return req
}

// tryCache returns a cached response copy, or nil on miss.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryCache(req Request, start time.Time) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	cached, ok := e.cache.Get(e.cacheKey(req))
	if !ok {
		e.cacheMisses.Add(1)
		metrics.CacheMisses.Inc()
		return nil
	}
	e.cacheHits.Add(1)
	metrics.CacheHits.Inc()

	// Copy so callers cannot mutate the cached entry.
	items := make([]Candidate, len(cached.Recommendations))
	copy(items, cached.Recommendations)

	resp := *cached
	resp.Recommendations = items
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return &resp
}

// listCatalog fetches the visible catalog, degrading to empty on failure.
func (e *Engine) listCatalog(ctx context.Context, logger zerolog.Logger) []Item {
	items, err := e.catalog.List(ctx)
	if err != nil {
		e.errorCount.Add(1)
		logger.Warn().Err(err).Msg("catalog list failed, scoring empty catalog")
		return nil
	}
	return items
}

// score dispatches to the requested scoring path and returns the ranked
// candidates plus the names of strategies that contributed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) score(ctx context.Context, req Request, items []Item) ([]Candidate, []string) {
	strategies := e.getStrategies()

	if req.Algorithm == AlgorithmHybrid {
		return e.scoreHybrid(ctx, req, strategies, items)
	}

	name := req.Algorithm.String()
	for _, s := range strategies {
		if s.Name() == name {
			cands := e.runStrategy(ctx, req.UserID, s, items)
			used := []string{}
			if len(cands) > 0 {
				used = append(used, name)
			}
			return cands, used
		}
	}

	e.logger.Warn().Str("algorithm", name).Msg("requested strategy not registered")
	return nil, []string{}
}

// strategyResult holds one strategy's scoring output.
type strategyResult struct {
	name       string
	candidates []Candidate
}

// scoreHybrid runs all strategies concurrently and merges their scores
// with the configured weights.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreHybrid(ctx context.Context, req Request, strategies []Strategy, items []Item) ([]Candidate, []string) {
	results := make([]strategyResult, len(strategies))

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(idx int, s Strategy) {
			defer wg.Done()
			results[idx] = strategyResult{
				name:       s.Name(),
				candidates: e.runStrategy(ctx, req.UserID, s, items),
			}
		}(i, s)
	}
	wg.Wait()

	return e.combine(results)
}

// runStrategy executes a single strategy with the configured timeout.
func (e *Engine) runStrategy(ctx context.Context, userID string, s Strategy, items []Item) []Candidate {
	sctx, cancel := context.WithTimeout(ctx, e.config.Limits.StrategyTimeout)
	defer cancel()

	start := time.Now()
	cands := s.Score(sctx, userID, items)
	metrics.StrategyDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	return cands
}

// combine merges per-strategy scores into weighted hybrid candidates.
// An item surfaced by multiple strategies accumulates score x weight from
// each and records which strategies contributed. Ties keep first-encounter
// order across strategies in registration order.
func (e *Engine) combine(results []strategyResult) ([]Candidate, []string) {
	weights := e.config.Weights.ToMap()

	type merged struct {
		item         Item
		score        float64
		contributing []string
		scores       map[string]float64
		order        int
	}

	byID := make(map[string]*merged)
	encounter := make([]*merged, 0)
	used := make([]string, 0, len(results))

	for _, res := range results {
		if len(res.candidates) == 0 {
			continue
		}
		used = append(used, res.name)
		weight := weights[res.name]

		for _, c := range res.candidates {
			m, ok := byID[c.Item.ID]
			if !ok {
				m = &merged{
					item:   c.Item,
					scores: make(map[string]float64),
					order:  len(encounter),
				}
				byID[c.Item.ID] = m
				encounter = append(encounter, m)
			}
			m.score += c.Score * weight
			m.contributing = append(m.contributing, res.name)
			m.scores[res.name] = c.Score
		}
	}

	sort.SliceStable(encounter, func(i, j int) bool {
		return encounter[i].score > encounter[j].score
	})

	limit := e.config.Limits.PerStrategy
	if len(encounter) > limit {
		encounter = encounter[:limit]
	}

	out := make([]Candidate, 0, len(encounter))
	for _, m := range encounter {
		out = append(out, Candidate{
			Item:         m.item,
			Score:        m.score,
			Strategy:     AlgorithmHybrid.String(),
			Contributing: m.contributing,
			Scores:       m.scores,
		})
	}
	return out, used
}

// applyFilters runs registered filters in order.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) applyFilters(ctx context.Context, req Request, items []Candidate) []Candidate {
	e.regMu.RLock()
	filters := make([]Filter, len(e.filters))
	copy(filters, e.filters)
	e.regMu.RUnlock()

	for _, f := range filters {
		items = f.Apply(ctx, req, items)
	}
	return items
}

// getStrategies returns a snapshot of the registered strategies, so a
// concurrent RegisterStrategy cannot race with an in-flight request.
func (e *Engine) getStrategies() []Strategy {
	e.regMu.RLock()
	defer e.regMu.RUnlock()

	out := make([]Strategy, len(e.strategies))
	copy(out, e.strategies)
	return out
}

// cacheKey builds the cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	return fmt.Sprintf("rec:%s:%s:%d:%.2f:%.2f",
		req.UserID, req.Algorithm.String(), req.Limit, req.Diversity, req.Novelty)
}

// generateRequestID generates a unique request ID for tracing.
func (e *Engine) generateRequestID() string {
	e.rngMu.Lock()
	n := e.rng.Intn(10000)
	e.rngMu.Unlock()
	return fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), n)
}
