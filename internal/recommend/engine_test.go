// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/wanderlight/wanderlight/internal/metrics"
)

// stubCatalog serves a fixed item list.
type stubCatalog struct {
	items   []Item
	listErr error
}

func (s *stubCatalog) Lookup(_ context.Context, id string) (Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s *stubCatalog) List(_ context.Context) ([]Item, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

// stubProfiles returns a fixed confidence and viewed set.
type stubProfiles struct {
	confidence float64
	viewed     map[string]struct{}
}

func (s *stubProfiles) Confidence(string) float64 { return s.confidence }

func (s *stubProfiles) Viewed(string) map[string]struct{} { return s.viewed }

// stubStrategy scores a fixed candidate list.
type stubStrategy struct {
	name  string
	cands []Candidate
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Score(_ context.Context, _ string, _ []Item) []Candidate {
	return s.cands
}

// dropFilter removes a specific item ID.
type dropFilter struct {
	drop string
}

func (f *dropFilter) Name() string { return "drop" }

func (f *dropFilter) Apply(_ context.Context, _ Request, items []Candidate) []Candidate {
	out := items[:0:0]
	for _, c := range items {
		if c.Item.ID != f.drop {
			out = append(out, c)
		}
	}
	return out
}

func cand(id, strategy string, score float64) Candidate {
	return Candidate{Item: Item{ID: id}, Score: score, Strategy: strategy}
}

func newTestEngine(t *testing.T, cfg *Config, cat Catalog, profiles ProfileSource) *Engine {
	t.Helper()
	if cat == nil {
		cat = &stubCatalog{}
	}
	if profiles == nil {
		profiles = &stubProfiles{confidence: 0.1}
	}
	e, err := NewEngine(cfg, cat, profiles, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(DefaultConfig(), nil, &stubProfiles{}, zerolog.Nop()); err == nil {
		t.Error("nil catalog accepted")
	}
	if _, err := NewEngine(DefaultConfig(), &stubCatalog{}, nil, zerolog.Nop()); err == nil {
		t.Error("nil profile source accepted")
	}

	bad := DefaultConfig()
	bad.Weights.Collaborative = -1
	if _, err := NewEngine(bad, &stubCatalog{}, &stubProfiles{}, zerolog.Nop()); err == nil {
		t.Error("negative strategy weight accepted")
	}
}

func TestHybridWeightedMerge(t *testing.T) {
	cat := &stubCatalog{items: []Item{{ID: "a"}, {ID: "b"}}}
	e := newTestEngine(t, nil, cat, nil)

	e.RegisterStrategy(&stubStrategy{name: "collaborative", cands: []Candidate{
		cand("a", "collaborative", 10),
	}})
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: []Candidate{
		cand("a", "contentBased", 20),
		cand("b", "contentBased", 50),
	}})

	resp, err := e.Recommend(context.Background(), Request{UserID: "ada"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// a: 10*0.3 + 20*0.4 = 11; b: 50*0.4 = 20. b ranks first.
	if len(resp.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(resp.Recommendations))
	}
	if resp.Recommendations[0].Item.ID != "b" {
		t.Errorf("top item = %s, want b", resp.Recommendations[0].Item.ID)
	}
	if got := resp.Recommendations[0].Score; got != 20 {
		t.Errorf("b score = %v, want 20", got)
	}
	if got := resp.Recommendations[1].Score; got != 11 {
		t.Errorf("a score = %v, want 11", got)
	}

	a := resp.Recommendations[1]
	if len(a.Contributing) != 2 {
		t.Errorf("a contributing = %v, want both strategies", a.Contributing)
	}
	if a.Scores["collaborative"] != 10 || a.Scores["contentBased"] != 20 {
		t.Errorf("a per-strategy scores = %v", a.Scores)
	}
	if a.Strategy != "hybrid" {
		t.Errorf("a strategy = %q, want hybrid", a.Strategy)
	}
}

func TestSingleStrategyPath(t *testing.T) {
	e := newTestEngine(t, nil, nil, nil)
	e.RegisterStrategy(&stubStrategy{name: "serendipity", cands: []Candidate{
		cand("x", "serendipity", 30),
	}})

	resp, err := e.Recommend(context.Background(), Request{
		UserID: "ada", Algorithm: AlgorithmSerendipity,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// Single-strategy scores pass through unweighted.
	if got := resp.Recommendations[0].Score; got != 30 {
		t.Errorf("score = %v, want raw 30", got)
	}
	if resp.Algorithm != "serendipity" {
		t.Errorf("response algorithm = %q, want serendipity", resp.Algorithm)
	}
	wantUsed := []string{"serendipity"}
	if len(resp.Metadata.StrategiesUsed) != 1 || resp.Metadata.StrategiesUsed[0] != wantUsed[0] {
		t.Errorf("strategies used = %v, want %v", resp.Metadata.StrategiesUsed, wantUsed)
	}
}

func TestUnregisteredStrategyDegrades(t *testing.T) {
	e := newTestEngine(t, nil, nil, nil)

	resp, err := e.Recommend(context.Background(), Request{
		UserID: "ada", Algorithm: AlgorithmCollaborative,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("unregistered strategy returned %d results, want 0", resp.TotalResults)
	}
}

func TestLimitDefaultsAndClamp(t *testing.T) {
	items := make([]Item, 0, 60)
	cands := make([]Candidate, 0, 60)
	for i := 0; i < 60; i++ {
		id := string(rune('A' + i%26)) + string(rune('a'+i/26))
		items = append(items, Item{ID: id})
		cands = append(cands, cand(id, "contentBased", float64(60-i)))
	}

	cfg := DefaultConfig()
	cfg.Limits.PerStrategy = 100
	e := newTestEngine(t, cfg, &stubCatalog{items: items}, nil)
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: cands})

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero limit takes default", 0, cfg.Limits.DefaultLimit},
		{"explicit limit respected", 7, 7},
		{"oversized limit clamped", 500, cfg.Limits.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), Request{UserID: "ada", Limit: tt.limit})
			if err != nil {
				t.Fatalf("Recommend failed: %v", err)
			}
			if resp.TotalResults != tt.want {
				t.Errorf("TotalResults = %d, want %d", resp.TotalResults, tt.want)
			}
		})
	}
}

func TestFiltersRunAfterScoring(t *testing.T) {
	cat := &stubCatalog{items: []Item{{ID: "keep"}, {ID: "cut"}}}
	e := newTestEngine(t, nil, cat, nil)
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: []Candidate{
		cand("keep", "contentBased", 10),
		cand("cut", "contentBased", 90),
	}})
	e.RegisterFilter(&dropFilter{drop: "cut"})

	resp, err := e.Recommend(context.Background(), Request{UserID: "ada"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if resp.TotalResults != 1 || resp.Recommendations[0].Item.ID != "keep" {
		t.Errorf("filter not applied: %+v", resp.Recommendations)
	}
}

func TestCatalogFailureDegrades(t *testing.T) {
	cat := &stubCatalog{listErr: errors.New("catalog down")}
	e := newTestEngine(t, nil, cat, nil)

	resp, err := e.Recommend(context.Background(), Request{UserID: "ada"})
	if err != nil {
		t.Fatalf("Recommend should degrade, got error: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("TotalResults = %d, want 0 on catalog failure", resp.TotalResults)
	}

	_, _, _, errCount := e.Counters()
	if errCount != 1 {
		t.Errorf("error counter = %d, want 1", errCount)
	}
}

func TestResponseCacheAndInvalidation(t *testing.T) {
	cat := &stubCatalog{items: []Item{{ID: "a"}}}
	e := newTestEngine(t, nil, cat, nil)
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: []Candidate{
		cand("a", "contentBased", 10),
	}})

	req := Request{UserID: "ada"}

	first, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first request reported a cache hit")
	}

	second, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second identical request missed the cache")
	}

	// Mutating the returned copy must not affect the cache.
	second.Recommendations[0].Score = -1
	third, _ := e.Recommend(context.Background(), req)
	if third.Recommendations[0].Score == -1 {
		t.Error("cached response leaked a mutable reference")
	}

	e.InvalidateUser("ada")
	fourth, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if fourth.Metadata.CacheHit {
		t.Error("request after invalidation still hit the cache")
	}

	// Another user's entries survive invalidation.
	if _, err := e.Recommend(context.Background(), Request{UserID: "ben"}); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	e.InvalidateUser("ada")
	benAgain, _ := e.Recommend(context.Background(), Request{UserID: "ben"})
	if !benAgain.Metadata.CacheHit {
		t.Error("invalidating ada evicted ben's cached response")
	}
}

func TestCacheCountersExported(t *testing.T) {
	cat := &stubCatalog{items: []Item{{ID: "a"}}}
	e := newTestEngine(t, nil, cat, nil)
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: []Candidate{
		cand("a", "contentBased", 10),
	}})

	hitsBefore := testutil.ToFloat64(metrics.CacheHits)
	missesBefore := testutil.ToFloat64(metrics.CacheMisses)

	req := Request{UserID: "ada"}
	if _, err := e.Recommend(context.Background(), req); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if _, err := e.Recommend(context.Background(), req); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.CacheMisses) - missesBefore; got != 1 {
		t.Errorf("exported cache misses moved by %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheHits) - hitsBefore; got != 1 {
		t.Errorf("exported cache hits moved by %v, want 1", got)
	}

	if testutil.CollectAndCount(metrics.StrategyDuration) == 0 {
		t.Error("no per-strategy latency samples recorded")
	}
}

func TestConcurrentRegistrationDuringRequests(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cat := &stubCatalog{items: []Item{{ID: "a"}}}
	e := newTestEngine(t, cfg, cat, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: []Candidate{
				cand("a", "contentBased", 1),
			}})
			e.RegisterFilter(&dropFilter{drop: "none"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := e.Recommend(context.Background(), Request{UserID: "ada"}); err != nil {
				t.Errorf("Recommend failed: %v", err)
			}
		}
	}()
	wg.Wait()
}

func TestUserConfidencePropagated(t *testing.T) {
	e := newTestEngine(t, nil, nil, &stubProfiles{confidence: 0.75})

	resp, err := e.Recommend(context.Background(), Request{UserID: "ada"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if resp.UserConfidence != 0.75 {
		t.Errorf("UserConfidence = %v, want 0.75", resp.UserConfidence)
	}
}

func TestHybridTruncatesToPerStrategyLimit(t *testing.T) {
	items := make([]Item, 0, 30)
	cands := make([]Candidate, 0, 30)
	for i := 0; i < 30; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		items = append(items, Item{ID: id})
		cands = append(cands, cand(id, "contentBased", float64(30-i)))
	}

	cfg := DefaultConfig()
	cfg.Limits.MaxLimit = 100
	e := newTestEngine(t, cfg, &stubCatalog{items: items}, nil)
	e.RegisterStrategy(&stubStrategy{name: "contentBased", cands: cands})

	resp, err := e.Recommend(context.Background(), Request{UserID: "ada", Limit: 100})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if resp.TotalResults != cfg.Limits.PerStrategy {
		t.Errorf("TotalResults = %d, want merge cap %d", resp.TotalResults, cfg.Limits.PerStrategy)
	}
}
