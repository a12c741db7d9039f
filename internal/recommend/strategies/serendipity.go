// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package strategies

import (
	"context"
	"math/rand"
	"sync"

	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
)

// Serendipity scoring constants.
const (
	unseenTypeBoost    = 30.0
	hiddenGemBoost     = 20.0
	unseenCreatorBoost = 15.0
	unseenItemBoost    = 25.0
	jitterRange        = 10.0

	hiddenGemViewMax = 100
)

// Serendipity deliberately rewards novelty: unseen item types, unseen
// creators, under-exposed but highly rated items, plus a randomized
// jitter term.
//
// The jitter makes this strategy non-deterministic between calls, on
// purpose: serendipity must vary. Callers needing reproducibility inject
// a fixed-seed source.
type Serendipity struct {
	store      *store.Store
	maxResults int

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSerendipity creates the serendipity strategy with the given random
// source.
func NewSerendipity(st *store.Store, maxResults int, rng *rand.Rand) *Serendipity {
	if maxResults <= 0 {
		maxResults = 20
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(42)) //nolint:gosec // jitter does not need crypto entropy
	}
	return &Serendipity{store: st, maxResults: maxResults, rng: rng}
}

// Name returns the strategy identifier.
func (s *Serendipity) Name() string {
	return "serendipity"
}

// Score rewards items outside the user's viewing habits. Users with no
// interaction history get an empty result; completed items are excluded.
func (s *Serendipity) Score(_ context.Context, userID string, items []recommend.Item) []recommend.Candidate {
	log := s.store.Log(userID)
	if len(log) == 0 {
		return nil
	}

	idx := indexItems(items)
	completed := s.store.CompletedSet(userID)
	viewedItems, viewedTypes, viewedCreators := viewedSets(log, idx)

	cands := make([]recommend.Candidate, 0)
	for _, it := range items {
		if _, done := completed[it.ID]; done {
			continue
		}

		score := 0.0
		if _, ok := viewedTypes[it.Type]; !ok {
			score += unseenTypeBoost
		}
		if it.Rating >= qualityRatingMin && it.ViewCount < hiddenGemViewMax {
			score += hiddenGemBoost
		}
		if _, ok := viewedCreators[it.Creator]; !ok {
			score += unseenCreatorBoost
		}
		if _, ok := viewedItems[it.ID]; !ok {
			score += unseenItemBoost
		}
		score += s.jitter()

		if score > 0 {
			cands = append(cands, recommend.Candidate{
				Item:     it,
				Score:    score,
				Strategy: s.Name(),
			})
		}
	}

	return rankTruncate(cands, s.maxResults)
}

// jitter draws a uniform value in [0, jitterRange).
func (s *Serendipity) jitter() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64() * jitterRange
}

// viewedSets derives the previously-viewed item IDs, types, and creators
// from the user's view events. Viewed items missing from the candidate
// catalog contribute only their ID.
func viewedSets(log []recommend.Event, idx map[string]recommend.Item) (items, types, creators map[string]struct{}) {
	items = make(map[string]struct{})
	types = make(map[string]struct{})
	creators = make(map[string]struct{})

	for _, ev := range log {
		if ev.Kind != recommend.KindView {
			continue
		}
		items[ev.ItemID] = struct{}{}
		if it, ok := idx[ev.ItemID]; ok {
			if it.Type != "" {
				types[it.Type] = struct{}{}
			}
			if it.Creator != "" {
				creators[it.Creator] = struct{}{}
			}
		}
	}
	return items, types, creators
}
