// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package strategies implements the scoring strategies for the hybrid
// recommendation engine.
//
// Each strategy implements the recommend.Strategy interface and can be
// registered with the engine. Strategies are read-only over the store and
// the catalog: they never mutate preference weights.
//
// # Strategy Families
//
//   - Collaborative: neighbors by preference-vector similarity
//   - Content-Based: the user's own weights plus completed-item overlap
//   - Contextual: time-of-day, session length, publication recency
//   - Serendipity: novelty rewards with randomized jitter
//
// # Determinism
//
// All strategies sort stably and break ties by encounter order, so output
// is deterministic except for the serendipity jitter, which draws from an
// injectable seeded source.
package strategies

import (
	"sort"
	"time"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// rankTruncate stable-sorts candidates by score descending and truncates
// to n. Stability keeps tie order at the original encounter order.
func rankTruncate(cands []recommend.Candidate, n int) []recommend.Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	if len(cands) > n {
		cands = cands[:n]
	}
	return cands
}

// indexItems builds an ID lookup over the candidate catalog.
func indexItems(items []recommend.Item) map[string]recommend.Item {
	idx := make(map[string]recommend.Item, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx
}

// defaultClock is the production time source. Strategies that score on
// wall-clock signals take an injectable clock so tests can pin the hour.
func defaultClock() time.Time {
	return time.Now()
}
