// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package recommend implements a hybrid recommendation engine for game artifacts.
//
// # Architecture
//
// The engine learns a per-user taste profile from interaction events and
// scores the artifact catalog with four independent strategies:
//
//   - Collaborative: surfaces items that users with similar preference
//     vectors reacted to positively
//   - Content-Based: matches items against the user's own preference
//     weights plus attributes shared with completed items
//   - Contextual: time-of-day, session-length, and publication-recency
//     signals independent of long-term preference
//   - Serendipity: deliberately rewards novelty with a randomized jitter
//
// Strategy scores are merged by the hybrid combiner with fixed weights,
// then post-processed by diversity and novelty filters before the list is
// truncated to the requested size.
//
// # Design Principles
//
//   - Injectable randomness: serendipity jitter and probabilistic filter
//     admission draw from a seedable source so tests can assert exact
//     membership
//   - No panics on empty input: an unknown user yields empty history and
//     default confidence, never an error
//   - Completed items are never re-recommended, by every strategy and by
//     the combiner
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, catalog, logger)
//	engine.RegisterStrategy(strategies.NewContentBased(st, 20))
//	engine.RegisterFilter(reranking.NewDiversity(rng))
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "u1"})
//
// The package has no dependencies on other internal packages. Interfaces
// (Catalog, Strategy, Filter, ProfileSource) keep the store, strategies,
// and reranking layers decoupled without circular imports.
package recommend
