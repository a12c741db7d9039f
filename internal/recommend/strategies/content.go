// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package strategies

import (
	"context"

	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
)

// Content-based scoring constants. Preference weights multiply into the
// score per dimension; completion-history and quality boosts are flat.
const (
	typeWeight    = 10.0
	areaWeight    = 8.0
	creatorWeight = 15.0
	tagWeight     = 5.0

	completedTypeBoost = 12.0
	completedAreaBoost = 10.0
	completedTagBoost  = 6.0

	qualityRatingBoost = 20.0
	qualityReviewBoost = 15.0
	qualityMediaBoost  = 10.0

	qualityRatingMin = 4.0
	qualityReviewMin = 5
)

// ContentBased scores catalog items against the requesting user's own
// preference weights, plus a boost for items sharing attributes with
// already-completed items and a personalization-independent quality
// boost.
//
// Unlike the other strategies, content-based does not require interaction
// history: a cold-start user can still receive quality-boosted items.
type ContentBased struct {
	store      *store.Store
	maxResults int
}

// NewContentBased creates the content-based strategy.
func NewContentBased(st *store.Store, maxResults int) *ContentBased {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &ContentBased{store: st, maxResults: maxResults}
}

// Name returns the strategy identifier.
func (c *ContentBased) Name() string {
	return "contentBased"
}

// Score ranks items by preference-weight match. Completed items are
// excluded; only items with a positive score survive.
func (c *ContentBased) Score(_ context.Context, userID string, items []recommend.Item) []recommend.Candidate {
	weights := c.store.WeightsSnapshot(userID)
	completed := c.store.CompletedSet(userID)
	hist := completionHistory(completed, indexItems(items))

	cands := make([]recommend.Candidate, 0)
	for _, it := range items {
		if _, done := completed[it.ID]; done {
			continue
		}

		score := preferenceScore(weights, it)
		if len(completed) > 0 {
			score += hist.boost(it)
		}
		score += qualityScore(it)

		if score > 0 {
			cands = append(cands, recommend.Candidate{
				Item:     it,
				Score:    score,
				Strategy: c.Name(),
			})
		}
	}

	return rankTruncate(cands, c.maxResults)
}

// preferenceScore is the weighted match of the item's attributes against
// the user's preference table.
func preferenceScore(w store.Weights, it recommend.Item) float64 {
	score := w.Types[it.Type]*typeWeight +
		w.Areas[it.Area]*areaWeight +
		w.Creators[it.Creator]*creatorWeight
	for _, tag := range it.Tags {
		score += w.Tags[tag] * tagWeight
	}
	return score
}

// qualityScore is the personalization-independent quality boost.
func qualityScore(it recommend.Item) float64 {
	score := 0.0
	if it.Rating >= qualityRatingMin {
		score += qualityRatingBoost
	}
	if it.ReviewCount >= qualityReviewMin {
		score += qualityReviewBoost
	}
	if it.MediaCount > 0 {
		score += qualityMediaBoost
	}
	return score
}

// history aggregates the attributes of the user's completed items.
type history struct {
	types map[string]struct{}
	areas map[string]struct{}
	tags  map[string]struct{}
}

// completionHistory collects types, areas, and the tag union of the
// completed items that are present in the candidate catalog. Completed
// items missing from the catalog contribute nothing.
func completionHistory(completed map[string]struct{}, idx map[string]recommend.Item) history {
	h := history{
		types: make(map[string]struct{}),
		areas: make(map[string]struct{}),
		tags:  make(map[string]struct{}),
	}
	for id := range completed {
		it, ok := idx[id]
		if !ok {
			continue
		}
		if it.Type != "" {
			h.types[it.Type] = struct{}{}
		}
		if it.Area != "" {
			h.areas[it.Area] = struct{}{}
		}
		for _, tag := range it.Tags {
			h.tags[tag] = struct{}{}
		}
	}
	return h
}

// boost rewards attribute overlap with the completed set.
func (h history) boost(it recommend.Item) float64 {
	score := 0.0
	if _, ok := h.types[it.Type]; ok {
		score += completedTypeBoost
	}
	if _, ok := h.areas[it.Area]; ok {
		score += completedAreaBoost
	}
	for _, tag := range it.Tags {
		if _, ok := h.tags[tag]; ok {
			score += completedTagBoost
		}
	}
	return score
}
