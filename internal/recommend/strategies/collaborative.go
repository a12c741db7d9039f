// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package strategies

import (
	"context"
	"sort"
	"time"

	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
)

// Collaborative scoring constants.
const (
	// basePositive is the score for an item a similar user reacted to
	// positively.
	basePositive = 10.0

	// baseNegative is the score for a negative reaction. The scan only
	// visits positive events, so this branch is deliberately inert;
	// negative collaborative signal is not used for down-ranking.
	baseNegative = 2.0

	recencyBonusWeek  = 5.0
	recencyBonusMonth = 2.0

	activityBonusHigh     = 3.0
	activityBonusMed      = 2.0
	activityThresholdHigh = 50
	activityThresholdMed  = 20
)

// Collaborative finds users with similar preference vectors and surfaces
// items they reacted to positively.
type Collaborative struct {
	store      *store.Store
	threshold  float64
	maxUsers   int
	maxResults int
	clock      func() time.Time
}

// NewCollaborative creates the collaborative strategy.
func NewCollaborative(st *store.Store, cfg recommend.SimilarityConfig, maxResults int) *Collaborative {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.3
	}
	if cfg.MaxNeighbors <= 0 {
		cfg.MaxNeighbors = 10
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Collaborative{
		store:      st,
		threshold:  cfg.Threshold,
		maxUsers:   cfg.MaxNeighbors,
		maxResults: maxResults,
		clock:      defaultClock,
	}
}

// SetClock overrides the time source. Intended for tests.
func (c *Collaborative) SetClock(clock func() time.Time) {
	c.clock = clock
}

// Name returns the strategy identifier.
func (c *Collaborative) Name() string {
	return "collaborative"
}

// Score surfaces items that similar users reacted to positively. Users
// with no interaction history get an empty result.
func (c *Collaborative) Score(_ context.Context, userID string, items []recommend.Item) []recommend.Candidate {
	if c.store.EventCount(userID) == 0 {
		return nil
	}

	neighbors := c.similarUsers(userID)
	if len(neighbors) == 0 {
		return nil
	}

	idx := indexItems(items)
	completed := c.store.CompletedSet(userID)
	now := c.clock()

	collected := make(map[string]struct{})
	cands := make([]recommend.Candidate, 0)

	for _, n := range neighbors {
		events := c.store.Log(n.userID)
		activity := activityBonus(len(events))

		for _, ev := range events {
			if !ev.Positive() {
				continue
			}
			item, ok := idx[ev.ItemID]
			if !ok {
				continue
			}
			if _, done := completed[ev.ItemID]; done {
				continue
			}
			if _, seen := collected[ev.ItemID]; seen {
				continue
			}

			collected[ev.ItemID] = struct{}{}
			cands = append(cands, recommend.Candidate{
				Item:     item,
				Score:    basePositive + recencyBonus(now.Sub(ev.Timestamp)) + activity,
				Strategy: c.Name(),
			})
		}
	}

	return rankTruncate(cands, c.maxResults)
}

// neighbor pairs a user with their similarity to the requester.
type neighbor struct {
	userID     string
	similarity float64
}

// similarUsers returns up to maxUsers neighbors above the similarity
// threshold, most similar first. The scan walks user IDs in sorted order
// and sorts stably, so tie order is deterministic.
func (c *Collaborative) similarUsers(userID string) []neighbor {
	mine := c.store.WeightsSnapshot(userID)

	neighbors := make([]neighbor, 0)
	for _, other := range c.store.UserIDs() {
		if other == userID || c.store.EventCount(other) == 0 {
			continue
		}

		sim := similarity(mine, c.store.WeightsSnapshot(other))
		if sim > c.threshold {
			neighbors = append(neighbors, neighbor{userID: other, similarity: sim})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	if len(neighbors) > c.maxUsers {
		neighbors = neighbors[:c.maxUsers]
	}
	return neighbors
}

// similarity is the mean, over the type, area, and creator dimensions, of
// the summed minimum weight across the union of keys. Tags are not part
// of similarity; they only feed content-based scoring.
func similarity(a, b store.Weights) float64 {
	return (dimOverlap(a.Types, b.Types) +
		dimOverlap(a.Areas, b.Areas) +
		dimOverlap(a.Creators, b.Creators)) / 3.0
}

// dimOverlap sums min(a[key], b[key]) over the union of keys. Keys absent
// from either side contribute zero.
func dimOverlap(a, b map[string]float64) float64 {
	sum := 0.0
	for key, wa := range a {
		if wb, ok := b[key]; ok {
			if wa < wb {
				sum += wa
			} else {
				sum += wb
			}
		}
	}
	return sum
}

// recencyBonus rewards recent neighbor activity.
func recencyBonus(age time.Duration) float64 {
	switch {
	case age <= 7*24*time.Hour:
		return recencyBonusWeek
	case age <= 30*24*time.Hour:
		return recencyBonusMonth
	default:
		return 0
	}
}

// activityBonus rewards highly active neighbors.
func activityBonus(events int) float64 {
	switch {
	case events > activityThresholdHigh:
		return activityBonusHigh
	case events > activityThresholdMed:
		return activityBonusMed
	default:
		return 0
	}
}
