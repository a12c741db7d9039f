// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package reranking

import (
	"context"
	"math/rand"
	"sync"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Novelty re-weights the list toward items the user has not viewed.
//
// A candidate survives if the user has never viewed it, or otherwise with
// probability equal to the request's novelty level. A level of zero
// disables the filter: zero means no filtering, not maximum filtering.
type Novelty struct {
	profiles recommend.ProfileSource

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewNovelty creates the novelty filter with the given random source.
func NewNovelty(profiles recommend.ProfileSource, rng *rand.Rand) *Novelty {
	if rng == nil {
		rng = rand.New(rand.NewSource(42)) //nolint:gosec // admission draws do not need crypto entropy
	}
	return &Novelty{profiles: profiles, rng: rng}
}

// Name returns the filter identifier.
func (n *Novelty) Name() string {
	return "novelty"
}

// Apply filters already-viewed items. Level zero returns the input
// unchanged in order and membership.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (n *Novelty) Apply(_ context.Context, req recommend.Request, items []recommend.Candidate) []recommend.Candidate {
	level := req.Novelty
	if level <= 0 {
		return items
	}
	if level > 1 {
		level = 1
	}

	viewed := n.profiles.Viewed(req.UserID)

	out := make([]recommend.Candidate, 0, len(items))
	for _, c := range items {
		if _, seen := viewed[c.Item.ID]; !seen || n.roll(level) {
			out = append(out, c)
		}
	}
	return out
}

// roll admits an already-viewed item with the given probability.
func (n *Novelty) roll(p float64) bool {
	n.rngMu.Lock()
	defer n.rngMu.Unlock()
	return n.rng.Float64() < p
}
