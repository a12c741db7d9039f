// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package reranking implements post-scoring filters applied to the ranked
// candidate list before truncation: a diversity filter that caps repeated
// types and creators, and a novelty filter that re-weights toward items
// the user has not viewed.
//
// Both filters contain probabilistic admission clauses, so output is only
// statistically reproducible unless the injected random source is seeded.
package reranking

import (
	"context"
	"math/rand"
	"sync"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// diversityAdmitProbability is the chance a candidate failing the
// diversity check is admitted anyway, to avoid over-filtering homogeneous
// catalogs.
const diversityAdmitProbability = 0.3

// Diversity caps repeated types and creators in the ranked list.
//
// Walking the list in order, a candidate's local diversity score is the
// mean of "type not yet admitted" and "creator not yet admitted" (each 0
// or 1). The candidate survives if that score reaches the request's
// diversity level, or with a fixed admission probability regardless.
// A level of zero disables the filter entirely.
type Diversity struct {
	admitProbability float64

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewDiversity creates the diversity filter with the given random source.
func NewDiversity(rng *rand.Rand) *Diversity {
	if rng == nil {
		rng = rand.New(rand.NewSource(42)) //nolint:gosec // admission draws do not need crypto entropy
	}
	return &Diversity{admitProbability: diversityAdmitProbability, rng: rng}
}

// SetAdmitProbability overrides the probabilistic admission clause.
// A probability of zero makes the filter fully deterministic.
func (d *Diversity) SetAdmitProbability(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	d.admitProbability = p
}

// Name returns the filter identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// Apply filters the ranked list in place of order. Level zero returns the
// input unchanged in order and membership.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (d *Diversity) Apply(_ context.Context, req recommend.Request, items []recommend.Candidate) []recommend.Candidate {
	level := req.Diversity
	if level <= 0 {
		return items
	}
	if level > 1 {
		level = 1
	}

	usedTypes := make(map[string]struct{})
	usedCreators := make(map[string]struct{})

	out := make([]recommend.Candidate, 0, len(items))
	for _, c := range items {
		score := localDiversity(c.Item, usedTypes, usedCreators)
		if score >= level || d.roll() {
			out = append(out, c)
			usedTypes[c.Item.Type] = struct{}{}
			usedCreators[c.Item.Creator] = struct{}{}
		}
	}
	return out
}

// localDiversity is the mean of the two "not yet admitted" indicators.
func localDiversity(it recommend.Item, usedTypes, usedCreators map[string]struct{}) float64 {
	score := 0.0
	if _, ok := usedTypes[it.Type]; !ok {
		score += 1
	}
	if _, ok := usedCreators[it.Creator]; !ok {
		score += 1
	}
	return score / 2
}

// roll draws the probabilistic admission clause.
func (d *Diversity) roll() bool {
	if d.admitProbability <= 0 {
		return false
	}
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.Float64() < d.admitProbability
}
