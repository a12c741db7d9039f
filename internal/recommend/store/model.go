// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package store

import "github.com/wanderlight/wanderlight/internal/recommend"

// Preference model constants. A completed item reinforces at 1.5x the
// plain positive delta; negative feedback decays by 0.5 and floors at 0.
const (
	positiveDelta = 1.0
	completeDelta = 1.5
	negativeDecay = 0.5
	minWeight     = 0.0
)

// Weights is a user's preference table: four independent mappings from
// attribute value to a non-negative weight.
type Weights struct {
	Types    map[string]float64 `json:"types"`
	Areas    map[string]float64 `json:"areas"`
	Creators map[string]float64 `json:"creators"`
	Tags     map[string]float64 `json:"tags"`
}

// NewWeights returns an empty weight table.
func NewWeights() Weights {
	return Weights{
		Types:    make(map[string]float64),
		Areas:    make(map[string]float64),
		Creators: make(map[string]float64),
		Tags:     make(map[string]float64),
	}
}

// clone returns a deep copy.
func (w Weights) clone() Weights {
	out := Weights{
		Types:    make(map[string]float64, len(w.Types)),
		Areas:    make(map[string]float64, len(w.Areas)),
		Creators: make(map[string]float64, len(w.Creators)),
		Tags:     make(map[string]float64, len(w.Tags)),
	}
	for k, v := range w.Types {
		out.Types[k] = v
	}
	for k, v := range w.Areas {
		out.Areas[k] = v
	}
	for k, v := range w.Creators {
		out.Creators[k] = v
	}
	for k, v := range w.Tags {
		out.Tags[k] = v
	}
	return out
}

// applyEvent folds one event into the weight table using the referenced
// item's attributes. Replaying the same event twice double-counts on
// purpose: the same action taken twice should weigh more.
func applyEvent(w *Weights, ev recommend.Event, item recommend.Item) {
	switch {
	case ev.Positive():
		delta := positiveDelta
		if ev.Kind == recommend.KindComplete {
			delta = completeDelta
		}
		adjust(w, item, delta)
	case ev.Negative():
		decay(w, item)
	}
}

// adjust raises the weight of each of the item's attributes by delta.
func adjust(w *Weights, item recommend.Item, delta float64) {
	if item.Type != "" {
		w.Types[item.Type] += delta
	}
	if item.Area != "" {
		w.Areas[item.Area] += delta
	}
	if item.Creator != "" {
		w.Creators[item.Creator] += delta
	}
	for _, tag := range item.Tags {
		w.Tags[tag] += delta
	}
}

// decay lowers the weight of each of the item's attributes, flooring at
// zero so weights never go negative.
func decay(w *Weights, item recommend.Item) {
	if item.Type != "" {
		w.Types[item.Type] = floored(w.Types[item.Type] - negativeDecay)
	}
	if item.Area != "" {
		w.Areas[item.Area] = floored(w.Areas[item.Area] - negativeDecay)
	}
	if item.Creator != "" {
		w.Creators[item.Creator] = floored(w.Creators[item.Creator] - negativeDecay)
	}
	for _, tag := range item.Tags {
		w.Tags[tag] = floored(w.Tags[tag] - negativeDecay)
	}
}

func floored(v float64) float64 {
	if v < minWeight {
		return minWeight
	}
	return v
}
