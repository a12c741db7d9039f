// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package insights provides read-only aggregation over the interaction
// store: confidence scores, top preferences, and behavioral metrics.
// Reports are derived, never authoritative; recomputing them is safe at
// any time and has no side effects.
package insights

import (
	"sort"
	"time"

	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
)

// coldStartConfidence is reported for users with no interaction history.
const coldStartConfidence = 0.1

// topPreferences is how many entries each preference dimension reports.
const topPreferences = 5

// Reporter aggregates profile and insight reports from the store.
// It also implements recommend.ProfileSource for the engine and the
// novelty filter.
type Reporter struct {
	store *store.Store
}

// NewReporter creates a reporter over the given store.
func NewReporter(st *store.Store) *Reporter {
	return &Reporter{store: st}
}

// PreferenceEntry is one weighted preference.
type PreferenceEntry struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// ProfileReport is the response of the profile operation.
type ProfileReport struct {
	Preferences PreferenceBreakdown `json:"preferences"`
	Behavior    BehaviorReport      `json:"behavior"`
	Learning    LearningReport      `json:"learning"`
}

// PreferenceBreakdown holds the top preferences per dimension, sorted
// descending by weight.
type PreferenceBreakdown struct {
	Types    []PreferenceEntry `json:"types"`
	Areas    []PreferenceEntry `json:"areas"`
	Creators []PreferenceEntry `json:"creators"`
	Tags     []PreferenceEntry `json:"tags"`
}

// BehaviorReport holds behavioral ratios over the event log.
type BehaviorReport struct {
	// ExplorationTendency is distinct items over total events.
	ExplorationTendency float64 `json:"exploration_tendency"`

	// CompletionRate is complete events over total events.
	CompletionRate float64 `json:"completion_rate"`

	// SocialEngagement is comment and share events over total events.
	SocialEngagement float64 `json:"social_engagement"`

	// CreativityRate is create and remix events over total events.
	CreativityRate float64 `json:"creativity_rate"`
}

// LearningReport describes how much the engine has learned about a user.
type LearningReport struct {
	TotalEvents int       `json:"total_events"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated"`
}

// InsightsReport is the response of the insights operation.
type InsightsReport struct {
	TotalInteractions int               `json:"total_interactions"`
	FavoriteTypes     []PreferenceEntry `json:"favorite_types"`
	FavoriteAreas     []PreferenceEntry `json:"favorite_areas"`
	FavoriteCreators  []PreferenceEntry `json:"favorite_creators"`
	InteractionTrends TrendsReport      `json:"interaction_trends"`

	// RecommendationsAccuracy is, per strategy, the fraction of events
	// attributed to that strategy that carried positive signal.
	RecommendationsAccuracy map[string]float64 `json:"recommendations_accuracy"`
}

// TrendsReport buckets interaction counts by kind and by recency.
type TrendsReport struct {
	ByKind    map[string]int `json:"by_kind"`
	LastWeek  int            `json:"last_week"`
	LastMonth int            `json:"last_month"`
	AllTime   int            `json:"all_time"`
}

// Confidence returns min(1, positiveRatio*0.7 + min(total/100, 1)*0.3),
// or the cold-start default for users with no events.
func (r *Reporter) Confidence(userID string) float64 {
	log := r.store.Log(userID)
	if len(log) == 0 {
		return coldStartConfidence
	}

	positives := 0
	for _, ev := range log {
		if ev.Positive() {
			positives++
		}
	}

	total := float64(len(log))
	positiveRatio := float64(positives) / total
	volume := total / 100
	if volume > 1 {
		volume = 1
	}

	confidence := positiveRatio*0.7 + volume*0.3
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// Viewed returns the set of item IDs the user has viewed.
func (r *Reporter) Viewed(userID string) map[string]struct{} {
	return r.store.ViewedSet(userID)
}

// Profile builds the profile report for a user. Unknown users yield an
// empty report with cold-start confidence, never an error.
func (r *Reporter) Profile(userID string) ProfileReport {
	log := r.store.Log(userID)
	weights := r.store.WeightsSnapshot(userID)

	return ProfileReport{
		Preferences: PreferenceBreakdown{
			Types:    topEntries(weights.Types),
			Areas:    topEntries(weights.Areas),
			Creators: topEntries(weights.Creators),
			Tags:     topEntries(weights.Tags),
		},
		Behavior: behavior(log),
		Learning: LearningReport{
			TotalEvents: len(log),
			Confidence:  r.Confidence(userID),
			LastUpdated: r.store.LastUpdated(userID),
		},
	}
}

// Insights builds the insights report for a user.
func (r *Reporter) Insights(userID string) InsightsReport {
	log := r.store.Log(userID)
	weights := r.store.WeightsSnapshot(userID)

	return InsightsReport{
		TotalInteractions:       len(log),
		FavoriteTypes:           topEntries(weights.Types),
		FavoriteAreas:           topEntries(weights.Areas),
		FavoriteCreators:        topEntries(weights.Creators),
		InteractionTrends:       trends(log, time.Now()),
		RecommendationsAccuracy: accuracy(log),
	}
}

// topEntries returns up to topPreferences entries sorted by weight
// descending, keys ascending on ties for determinism.
func topEntries(dim map[string]float64) []PreferenceEntry {
	entries := make([]PreferenceEntry, 0, len(dim))
	for key, weight := range dim {
		entries = append(entries, PreferenceEntry{Key: key, Weight: weight})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Key < entries[j].Key
	})

	if len(entries) > topPreferences {
		entries = entries[:topPreferences]
	}
	return entries
}

// behavior computes the behavioral ratios over the event log.
func behavior(log []recommend.Event) BehaviorReport {
	if len(log) == 0 {
		return BehaviorReport{}
	}

	distinct := make(map[string]struct{}, len(log))
	completes, social, creative := 0, 0, 0
	for _, ev := range log {
		distinct[ev.ItemID] = struct{}{}
		switch ev.Kind {
		case recommend.KindComplete:
			completes++
		case recommend.KindComment, recommend.KindShare:
			social++
		case recommend.KindCreate, recommend.KindRemix:
			creative++
		case recommend.KindView, recommend.KindRate:
		}
	}

	total := float64(len(log))
	return BehaviorReport{
		ExplorationTendency: float64(len(distinct)) / total,
		CompletionRate:      float64(completes) / total,
		SocialEngagement:    float64(social) / total,
		CreativityRate:      float64(creative) / total,
	}
}

// trends buckets interactions by kind and recency.
func trends(log []recommend.Event, now time.Time) TrendsReport {
	t := TrendsReport{
		ByKind:  make(map[string]int),
		AllTime: len(log),
	}

	weekCutoff := now.Add(-7 * 24 * time.Hour)
	monthCutoff := now.Add(-30 * 24 * time.Hour)

	for _, ev := range log {
		t.ByKind[string(ev.Kind)]++
		if ev.Timestamp.After(weekCutoff) {
			t.LastWeek++
		}
		if ev.Timestamp.After(monthCutoff) {
			t.LastMonth++
		}
	}
	return t
}

// accuracy computes, per strategy, the fraction of strategy-attributed
// events with positive signal.
func accuracy(log []recommend.Event) map[string]float64 {
	attributed := make(map[string]int)
	positive := make(map[string]int)

	for _, ev := range log {
		if ev.StrategyUsed == "" {
			continue
		}
		attributed[ev.StrategyUsed]++
		if ev.Positive() {
			positive[ev.StrategyUsed]++
		}
	}

	out := make(map[string]float64, len(attributed))
	for strategy, count := range attributed {
		out[strategy] = float64(positive[strategy]) / float64(count)
	}
	return out
}
