// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package strategies

import (
	"context"
	"time"

	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
)

// Contextual scoring constants.
const (
	timeOfDayBoost = 15.0

	longSessionXPBoost      = 10.0
	shortSessionRatingBoost = 15.0
	longSessionXPMax        = 20
	longSessionEventMin     = 10
	sessionWindow           = 30 * time.Minute

	freshWeekBoost  = 20.0
	freshMonthBoost = 10.0
)

// Contextual scores items using time-of-day, session-length, and
// publication-recency signals, independent of long-term preference.
type Contextual struct {
	store      *store.Store
	maxResults int
	clock      func() time.Time
}

// NewContextual creates the contextual strategy.
func NewContextual(st *store.Store, maxResults int) *Contextual {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Contextual{store: st, maxResults: maxResults, clock: defaultClock}
}

// SetClock overrides the time source. Intended for tests.
func (c *Contextual) SetClock(clock func() time.Time) {
	c.clock = clock
}

// Name returns the strategy identifier.
func (c *Contextual) Name() string {
	return "contextual"
}

// Score ranks items by contextual fit. Users with no interaction history
// get an empty result; completed items are excluded.
func (c *Contextual) Score(_ context.Context, userID string, items []recommend.Item) []recommend.Candidate {
	log := c.store.Log(userID)
	if len(log) == 0 {
		return nil
	}

	now := c.clock()
	completed := c.store.CompletedSet(userID)
	longSession := sessionEventCount(log, now) > longSessionEventMin
	favored := favoredTypes(now.Hour())

	cands := make([]recommend.Candidate, 0)
	for _, it := range items {
		if _, done := completed[it.ID]; done {
			continue
		}

		score := 0.0
		if _, ok := favored[it.Type]; ok {
			score += timeOfDayBoost
		}
		if longSession {
			if it.XPCost <= longSessionXPMax {
				score += longSessionXPBoost
			}
		} else if it.Rating >= qualityRatingMin {
			score += shortSessionRatingBoost
		}
		score += freshnessBoost(now.Sub(it.CreatedAt))

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

// favoredTypes maps the hour of day to boosted artifact types: mornings
// favor stories and puzzles, evenings favor games and music.
func favoredTypes(hour int) map[string]struct{} {
	switch {
	case hour >= 6 && hour < 12:
		return map[string]struct{}{"story": {}, "puzzle": {}}
	case hour >= 18 && hour <= 22:
		return map[string]struct{}{"game": {}, "music": {}}
	default:
		return nil
	}
}

// sessionEventCount counts events inside the current session window.
func sessionEventCount(log []recommend.Event, now time.Time) int {
	cutoff := now.Add(-sessionWindow)
	count := 0
	for _, ev := range log {
		if ev.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// freshnessBoost rewards recently published artifacts.
func freshnessBoost(age time.Duration) float64 {
	switch {
	case age <= 7*24*time.Hour:
		return freshWeekBoost
	case age <= 30*24*time.Hour:
		return freshMonthBoost
	default:
		return 0
	}
}
