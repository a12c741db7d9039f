// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

func TestContextualColdStart(t *testing.T) {
	st := newStore()
	c := NewContextual(st, 20)

	got := c.Score(context.Background(), "nobody", []recommend.Item{{ID: "x", Rating: 5}})
	if len(got) != 0 {
		t.Errorf("cold-start user got %d candidates, want 0", len(got))
	}
}

func TestContextualTimeOfDayBoost(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		boosted []string
	}{
		{"morning favors stories and puzzles", 9, []string{"story", "puzzle"}},
		{"evening favors games and music", 19, []string{"game", "music"}},
		{"evening boundary inclusive", 22, []string{"game", "music"}},
		{"afternoon favors nothing", 14, nil},
		{"early morning favors nothing", 5, nil},
	}

	cat := catalogOf(
		recommend.Item{ID: "tale", Type: "story", CreatedAt: fixedNow.AddDate(-1, 0, 0)},
		recommend.Item{ID: "maze", Type: "puzzle", CreatedAt: fixedNow.AddDate(-1, 0, 0)},
		recommend.Item{ID: "reef", Type: "game", CreatedAt: fixedNow.AddDate(-1, 0, 0)},
		recommend.Item{ID: "hum", Type: "music", CreatedAt: fixedNow.AddDate(-1, 0, 0)},
	)
	typeOf := map[string]string{"tale": "story", "maze": "puzzle", "reef": "game", "hum": "music"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStore()
			now := time.Date(2026, 3, 14, tt.hour, 30, 0, 0, time.UTC)

			// A lone stale event: history exists, but the session is
			// short and nothing qualifies for the rating boost.
			record(t, st, cat, recommend.Event{
				UserID: "ada", ItemID: "tale",
				Kind: recommend.KindView, Timestamp: now.Add(-48 * time.Hour),
			})

			c := NewContextual(st, 20)
			c.SetClock(func() time.Time { return now })

			scores := candidateScores(c.Score(context.Background(), "ada", itemsOf(cat)))

			boosted := make(map[string]struct{})
			for _, typ := range tt.boosted {
				boosted[typ] = struct{}{}
			}
			for id, typ := range typeOf {
				_, want := boosted[typ]
				_, got := scores[id]
				if got != want {
					t.Errorf("item %s (type %s): boosted = %v, want %v", id, typ, got, want)
				}
			}
		})
	}
}

func TestContextualSessionLength(t *testing.T) {
	cat := catalogOf(
		recommend.Item{ID: "light", Type: "craft", XPCost: 10, CreatedAt: fixedNow.AddDate(-1, 0, 0)},
		recommend.Item{ID: "heavy", Type: "craft", XPCost: 80, Rating: 4.5, CreatedAt: fixedNow.AddDate(-1, 0, 0)},
	)

	t.Run("long session favors low-cost items", func(t *testing.T) {
		st := newStore()
		// 11 events inside the 30-minute window crosses the long-session
		// threshold.
		for i := 0; i < 11; i++ {
			record(t, st, cat, recommend.Event{
				UserID: "ada", ItemID: "light",
				Kind: recommend.KindView, Timestamp: fixedNow.Add(-time.Minute),
			})
		}

		c := NewContextual(st, 20)
		c.SetClock(func() time.Time { return fixedNow })

		scores := candidateScores(c.Score(context.Background(), "ada", itemsOf(cat)))
		if got, want := scores["light"], longSessionXPBoost; got != want {
			t.Errorf("light score = %v, want %v", got, want)
		}
		if _, ok := scores["heavy"]; ok {
			t.Error("high-cost item boosted during a long session")
		}
	})

	t.Run("short session favors highly rated items", func(t *testing.T) {
		st := newStore()
		record(t, st, cat, recommend.Event{
			UserID: "ada", ItemID: "light",
			Kind: recommend.KindView, Timestamp: fixedNow.Add(-2 * time.Hour),
		})

		c := NewContextual(st, 20)
		c.SetClock(func() time.Time { return fixedNow })

		scores := candidateScores(c.Score(context.Background(), "ada", itemsOf(cat)))
		if got, want := scores["heavy"], shortSessionRatingBoost; got != want {
			t.Errorf("heavy score = %v, want %v", got, want)
		}
		if _, ok := scores["light"]; ok {
			t.Error("unrated item boosted during a short session")
		}
	})
}

func TestFreshnessBoost(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"published this week", 2 * 24 * time.Hour, 20},
		{"week boundary", 7 * 24 * time.Hour, 20},
		{"published this month", 15 * 24 * time.Hour, 10},
		{"old", 90 * 24 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := freshnessBoost(tt.age); got != tt.want {
				t.Errorf("freshnessBoost(%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestContextualExcludesCompleted(t *testing.T) {
	cat := catalogOf(
		recommend.Item{ID: "fresh", Type: "craft", CreatedAt: fixedNow.Add(-24 * time.Hour)},
	)
	st := newStore()
	record(t, st, cat, recommend.Event{UserID: "ada", ItemID: "fresh", Kind: recommend.KindComplete})

	c := NewContextual(st, 20)
	c.SetClock(func() time.Time { return fixedNow })

	if got := c.Score(context.Background(), "ada", itemsOf(cat)); len(got) != 0 {
		t.Errorf("completed item surfaced: %d candidates", len(got))
	}
}
