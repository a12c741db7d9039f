// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package store implements the per-user interaction log and the derived
// preference weight table. It is the leaf of the recommendation core:
// every strategy and the insights reporter read through it.
//
// Events are append-only. All derived state (weights, completed set,
// viewed sets) is folded from the event stream and recomputed from copies,
// so reads never observe a partially applied update.
//
// Locking is per-user: a single user's events fold in submission order,
// while unrelated users' updates proceed concurrently.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Store holds every user's interaction log and preference weights for the
// lifetime of the process. There is no eviction; this is a known scaling
// limit accepted for the current player population.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*userState
	logger zerolog.Logger
}

// userState is the per-user shard. Its mutex serializes that user's
// updates without blocking other users.
type userState struct {
	mu          sync.Mutex
	events      []recommend.Event
	weights     Weights
	lastUpdated time.Time
}

// New creates an empty store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(logger zerolog.Logger) *Store {
	return &Store{
		users:  make(map[string]*userState),
		logger: logger.With().Str("component", "interaction-store").Logger(),
	}
}

// Record validates the event, appends it to the user's log, and folds it
// into the user's preference weights. A lookup miss for the referenced
// item skips the weight update but still records the event; catalog and
// event log are not transactionally consistent.
//
// Returns recommend.ErrInvalidEvent for a missing item ID or unknown
// kind; well-formed input never fails.
func (s *Store) Record(ctx context.Context, ev recommend.Event, catalog recommend.Catalog) error {
	if ev.UserID == "" {
		return fmt.Errorf("%w: missing user id", recommend.ErrInvalidEvent)
	}
	if ev.ItemID == "" {
		return fmt.Errorf("%w: missing item id", recommend.ErrInvalidEvent)
	}
	if !ev.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", recommend.ErrInvalidEvent, ev.Kind)
	}
	if !ev.Feedback.Valid() {
		return fmt.Errorf("%w: unknown feedback %q", recommend.ErrInvalidEvent, ev.Feedback)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	u := s.user(ev.UserID)

	item, found := catalog.Lookup(ctx, ev.ItemID)

	u.mu.Lock()
	defer u.mu.Unlock()

	u.events = append(u.events, ev)
	u.lastUpdated = time.Now()

	if found {
		applyEvent(&u.weights, ev, item)
	} else {
		s.logger.Debug().
			Str("user_id", ev.UserID).
			Str("item_id", ev.ItemID).
			Msg("item missing from catalog, weights unchanged")
	}

	return nil
}

// Log returns a copy of the user's ordered event list. Unknown users
// yield an empty list, never an error.
func (s *Store) Log(userID string) []recommend.Event {
	u := s.peek(userID)
	if u == nil {
		return nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]recommend.Event, len(u.events))
	copy(out, u.events)
	return out
}

// EventCount returns the number of events recorded for the user.
func (s *Store) EventCount(userID string) int {
	u := s.peek(userID)
	if u == nil {
		return 0
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.events)
}

// WeightsSnapshot returns a deep copy of the user's preference weights.
// Strategies read weights only through snapshots; nothing outside Record
// mutates the stored table.
func (s *Store) WeightsSnapshot(userID string) Weights {
	u := s.peek(userID)
	if u == nil {
		return NewWeights()
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.weights.clone()
}

// CompletedSet returns the set of item IDs the user has completed.
// Every strategy excludes these from recommendation.
func (s *Store) CompletedSet(userID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, ev := range s.Log(userID) {
		if ev.Kind == recommend.KindComplete {
			out[ev.ItemID] = struct{}{}
		}
	}
	return out
}

// ViewedSet returns the set of item IDs the user has viewed.
func (s *Store) ViewedSet(userID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, ev := range s.Log(userID) {
		if ev.Kind == recommend.KindView {
			out[ev.ItemID] = struct{}{}
		}
	}
	return out
}

// LastUpdated returns when the user's profile last changed, or the zero
// time for unknown users.
func (s *Store) LastUpdated(userID string) time.Time {
	u := s.peek(userID)
	if u == nil {
		return time.Time{}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastUpdated
}

// UserIDs returns all known user IDs in sorted order. Sorting keeps the
// collaborative neighbor scan deterministic.
func (s *Store) UserIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// user returns the state shard for userID, creating it if needed.
func (s *Store) user(userID string) *userState {
	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok = s.users[userID]; ok {
		return u
	}
	u = &userState{weights: NewWeights()}
	s.users[userID] = u
	return u
}

// peek returns the state shard for userID without creating it.
func (s *Store) peek(userID string) *userState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID]
}
