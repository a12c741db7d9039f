// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package catalog provides access to the artifact catalog. The catalog
// is an external collaborator of the recommendation core: the engine
// only reads it, and a lookup failure degrades to "absent" rather than
// surfacing an error into the scoring path.
//
// Two implementations are provided: an in-memory catalog (optionally
// seeded from a JSON file) and a remote HTTP client guarded by a circuit
// breaker.
package catalog

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// ErrNotFound indicates the item does not exist in the catalog.
var ErrNotFound = errors.New("item not found")

// Memory is an in-memory catalog. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	items map[string]recommend.Item
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]recommend.Item)}
}

// LoadFile creates an in-memory catalog seeded from a JSON array of
// items.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, err
	}

	var items []recommend.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	m := NewMemory()
	for _, it := range items {
		m.Upsert(it)
	}
	return m, nil
}

// Upsert adds or replaces an item.
func (m *Memory) Upsert(it recommend.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
}

// Remove deletes an item.
func (m *Memory) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

// Lookup returns the item with the given ID. Visibility does not affect
// lookup: an invisible item still exists and still feeds the preference
// model.
func (m *Memory) Lookup(_ context.Context, itemID string) (recommend.Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[itemID]
	return it, ok
}

// List returns all visible items.
func (m *Memory) List(_ context.Context) ([]recommend.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recommend.Item, 0, len(m.items))
	for _, it := range m.items {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out, nil
}
