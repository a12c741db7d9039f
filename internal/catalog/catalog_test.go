// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

func TestMemoryLookup(t *testing.T) {
	m := NewMemory()
	m.Upsert(recommend.Item{ID: "echo", Type: "story", Visible: true})

	it, ok := m.Lookup(context.Background(), "echo")
	if !ok || it.Type != "story" {
		t.Errorf("Lookup(echo) = %+v, %v; want story item, true", it, ok)
	}
	if _, ok := m.Lookup(context.Background(), "ghost"); ok {
		t.Error("Lookup(ghost) reported an absent item as present")
	}

	m.Remove("echo")
	if _, ok := m.Lookup(context.Background(), "echo"); ok {
		t.Error("removed item still present")
	}
}

func TestMemoryListFiltersInvisible(t *testing.T) {
	m := NewMemory()
	m.Upsert(recommend.Item{ID: "shown", Visible: true})
	m.Upsert(recommend.Item{ID: "hidden", Visible: false})

	items, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != "shown" {
		t.Errorf("List = %+v, want only the visible item", items)
	}

	// Invisible items are still addressable by ID.
	if _, ok := m.Lookup(context.Background(), "hidden"); !ok {
		t.Error("Lookup(hidden) = false, invisible items must remain addressable")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `[
		{"id":"echo","type":"story","area":"forest","visible":true},
		{"id":"maze","type":"puzzle","area":"caves","visible":true}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	it, ok := m.Lookup(context.Background(), "maze")
	if !ok || it.Area != "caves" {
		t.Errorf("Lookup(maze) = %+v, %v; want caves item, true", it, ok)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadFile on a missing file returned nil error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile on malformed JSON returned nil error")
	}
}

func TestHTTPClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/artifacts/echo":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"echo","type":"story","visible":true}`))
		case "/api/artifacts/ghost":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)

	it, err := c.Lookup(context.Background(), "echo")
	if err != nil || it.Type != "story" {
		t.Errorf("Lookup(echo) = %+v, %v; want story item, nil", it, err)
	}

	if _, err := c.Lookup(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(ghost) error = %v, want ErrNotFound", err)
	}

	if _, err := c.Lookup(context.Background(), "broken"); err == nil {
		t.Error("Lookup on a 500 response returned nil error")
	}
}

func TestHTTPClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/artifacts" || r.URL.Query().Get("visible") != "true" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"echo"},{"id":"maze"}]`))
	}))
	defer srv.Close()

	items, err := NewHTTPClient(srv.URL, time.Second).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("List returned %d items, want 2", len(items))
	}
}

// flakyRemote fails every call until healed.
type flakyRemote struct {
	healthy bool
	calls   int
}

func (f *flakyRemote) Lookup(_ context.Context, itemID string) (recommend.Item, error) {
	f.calls++
	if !f.healthy {
		return recommend.Item{}, errors.New("remote down")
	}
	if itemID == "ghost" {
		return recommend.Item{}, ErrNotFound
	}
	return recommend.Item{ID: itemID, Visible: true}, nil
}

func (f *flakyRemote) List(_ context.Context) ([]recommend.Item, error) {
	f.calls++
	if !f.healthy {
		return nil, errors.New("remote down")
	}
	return []recommend.Item{{ID: "echo", Visible: true}}, nil
}

func TestBreakerDegradesLookup(t *testing.T) {
	remote := &flakyRemote{}
	b := NewBreaker(remote, zerolog.Nop())

	if _, ok := b.Lookup(context.Background(), "echo"); ok {
		t.Error("Lookup against a failing remote reported ok")
	}

	remote.healthy = true
	it, ok := b.Lookup(context.Background(), "echo")
	if !ok || it.ID != "echo" {
		t.Errorf("Lookup after recovery = %+v, %v; want echo, true", it, ok)
	}
}

func TestBreakerNotFoundIsNotAFailure(t *testing.T) {
	remote := &flakyRemote{healthy: true}
	b := NewBreaker(remote, zerolog.Nop())

	// Well past the consecutive-failure trip threshold; absent items must
	// not open the circuit.
	for i := 0; i < 10; i++ {
		if _, ok := b.Lookup(context.Background(), "ghost"); ok {
			t.Fatal("Lookup(ghost) reported an absent item as present")
		}
	}

	it, ok := b.Lookup(context.Background(), "echo")
	if !ok || it.ID != "echo" {
		t.Errorf("Lookup(echo) = %+v, %v; circuit tripped on not-found answers", it, ok)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	remote := &flakyRemote{}
	b := NewBreaker(remote, zerolog.Nop())

	for i := 0; i < 6; i++ {
		if _, err := b.List(context.Background()); err == nil {
			t.Fatal("List against a failing remote returned nil error")
		}
	}

	// The breaker is open now: further calls fail fast without reaching
	// the remote.
	before := remote.calls
	if _, err := b.List(context.Background()); err == nil {
		t.Error("List with an open breaker returned nil error")
	}
	if remote.calls != before {
		t.Errorf("open breaker still forwarded the call (%d -> %d)", before, remote.calls)
	}
}
