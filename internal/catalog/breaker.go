// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Breaker adapts a fallible Remote catalog to the recommend.Catalog
// contract with a circuit breaker in front. When the remote fails or the
// breaker is open, Lookup degrades to "absent" and List to an error the
// engine treats as an empty catalog; scoring never aborts on catalog
// trouble.
type Breaker struct {
	remote Remote
	lookup *gobreaker.CircuitBreaker[recommend.Item]
	list   *gobreaker.CircuitBreaker[[]recommend.Item]
	logger zerolog.Logger
}

// NewBreaker wraps the remote catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreaker(remote Remote, logger zerolog.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing item is a valid answer, not a remote failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	return &Breaker{
		remote: remote,
		lookup: gobreaker.NewCircuitBreaker[recommend.Item](settings),
		list:   gobreaker.NewCircuitBreaker[[]recommend.Item](settings),
		logger: logger.With().Str("component", "catalog-breaker").Logger(),
	}
}

// Lookup returns the item, or ok=false when the item is absent, the
// remote fails, or the breaker is open.
func (b *Breaker) Lookup(ctx context.Context, itemID string) (recommend.Item, bool) {
	item, err := b.lookup.Execute(func() (recommend.Item, error) {
		return b.remote.Lookup(ctx, itemID)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.logger.Debug().Err(err).Str("item_id", itemID).Msg("lookup degraded to absent")
		}
		return recommend.Item{}, false
	}
	return item, true
}

// List returns all visible items, or an error when the remote fails or
// the breaker is open.
func (b *Breaker) List(ctx context.Context) ([]recommend.Item, error) {
	return b.list.Execute(func() ([]recommend.Item, error) {
		return b.remote.List(ctx)
	})
}
