// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package ingest

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/wanderlight/wanderlight/internal/metrics"
	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Recorder folds a validated event into the preference model.
type Recorder interface {
	Record(ctx context.Context, ev recommend.Event, catalog recommend.Catalog) error
}

// Appender persists an event for replay on restart.
type Appender interface {
	Append(ev recommend.Event) error
}

// Invalidator drops cached recommendations for one explorer.
type Invalidator interface {
	InvalidateUser(userID string)
}

// Consumer drains the interaction topic and applies each event to the
// store, the journal, and the recommendation cache. It implements
// suture.Service and is restarted by the supervisor on failure.
type Consumer struct {
	subscriber  message.Subscriber
	recorder    Recorder
	catalog     recommend.Catalog
	appender    Appender
	invalidator Invalidator
	limiter     *rate.Limiter
	logger      zerolog.Logger
}

// ConsumerConfig wires the consumer's collaborators. Appender and
// Invalidator may be nil.
type ConsumerConfig struct {
	Bus         *Bus
	Recorder    Recorder
	Catalog     recommend.Catalog
	Appender    Appender
	Invalidator Invalidator

	// RatePerSecond caps how fast events are folded into the model.
	// Zero disables throttling.
	RatePerSecond float64
	Burst         int
}

// NewConsumer builds a consumer from cfg.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewConsumer(cfg ConsumerConfig, logger zerolog.Logger) *Consumer {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Consumer{
		subscriber:  cfg.Bus.Subscriber(),
		recorder:    cfg.Recorder,
		catalog:     cfg.Catalog,
		appender:    cfg.Appender,
		invalidator: cfg.Invalidator,
		limiter:     rate.NewLimiter(limit, burst),
		logger:      logger.With().Str("component", "ingest-consumer").Logger(),
	}
}

// Serve subscribes to the interaction topic and processes messages
// until ctx is cancelled.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, TopicInteractions)
	if err != nil {
		return err
	}

	c.logger.Info().Msg("Interaction consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			c.handle(ctx, msg)
		}
	}
}

// handle processes one message. Events that cannot be decoded or
// recorded are acked anyway: redelivery would fail identically. An
// event pulled right at shutdown is nacked instead, so it is not
// confirmed without ever reaching the store or the journal.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	if err := c.limiter.Wait(ctx); err != nil {
		msg.Nack()
		return
	}
	defer msg.Ack()

	var ev recommend.Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("Undecodable interaction dropped")
		metrics.IngestErrors.Inc()
		return
	}

	if err := c.recorder.Record(ctx, ev, c.catalog); err != nil {
		c.logger.Warn().Err(err).
			Str("user_id", ev.UserID).
			Str("item_id", ev.ItemID).
			Msg("Interaction rejected")
		metrics.IngestErrors.Inc()
		return
	}

	if c.appender != nil {
		if err := c.appender.Append(ev); err != nil {
			c.logger.Error().Err(err).Str("item_id", ev.ItemID).Msg("Journal append failed")
			metrics.IngestErrors.Inc()
		} else {
			metrics.JournalEntries.Inc()
		}
	}

	if c.invalidator != nil {
		c.invalidator.InvalidateUser(ev.UserID)
	}

	metrics.InteractionsIngested.WithLabelValues(string(ev.Kind)).Inc()
}
