// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package ingest

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Publisher puts interaction events onto the bus.
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher wraps the bus publishing side.
func NewPublisher(bus *Bus) *Publisher {
	return &Publisher{publisher: bus.Publisher()}
}

// Publish enqueues one event. The event must already be validated; the
// consumer re-validates through the store but a rejection there is a
// programming error, not user input.
func (p *Publisher) Publish(ev recommend.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(TopicInteractions, msg); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}
	return nil
}
