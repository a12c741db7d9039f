// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package ingest

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// TopicInteractions carries raw interaction events from the API layer
// to the consumer.
const TopicInteractions = "interactions"

// Bus is the in-process pub/sub channel shared by publisher and consumer.
type Bus struct {
	channel *gochannel.GoChannel
}

// NewBus creates an in-process channel with the given buffer size.
// Publishing blocks once the buffer is full, which backpressures the
// API layer instead of dropping events.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewBus(bufferSize int64, logger zerolog.Logger) *Bus {
	channel := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: bufferSize,
			// Events published before the consumer finishes subscribing
			// (startup ordering) must not be lost. There is exactly one
			// subscriber, so persistence never duplicates delivery.
			Persistent: true,
		},
		watermillLogger{logger.With().Str("component", "ingest").Logger()},
	)
	return &Bus{channel: channel}
}

// Publisher returns the publishing side of the bus.
func (b *Bus) Publisher() message.Publisher { return b.channel }

// Subscriber returns the subscribing side of the bus.
func (b *Bus) Subscriber() message.Subscriber { return b.channel }

// Close shuts the channel down; pending subscribers drain and exit.
func (b *Bus) Close() error { return b.channel.Close() }

// watermillLogger adapts zerolog to watermill.LoggerAdapter.
type watermillLogger struct {
	logger zerolog.Logger
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.event(w.logger.Error().Err(err), msg, fields)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.event(w.logger.Debug(), msg, fields)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.event(w.logger.Debug(), msg, fields)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.event(w.logger.Trace(), msg, fields)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := w.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return watermillLogger{ctx.Logger()}
}

func (w watermillLogger) event(ev *zerolog.Event, msg string, fields watermill.LogFields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
