// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package ingest decouples interaction intake from preference learning.
//
// The API layer publishes raw interaction events onto an in-process
// Watermill channel and returns immediately; a rate-limited consumer
// drains the channel, folds each event into the interaction store,
// appends it to the journal, and invalidates any cached recommendations
// for the affected explorer. Losing an event on crash is acceptable
// here: the journal is written by the consumer, so everything that has
// influenced the model is also replayable.
package ingest
