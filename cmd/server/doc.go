// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Command server runs the Wanderlight recommendation service: an HTTP
// API that learns explorer preferences from interaction events and
// serves personalized, diversity- and novelty-adjusted recommendations
// over the artifact catalog.
package main
