// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package api exposes the HTTP surface of the recommendation service.
//
// Endpoints (all JSON, wrapped in the models.APIResponse envelope):
//
//	POST /api/v1/users/{userID}/interactions    record an interaction (202)
//	GET  /api/v1/users/{userID}/recommendations ranked recommendations
//	GET  /api/v1/users/{userID}/profile         preference profile
//	GET  /api/v1/users/{userID}/insights        interaction analytics
//	GET  /api/v1/health                         liveness probe
//	GET  /metrics                               Prometheus exposition
//
// Interactions are accepted asynchronously: the handler validates the
// payload, publishes it onto the ingest bus, and returns 202 before the
// preference model is updated.
package api
