// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package metrics exposes Prometheus collectors for the recommendation
// service: request throughput and latency per algorithm, response cache
// efficiency, interaction intake, and journal growth.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlight_recommend_requests_total",
			Help: "Total recommendation requests by algorithm",
		},
		[]string{"algorithm"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlight_recommend_duration_seconds",
			Help:    "Recommendation request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	RecommendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlight_recommend_errors_total",
			Help: "Total recommendation requests that failed",
		},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlight_strategy_duration_seconds",
			Help:    "Per-strategy scoring latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlight_response_cache_hits_total",
			Help: "Recommendation responses served from cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlight_response_cache_misses_total",
			Help: "Recommendation responses computed on cache miss",
		},
	)

	// Interaction Intake Metrics
	InteractionsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlight_interactions_ingested_total",
			Help: "Interactions folded into the preference model by kind",
		},
		[]string{"kind"},
	)

	IngestErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlight_ingest_errors_total",
			Help: "Interactions dropped during intake",
		},
	)

	JournalEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlight_journal_entries_total",
			Help: "Interactions appended to the journal",
		},
	)

	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlight_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordRecommendation records one recommendation request.
func RecordRecommendation(algorithm string, duration time.Duration, err error) {
	RecommendRequests.WithLabelValues(algorithm).Inc()
	RecommendDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if err != nil {
		RecommendErrors.Inc()
	}
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
