// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/wanderlight/wanderlight/internal/ingest"
	"github.com/wanderlight/wanderlight/internal/metrics"
	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/insights"
)

// Defaults are applied to recommendation requests when query parameters
// are absent. An explicit "0" disables the corresponding filter.
type Defaults struct {
	Limit     int
	MaxLimit  int
	Diversity float64
	Novelty   float64
}

// Handler carries the service collaborators for all HTTP endpoints.
type Handler struct {
	engine    *recommend.Engine
	reporter  *insights.Reporter
	publisher *ingest.Publisher
	defaults  Defaults
	validate  *validator.Validate
}

// NewHandler builds the endpoint handler set.
func NewHandler(engine *recommend.Engine, reporter *insights.Reporter, publisher *ingest.Publisher, defaults Defaults) *Handler {
	return &Handler{
		engine:    engine,
		reporter:  reporter,
		publisher: publisher,
		defaults:  defaults,
		validate:  validator.New(),
	}
}

// interactionRequest is the POST body for recording an interaction.
type interactionRequest struct {
	ItemID       string `json:"item_id"       validate:"required"`
	Kind         string `json:"kind"          validate:"required,oneof=view complete comment share rate create remix"`
	Feedback     string `json:"feedback"      validate:"omitempty,oneof=positive negative"`
	StrategyUsed string `json:"strategy_used" validate:"omitempty,oneof=collaborative contentBased contextual serendipity"`
}

// Interaction accepts one interaction event and enqueues it for
// asynchronous processing.
func (h *Handler) Interaction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_EVENT", "interaction failed validation", err)
		return
	}

	ev := recommend.Event{
		UserID:       userID,
		ItemID:       req.ItemID,
		Kind:         recommend.Kind(req.Kind),
		Feedback:     recommend.Feedback(req.Feedback),
		StrategyUsed: req.StrategyUsed,
		Timestamp:    time.Now().UTC(),
	}

	if err := h.publisher.Publish(ev); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to enqueue interaction", err)
		return
	}

	respondSuccess(w, http.StatusAccepted, map[string]string{
		"item_id": ev.ItemID,
		"kind":    string(ev.Kind),
	}, 0, false)
}

// Recommendations returns ranked recommendations for one explorer.
//
// Query parameters: algorithm (hybrid, collaborative, contentBased,
// contextual, serendipity), limit, diversity, novelty. Absent diversity
// and novelty fall back to configured defaults; an explicit 0 disables
// the filter.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}

	q := r.URL.Query()

	algorithm, err := recommend.ParseAlgorithm(q.Get("algorithm"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown algorithm "+strconv.Quote(q.Get("algorithm")), err)
		return
	}

	limit, err := h.parseLimit(q.Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer", err)
		return
	}

	diversity, err := parseLevel(q.Get("diversity"), h.defaults.Diversity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "diversity must be in [0, 1]", err)
		return
	}

	novelty, err := parseLevel(q.Get("novelty"), h.defaults.Novelty)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "novelty must be in [0, 1]", err)
		return
	}

	start := time.Now()
	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:    userID,
		Algorithm: algorithm,
		Limit:     limit,
		Diversity: diversity,
		Novelty:   novelty,
	})
	metrics.RecordRecommendation(algorithm.String(), time.Since(start), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, resp, time.Since(start), resp.Metadata.CacheHit)
}

// Profile returns the learned preference profile for one explorer.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}

	start := time.Now()
	report := h.reporter.Profile(userID)
	respondSuccess(w, http.StatusOK, report, time.Since(start), false)
}

// Insights returns interaction analytics for one explorer.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}

	start := time.Now()
	report := h.reporter.Insights(userID)
	respondSuccess(w, http.StatusOK, report, time.Since(start), false)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, 0, false)
}

// parseLimit validates the limit parameter and clamps it to MaxLimit.
// Absent means the configured default.
func (h *Handler) parseLimit(raw string) (int, error) {
	if raw == "" {
		return h.defaults.Limit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}
	if limit > h.defaults.MaxLimit {
		limit = h.defaults.MaxLimit
	}
	return limit, nil
}

// parseLevel parses a filter level in [0, 1], falling back to def when
// the parameter is absent.
func parseLevel(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	level, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if level < 0 || level > 1 {
		return 0, errors.New("level out of range")
	}
	return level, nil
}
