// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wanderlight/wanderlight/internal/api"
	"github.com/wanderlight/wanderlight/internal/catalog"
	"github.com/wanderlight/wanderlight/internal/config"
	"github.com/wanderlight/wanderlight/internal/ingest"
	"github.com/wanderlight/wanderlight/internal/journal"
	"github.com/wanderlight/wanderlight/internal/logging"
	"github.com/wanderlight/wanderlight/internal/recommend"
	"github.com/wanderlight/wanderlight/internal/recommend/insights"
	"github.com/wanderlight/wanderlight/internal/recommend/reranking"
	"github.com/wanderlight/wanderlight/internal/recommend/store"
	"github.com/wanderlight/wanderlight/internal/recommend/strategies"
	"github.com/wanderlight/wanderlight/internal/supervisor"
	"github.com/wanderlight/wanderlight/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Bool("journal_enabled", cfg.Journal.Enabled).
		Bool("remote_catalog", cfg.Catalog.URL != "").
		Msg("Starting Wanderlight")

	logger := logging.Logger()

	// Catalog: remote behind a circuit breaker, or in-memory.
	cat, err := buildCatalog(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	st := store.New(logger)
	reporter := insights.NewReporter(st)

	engineCfg := cfg.EngineConfig()
	engine, err := recommend.NewEngine(&engineCfg, cat, reporter, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize engine")
	}

	engine.RegisterStrategy(strategies.NewCollaborative(st, engineCfg.Similarity, engineCfg.Limits.PerStrategy))
	engine.RegisterStrategy(strategies.NewContentBased(st, engineCfg.Limits.PerStrategy))
	engine.RegisterStrategy(strategies.NewContextual(st, engineCfg.Limits.PerStrategy))
	engine.RegisterStrategy(strategies.NewSerendipity(st, engineCfg.Limits.PerStrategy,
		rand.New(rand.NewSource(engineCfg.Seed)))) //nolint:gosec // jitter, not crypto

	engine.RegisterFilter(reranking.NewDiversity(rand.New(rand.NewSource(engineCfg.Seed + 1)))) //nolint:gosec // sampling, not crypto
	engine.RegisterFilter(reranking.NewNovelty(reporter, rand.New(rand.NewSource(engineCfg.Seed + 2)))) //nolint:gosec // sampling, not crypto

	// Journal: replay persisted interactions, then append new ones.
	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		jnl, err = journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open journal")
		}
		defer func() {
			if err := jnl.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing journal")
			}
		}()

		replayed := 0
		err = jnl.Replay(func(ev recommend.Event) error {
			if err := st.Record(context.Background(), ev, cat); err != nil {
				logging.Warn().Err(err).Str("item_id", ev.ItemID).Msg("Skipping invalid journal event")
				return nil
			}
			replayed++
			return nil
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Journal replay failed")
		}
		logging.Info().Int("events", replayed).Msg("Journal replayed")
	}

	// Ingest pipeline: API publishes, consumer folds into the model.
	bus := ingest.NewBus(cfg.Ingest.BufferSize, logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest bus")
		}
	}()

	publisher := ingest.NewPublisher(bus)
	consumerCfg := ingest.ConsumerConfig{
		Bus:           bus,
		Recorder:      st,
		Catalog:       cat,
		Invalidator:   engine,
		RatePerSecond: cfg.Ingest.RatePerSecond,
		Burst:         cfg.Ingest.Burst,
	}
	if jnl != nil {
		consumerCfg.Appender = jnl
	}
	consumer := ingest.NewConsumer(consumerCfg, logger)

	handler := api.NewHandler(engine, reporter, publisher, api.Defaults{
		Limit:     cfg.Recommend.DefaultLimit,
		MaxLimit:  cfg.Recommend.MaxLimit,
		Diversity: cfg.Recommend.DefaultDiversity,
		Novelty:   cfg.Recommend.DefaultNovelty,
	})
	router := api.NewRouter(api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	}, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slogger := slog.New(logging.NewSlogHandler(logger))
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	tree := supervisor.NewTree(slogger, treeCfg)
	tree.AddIngestService(consumer)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor exited with error")
	}

	logging.Info().Msg("Shutdown complete")
}

// buildCatalog selects the catalog backend from configuration.
func buildCatalog(cfg *config.Config) (recommend.Catalog, error) {
	if cfg.Catalog.URL != "" {
		client := catalog.NewHTTPClient(cfg.Catalog.URL, 10*time.Second)
		return catalog.NewBreaker(client, logging.Logger()), nil
	}
	if cfg.Catalog.SeedFile != "" {
		mem, err := catalog.LoadFile(cfg.Catalog.SeedFile)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}
	return catalog.NewMemory(), nil
}
