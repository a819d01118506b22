// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Ludopanel builds cumulative genre-specialization panels from a game
// metadata catalog.
//
// For every company in the catalog it tracks, year by year, the share of the
// company's cumulative releases that carry each genre indicator, normalized
// within the indicator's category. Developer and publisher histories are
// built as independent panels. The panels are balanced (no year gaps inside a
// company's span), exported as CSV, and accompanied by diversity-index
// datasets and a per-run audit report.
//
// # Quick Start
//
//	CATALOG_DB_PATH=data/moby_games.db \
//	GENRE_VECTORS_PATH=data/game_genre_vectors.csv \
//	DEVELOPERS_CSV_PATH=data/developers.csv \
//	PUBLISHERS_CSV_PATH=data/publishers.csv \
//	OUTPUT_DIR=out ludopanel
//
// Configuration is layered: struct defaults, then an optional YAML file
// (ludopanel.yaml or CONFIG_PATH), then environment variables.
//
// # Exit Codes
//
// The process exits non-zero only for fatal schema or I/O errors. A run
// whose audit checks failed still exits zero; the outputs exist and the
// audit report flags them as suspect.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pipeton8/ludopanel/internal/audit"
	"github.com/pipeton8/ludopanel/internal/config"
	"github.com/pipeton8/ludopanel/internal/logging"
	"github.com/pipeton8/ludopanel/internal/metrics"
	"github.com/pipeton8/ludopanel/internal/pipeline"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithNewRunID(ctx)

	logger := logging.Ctx(ctx)
	logger.Info().
		Str("catalog", cfg.Catalog.DBPath).
		Str("genre_vectors", cfg.Catalog.GenreVectorsPath).
		Str("output_dir", cfg.Output.Dir).
		Msg("Configuration loaded")

	var history audit.History
	if cfg.History.Enabled {
		badgerHistory, err := audit.NewBadgerHistory(cfg.History.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open run history store")
		}
		defer func() {
			if err := badgerHistory.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing run history store")
			}
		}()
		history = badgerHistory
	}

	p := pipeline.New(cfg, metrics.New(), history)

	result, err := p.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Pipeline run failed")
		os.Exit(1)
	}

	if result.Suspect {
		logger.Warn().
			Str("report", result.ReportPath).
			Msg("Run completed with failed verification checks; outputs are suspect")
	}
}
