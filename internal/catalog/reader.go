// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package catalog is the extraction boundary of the pipeline: it pulls raw
// per-game records out of the SQLite game catalog and the CSV side inputs
// (genre indicator matrix, company lookup tables) and resolves them into
// typed records for the share engine.
//
// All tabular inputs are read through a single in-memory DuckDB connection:
// the SQLite catalog via the sqlite_scanner extension (no separate SQLite
// driver) and the CSVs via read_csv. The connection is the only external
// resource the package holds and is released by Close on all exit paths.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	// DuckDB driver - used with the SQLite extension for reading the game catalog
	_ "github.com/duckdb/duckdb-go/v2"
)

// Reader reads the game catalog and its side inputs.
type Reader struct {
	db     *sql.DB
	dbPath string
}

// NewReader creates a reader for the specified game catalog file.
// It attaches the SQLite database through DuckDB's sqlite_scanner extension
// and verifies the required tables exist. A missing file or table is a fatal
// schema error.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if err := loadSQLiteExtension(db); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("load sqlite extension: %w", err)
	}

	if err := attachSQLiteDatabase(db, dbPath); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("attach catalog: %w", err)
	}

	if err := verifyTables(db); err != nil {
		detachSQLiteDatabase(db, dbPath)
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("verify tables: %w", err)
	}

	return &Reader{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// loadSQLiteExtension installs and loads the sqlite_scanner extension.
func loadSQLiteExtension(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Try to install, then load (extension may already be installed)
	if _, err := db.ExecContext(ctx, "INSTALL sqlite_scanner;"); err != nil {
		if _, loadErr := db.ExecContext(ctx, "LOAD sqlite_scanner;"); loadErr != nil {
			if _, forceErr := db.ExecContext(ctx, "FORCE INSTALL sqlite_scanner;"); forceErr != nil {
				return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
			}
		}
		return nil
	}

	_, err := db.ExecContext(ctx, "LOAD sqlite_scanner;")
	return err
}

// attachSQLiteDatabase attaches the game catalog file to DuckDB.
func attachSQLiteDatabase(db *sql.DB, dbPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, "CALL sqlite_attach(?)", dbPath)
	if err != nil {
		return fmt.Errorf("sqlite_attach: %w", err)
	}

	return nil
}

// attachedSchemaName is the schema name sqlite_attach derives from the
// catalog file: the basename with its extension stripped.
func attachedSchemaName(dbPath string) string {
	base := filepath.Base(dbPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// detachSQLiteDatabase detaches the catalog from DuckDB.
func detachSQLiteDatabase(db *sql.DB, dbPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stmt := fmt.Sprintf("DETACH DATABASE IF EXISTS %q", attachedSchemaName(dbPath))
	db.ExecContext(ctx, stmt) //nolint:errcheck // best-effort detach, errors not actionable
}

// verifyTables checks that the games table exists in the attached catalog.
func verifyTables(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?",
		"games",
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check games table: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("games table not found in attached catalog")
	}

	return nil
}

// Close detaches the catalog and closes the DuckDB connection.
func (r *Reader) Close() error {
	detachSQLiteDatabase(r.db, r.dbPath)
	return r.db.Close()
}

// CountGames returns the total number of games in the catalog.
func (r *Reader) CountGames(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return count, nil
}

// ExtractStats summarizes the catalog extraction for audit checks.
type ExtractStats struct {
	// Total is the number of rows in the games table.
	Total int64

	// Parsed is the number of games whose raw payload parsed successfully.
	Parsed int64

	// ParseErrors is the number of games whose payload failed to parse.
	ParseErrors int64

	// NoDevelopers, NoPublishers, NoYear count parsed games missing the
	// respective attribute.
	NoDevelopers int64
	NoPublishers int64
	NoYear       int64

	// MinYear and MaxYear bound the resolved release years (0 when no game
	// has a resolvable year).
	MinYear int
	MaxYear int
}

// ReadGames extracts and parses all games from the catalog.
// Per-record parse failures are skipped and counted; the first few are
// returned in sampleErrs for logging. Only query-level failures are errors.
func (r *Reader) ReadGames(ctx context.Context, minYear, maxYear int) ([]Game, ExtractStats, []error, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, raw_data FROM games")
	if err != nil {
		return nil, ExtractStats{}, nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	const maxSampleErrs = 5

	var (
		games      []Game
		stats      ExtractStats
		sampleErrs []error
	)

	for rows.Next() {
		var (
			id      int64
			title   sql.NullString
			rawData sql.NullString
		)
		if err := rows.Scan(&id, &title, &rawData); err != nil {
			return nil, stats, sampleErrs, fmt.Errorf("scan game row: %w", err)
		}
		stats.Total++

		game, err := parseGame(id, title.String, []byte(rawData.String), minYear, maxYear)
		if err != nil {
			stats.ParseErrors++
			if len(sampleErrs) < maxSampleErrs {
				sampleErrs = append(sampleErrs, fmt.Errorf("game %d: %w", id, err))
			}
			continue
		}
		stats.Parsed++

		if len(game.DeveloperIDs) == 0 {
			stats.NoDevelopers++
		}
		if len(game.PublisherIDs) == 0 {
			stats.NoPublishers++
		}
		if game.ReleaseYear == 0 {
			stats.NoYear++
		} else {
			if stats.MinYear == 0 || game.ReleaseYear < stats.MinYear {
				stats.MinYear = game.ReleaseYear
			}
			if game.ReleaseYear > stats.MaxYear {
				stats.MaxYear = game.ReleaseYear
			}
		}

		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, stats, sampleErrs, fmt.Errorf("iterate games: %w", err)
	}

	return games, stats, sampleErrs, nil
}
