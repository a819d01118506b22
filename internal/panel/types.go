// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package panel builds the longitudinal genre-specialization panels: row
// expansion per company role, the cumulative within-category share engine,
// panel balancing, and post-hoc verification.
package panel

// ShareTolerance is the floating tolerance on output shares: every share
// must lie in [-ShareTolerance, 1+ShareTolerance].
const ShareTolerance = 1e-9

// SpotCheckTolerance bounds the difference between the engine's shares and
// an independent brute-force recomputation.
const SpotCheckTolerance = 1e-6

// Row is one (game, company, year) association carrying the game's full
// indicator vector: the unit of work for aggregation.
// Unique on (GameID, CompanyID, Year) after deduplication.
type Row struct {
	GameID    int64
	CompanyID int64
	Year      int

	// Indicators is the game's 0/1 genre vector. Rows expanded from the
	// same game share the backing array; treat it as read-only.
	Indicators []uint8
}

// Record is one company-year cumulative snapshot.
// NumGames and Shares cover the company's entire release history up to and
// including Year. Records are produced once per run, never mutated
// incrementally.
type Record struct {
	CompanyID   int64
	CompanyName string
	Year        int

	// NumGames is the cumulative count of the company's games with
	// release year <= Year. Monotonically non-decreasing per company.
	NumGames int64

	// Shares holds the cumulative within-category genre shares, ordered
	// like the hierarchy's columns. Balanced gap rows share the backing
	// array with the record they were filled from; treat it as read-only.
	Shares []float64
}
