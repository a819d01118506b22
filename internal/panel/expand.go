// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package panel

import (
	"github.com/pipeton8/ludopanel/internal/catalog"
)

// ExpandStats summarizes a row expansion for audit reporting.
type ExpandStats struct {
	// Games is the number of games considered.
	Games int64

	// MissingVector counts games dropped because no indicator row matched
	// their game ID (left-join miss).
	MissingVector int64

	// ZeroVector counts games dropped because their indicator row was all
	// zeros (no category to contribute to).
	ZeroVector int64

	// MissingRole counts games dropped because they have no company of the
	// selected role.
	MissingRole int64

	// MissingYear counts games dropped because no release year resolved.
	MissingYear int64

	// Rows is the number of company-game rows produced after deduplication.
	Rows int64

	// DuplicatesRemoved counts removed duplicate (game, company, year) rows.
	DuplicatesRemoved int64
}

// rowKey identifies a company-game row for deduplication.
type rowKey struct {
	gameID    int64
	companyID int64
	year      int
}

// Expand explodes each game into one row per (game, company) association for
// the given role. Games lacking a company of that role, a resolvable release
// year, or a usable indicator vector are dropped and counted. Duplicate
// (game, company, year) rows are removed keeping the first occurrence in
// input order.
func Expand(games []catalog.Game, matrix *catalog.IndicatorMatrix, role catalog.Role) ([]Row, ExpandStats) {
	var (
		rows  []Row
		stats ExpandStats
	)

	seen := make(map[rowKey]struct{})

	for i := range games {
		game := &games[i]
		stats.Games++

		vector, ok := matrix.Vectors[game.ID]
		if !ok {
			stats.MissingVector++
			continue
		}
		if catalog.IsZero(vector) {
			stats.ZeroVector++
			continue
		}

		companyIDs := game.IDsForRole(role)
		if len(companyIDs) == 0 {
			stats.MissingRole++
			continue
		}
		if game.ReleaseYear == 0 {
			stats.MissingYear++
			continue
		}

		for _, companyID := range companyIDs {
			key := rowKey{gameID: game.ID, companyID: companyID, year: game.ReleaseYear}
			if _, dup := seen[key]; dup {
				stats.DuplicatesRemoved++
				continue
			}
			seen[key] = struct{}{}

			rows = append(rows, Row{
				GameID:     game.ID,
				CompanyID:  companyID,
				Year:       game.ReleaseYear,
				Indicators: vector,
			})
		}
	}

	stats.Rows = int64(len(rows))
	return rows, stats
}
