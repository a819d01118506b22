// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Role selects which company association of a game a panel is built over.
// Developer and publisher histories are independent panels and never mix.
type Role string

const (
	RoleDeveloper Role = "developer"
	RolePublisher Role = "publisher"
)

// IDsForRole returns the game's company IDs for the given role.
func (g *Game) IDsForRole(role Role) []int64 {
	if role == RolePublisher {
		return g.PublisherIDs
	}
	return g.DeveloperIDs
}

// LoadCompanies reads a company lookup CSV (id, name) through DuckDB.
// Lookup tables validate that referenced company IDs are genuine and attach
// display names to the output panels.
func (r *Reader) LoadCompanies(ctx context.Context, path string) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM read_csv(?, header = true)", path)
	if err != nil {
		return nil, fmt.Errorf("read company lookup %s: %w", path, err)
	}
	defer rows.Close()

	companies := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			name sql.NullString
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies[id] = name.String
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return companies, nil
}

// StripOrphans removes company IDs absent from the lookup table from every
// game's ID set for the given role, in place. Returns the number of stripped
// references; orphans are a data-quality warning, not an error.
func StripOrphans(games []Game, lookup map[int64]string, role Role) int64 {
	var stripped int64

	for i := range games {
		ids := games[i].IDsForRole(role)
		if len(ids) == 0 {
			continue
		}

		kept := ids[:0]
		for _, id := range ids {
			if _, ok := lookup[id]; ok {
				kept = append(kept, id)
			} else {
				stripped++
			}
		}

		if role == RolePublisher {
			games[i].PublisherIDs = kept
		} else {
			games[i].DeveloperIDs = kept
		}
	}

	return stripped
}
