// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package catalog

import (
	"context"
	"fmt"

	"github.com/pipeton8/ludopanel/internal/genre"
)

// IndicatorMatrix holds the binary genre indicator vectors keyed by game ID,
// together with the category hierarchy parsed from the column names.
type IndicatorMatrix struct {
	Hierarchy *genre.Hierarchy

	// Vectors maps game ID to its fixed-length 0/1 indicator vector,
	// ordered like Hierarchy.Columns.
	Vectors map[int64][]uint8

	// DuplicateGames counts game IDs that appeared more than once in the
	// matrix; the first occurrence wins.
	DuplicateGames int64
}

// LoadIndicators reads the genre indicator matrix CSV through DuckDB.
// The first column must be game_id; every remaining column must follow the
// category_<N>_genre_<M> convention and hold only 0/1 values. Violations of
// either rule are fatal schema errors.
func (r *Reader) LoadIndicators(ctx context.Context, path string) (*IndicatorMatrix, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM read_csv(?, header = true)", path)
	if err != nil {
		return nil, fmt.Errorf("read genre vectors %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("genre vector columns: %w", err)
	}
	if len(columns) < 2 {
		return nil, fmt.Errorf("genre vector matrix has %d columns, need game_id plus indicators", len(columns))
	}
	if columns[0] != "game_id" {
		return nil, fmt.Errorf("genre vector matrix first column is %q, want game_id", columns[0])
	}

	hierarchy, err := genre.BuildHierarchy(columns[1:])
	if err != nil {
		return nil, fmt.Errorf("parse indicator columns: %w", err)
	}

	matrix := &IndicatorMatrix{
		Hierarchy: hierarchy,
		Vectors:   make(map[int64][]uint8),
	}

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan genre vector row: %w", err)
		}

		gameID, err := toInt64(values[0])
		if err != nil {
			return nil, fmt.Errorf("genre vector game_id: %w", err)
		}

		if _, dup := matrix.Vectors[gameID]; dup {
			matrix.DuplicateGames++
			continue
		}

		vector := make([]uint8, hierarchy.G())
		for i := 1; i < len(values); i++ {
			bit, err := toBinary(values[i])
			if err != nil {
				return nil, fmt.Errorf("game %d column %s: %w", gameID, columns[i], err)
			}
			vector[i-1] = bit
		}
		matrix.Vectors[gameID] = vector
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre vectors: %w", err)
	}

	return matrix, nil
}

// toInt64 coerces a scanned DuckDB value to int64.
func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

// toBinary coerces a scanned indicator cell to 0 or 1.
// Anything else violates the input contract.
func toBinary(v interface{}) (uint8, error) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}

	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	switch n {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("indicator value %d is not 0 or 1", n)
	}
}

// IsZero reports whether the vector has no active indicator.
// Games with all-zero vectors cannot contribute to any category and are
// dropped with a reported count.
func IsZero(vector []uint8) bool {
	for _, bit := range vector {
		if bit != 0 {
			return false
		}
	}
	return true
}
