// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package genre parses flat genre-indicator column identifiers into the
// two-level category hierarchy used by the share engine.
//
// An indicator identifier encodes its category and genre by naming
// convention: category_<N>_genre_<M>. Categories partition the indicator
// vector; every indicator belongs to exactly one category. A malformed
// identifier means the upstream schema contract was violated and is fatal.
package genre

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pipeton8/ludopanel/internal/validation"
)

// Hierarchy is the parsed category structure over an ordered indicator
// column list. Column indices refer to positions in Columns, which is the
// order the indicator matrix presents them in.
type Hierarchy struct {
	// Columns are the indicator identifiers in first-seen order.
	Columns []string

	// CategoryOrder lists category IDs in first-seen order.
	CategoryOrder []int

	// CategoryColumns maps a category ID to the ordered indices of its
	// member indicator columns.
	CategoryColumns map[int][]int

	// columnCategory maps a column index to its category ID.
	columnCategory []int
}

// ParseIndicator parses an identifier of the form category_<N>_genre_<M>.
// N and M must be positive integers without leading zeros; the naming
// convention itself is owned by validation.IsIndicatorColumn so the schema
// path and struct validation cannot drift apart.
func ParseIndicator(id string) (categoryID, genreID int, err error) {
	if !validation.IsIndicatorColumn(id) {
		return 0, 0, fmt.Errorf("indicator %q does not match category_<N>_genre_<M>", id)
	}

	parts := strings.Split(id, "_")

	categoryID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("indicator %q has invalid category ID %q: %w", id, parts[1], err)
	}

	genreID, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, fmt.Errorf("indicator %q has invalid genre ID %q: %w", id, parts[3], err)
	}

	return categoryID, genreID, nil
}

// BuildHierarchy parses the ordered indicator identifiers into a Hierarchy.
// Returns an error on the first malformed or duplicate identifier; the
// caller treats this as fatal (schema violation, not locally recoverable).
func BuildHierarchy(columns []string) (*Hierarchy, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no indicator columns")
	}

	h := &Hierarchy{
		Columns:         make([]string, len(columns)),
		CategoryColumns: make(map[int][]int),
		columnCategory:  make([]int, len(columns)),
	}
	copy(h.Columns, columns)

	seen := make(map[string]struct{}, len(columns))
	for i, col := range columns {
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("duplicate indicator column %q", col)
		}
		seen[col] = struct{}{}

		categoryID, _, err := ParseIndicator(col)
		if err != nil {
			return nil, err
		}

		if _, ok := h.CategoryColumns[categoryID]; !ok {
			h.CategoryOrder = append(h.CategoryOrder, categoryID)
		}
		h.CategoryColumns[categoryID] = append(h.CategoryColumns[categoryID], i)
		h.columnCategory[i] = categoryID
	}

	return h, nil
}

// G returns the number of indicator columns.
func (h *Hierarchy) G() int {
	return len(h.Columns)
}

// Categories returns the number of categories.
func (h *Hierarchy) Categories() int {
	return len(h.CategoryOrder)
}

// CategoryOf returns the category ID of the column at index i.
func (h *Hierarchy) CategoryOf(i int) int {
	return h.columnCategory[i]
}
