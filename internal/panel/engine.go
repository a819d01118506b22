// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package panel

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pipeton8/ludopanel/internal/genre"
)

// Engine computes cumulative within-category genre shares.
//
// For every company and every year in which the company released at least
// one game, the engine aggregates the company's entire release history up to
// that year into per-indicator shares, where each category's shares are
// normalized by the count of games that activated *that category* (not the
// total game count). Categories never activated in the cumulative history
// yield exact-zero shares, never NaN.
//
// Companies are independent, so the computation shards across companies with
// no shared mutable state; per-company output order is restored by assembling
// results in sorted company order.
type Engine struct {
	hierarchy *genre.Hierarchy

	// categoryPos maps a column index to its category's position in the
	// hierarchy's first-seen category order.
	categoryPos []int

	workers int
}

// NewEngine creates an engine over the given hierarchy.
// workers bounds the per-company parallelism; 0 means runtime.NumCPU().
func NewEngine(hierarchy *genre.Hierarchy, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	posByCategory := make(map[int]int, hierarchy.Categories())
	for pos, categoryID := range hierarchy.CategoryOrder {
		posByCategory[categoryID] = pos
	}

	categoryPos := make([]int, hierarchy.G())
	for i := range categoryPos {
		categoryPos[i] = posByCategory[hierarchy.CategoryOf(i)]
	}

	return &Engine{
		hierarchy:   hierarchy,
		categoryPos: categoryPos,
		workers:     workers,
	}
}

// ComputeShares produces one cumulative record per (company, year) pair
// observed in rows, ordered by (company_id, year). names supplies company
// display names; unknown IDs get an empty name.
//
// The result is a pure function of the row set: re-running on the same input
// yields bit-identical counts and shares.
func (e *Engine) ComputeShares(ctx context.Context, rows []Row, names map[int64]string) ([]Record, error) {
	byCompany := make(map[int64][]Row)
	for _, row := range rows {
		byCompany[row.CompanyID] = append(byCompany[row.CompanyID], row)
	}

	companyIDs := make([]int64, 0, len(byCompany))
	for id := range byCompany {
		companyIDs = append(companyIDs, id)
	}
	sort.Slice(companyIDs, func(i, j int) bool { return companyIDs[i] < companyIDs[j] })

	perCompany := make([][]Record, len(companyIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, companyID := range companyIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perCompany[i] = e.computeCompany(companyID, names[companyID], byCompany[companyID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []Record
	for _, companyRecords := range perCompany {
		records = append(records, companyRecords...)
	}
	return records, nil
}

// computeCompany runs the prefix-sum pass over one company's rows.
//
// Rows are sorted by (year, game_id) for reproducibility; the result is
// invariant to ordering within a year because each year's snapshot is taken
// after every row labeled with that year has been folded in.
func (e *Engine) computeCompany(companyID int64, name string, rows []Row) []Record {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].GameID < rows[j].GameID
	})

	g := e.hierarchy.G()
	categories := e.hierarchy.Categories()

	// Running sums: exact integer arithmetic until the final division.
	cumIndicator := make([]int64, g)
	cumCategoryActive := make([]int64, categories)
	var cumGames int64

	categoryTouched := make([]bool, categories)

	var records []Record
	for i, row := range rows {
		cumGames++
		for col, bit := range row.Indicators {
			if bit == 0 {
				continue
			}
			cumIndicator[col]++
			categoryTouched[e.categoryPos[col]] = true
		}
		for c := range categoryTouched {
			if categoryTouched[c] {
				cumCategoryActive[c]++
				categoryTouched[c] = false
			}
		}

		// Snapshot after the last row of each year.
		if i+1 < len(rows) && rows[i+1].Year == row.Year {
			continue
		}

		records = append(records, Record{
			CompanyID:   companyID,
			CompanyName: name,
			Year:        row.Year,
			NumGames:    cumGames,
			Shares:      e.shares(cumIndicator, cumCategoryActive),
		})
	}

	return records
}

// shares divides the per-indicator cumulative sums by their category's
// active-game count. Categories with a zero count yield exact zeros.
func (e *Engine) shares(cumIndicator, cumCategoryActive []int64) []float64 {
	shares := make([]float64, len(cumIndicator))
	for col, sum := range cumIndicator {
		k := cumCategoryActive[e.categoryPos[col]]
		if k > 0 {
			shares[col] = float64(sum) / float64(k)
		}
	}
	return shares
}
