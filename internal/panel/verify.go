// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package panel

import (
	"fmt"
	"math"

	"github.com/pipeton8/ludopanel/internal/audit"
	"github.com/pipeton8/ludopanel/internal/genre"
)

// Verify runs the post-hoc checks on the engine output and records the
// outcomes on the tracker. Failures degrade confidence in the run but do not
// halt the pipeline; the audit report flags them for manual follow-up.
//
// Checks:
//   - num_games is non-decreasing within each company's years
//   - every share lies in [-ShareTolerance, 1+ShareTolerance] and is not NaN
//   - a brute-force recomputation of sampled company-years matches the
//     engine output within SpotCheckTolerance
func Verify(tracker *audit.Tracker, step string, records []Record, rows []Row, hierarchy *genre.Hierarchy, samples int) {
	verifyMonotonic(tracker, step, records)
	verifyShareRange(tracker, step, records)
	verifySpotChecks(tracker, step, records, rows, hierarchy, samples)
}

// verifyMonotonic checks cumulative game counts never decrease per company.
func verifyMonotonic(tracker *audit.Tracker, step string, records []Record) {
	var violations int64
	for i := 1; i < len(records); i++ {
		if records[i].CompanyID != records[i-1].CompanyID {
			continue
		}
		if records[i].NumGames < records[i-1].NumGames {
			violations++
		}
	}

	tracker.Checkf(step, "num_games monotonic", violations == 0,
		"%d monotonicity violations across %d records", violations, len(records))
}

// verifyShareRange checks every share is a real number within tolerance of
// [0, 1].
func verifyShareRange(tracker *audit.Tracker, step string, records []Record) {
	var outOfRange, notANumber int64
	for i := range records {
		for _, share := range records[i].Shares {
			if math.IsNaN(share) {
				notANumber++
				continue
			}
			if share < -ShareTolerance || share > 1+ShareTolerance {
				outOfRange++
			}
		}
	}

	tracker.Checkf(step, "shares in range", outOfRange == 0 && notANumber == 0,
		"%d out-of-range values, %d NaN values", outOfRange, notANumber)
}

// verifySpotChecks recomputes sampled company-years from the raw rows with
// an independent, non-vectorized pass and compares against the engine.
func verifySpotChecks(tracker *audit.Tracker, step string, records []Record, rows []Row, hierarchy *genre.Hierarchy, samples int) {
	if samples <= 0 || len(records) == 0 {
		return
	}
	if samples > len(records) {
		samples = len(records)
	}

	// Deterministic sampling: evenly strided across the record set.
	stride := len(records) / samples

	var mismatches []string
	for s := 0; s < samples; s++ {
		record := records[s*stride]
		if diff := spotCheck(record, rows, hierarchy); diff != "" {
			mismatches = append(mismatches, diff)
		}
	}

	details := fmt.Sprintf("%d sampled company-years recomputed", samples)
	if len(mismatches) > 0 {
		details = fmt.Sprintf("%d of %d samples mismatched: %s", len(mismatches), samples, mismatches[0])
	}
	tracker.AddCheck(step, "spot-check recomputation", len(mismatches) == 0, details)
}

// spotCheck recomputes one company-year from scratch. Returns an empty
// string on match, otherwise a description of the first difference.
func spotCheck(record Record, rows []Row, hierarchy *genre.Hierarchy) string {
	g := hierarchy.G()
	sums := make([]int64, g)
	active := make(map[int]int64, hierarchy.Categories())
	var numGames int64

	for _, row := range rows {
		if row.CompanyID != record.CompanyID || row.Year > record.Year {
			continue
		}
		numGames++
		for col, bit := range row.Indicators {
			if bit == 1 {
				sums[col]++
			}
		}
		for _, categoryID := range hierarchy.CategoryOrder {
			for _, col := range hierarchy.CategoryColumns[categoryID] {
				if row.Indicators[col] == 1 {
					active[categoryID]++
					break
				}
			}
		}
	}

	if numGames != record.NumGames {
		return fmt.Sprintf("company %d year %d: num_games %d, engine reported %d",
			record.CompanyID, record.Year, numGames, record.NumGames)
	}

	for col := 0; col < g; col++ {
		var want float64
		if k := active[hierarchy.CategoryOf(col)]; k > 0 {
			want = float64(sums[col]) / float64(k)
		}
		if math.Abs(want-record.Shares[col]) > SpotCheckTolerance {
			return fmt.Sprintf("company %d year %d %s: share %.9f, engine reported %.9f",
				record.CompanyID, record.Year, hierarchy.Columns[col], want, record.Shares[col])
		}
	}

	return ""
}

// VerifyBalanced checks the balanced panel: every company's span is gapless
// and each company's first balanced year is an observed record (no leading
// gap was back-filled).
func VerifyBalanced(tracker *audit.Tracker, step string, observed, balanced []Record) {
	firstObserved := make(map[int64]int)
	for _, record := range observed {
		if _, ok := firstObserved[record.CompanyID]; !ok {
			firstObserved[record.CompanyID] = record.Year
		}
	}

	var gaps, leadingGaps int64
	for i := range balanced {
		record := balanced[i]
		if i == 0 || balanced[i-1].CompanyID != record.CompanyID {
			if first, ok := firstObserved[record.CompanyID]; !ok || first != record.Year {
				leadingGaps++
			}
			continue
		}
		if record.Year != balanced[i-1].Year+1 {
			gaps++
		}
	}

	tracker.Checkf(step, "panel gapless", gaps == 0,
		"%d year gaps remain across %d balanced records", gaps, len(balanced))
	tracker.Checkf(step, "panel leading years observed", leadingGaps == 0,
		"%d companies start on a synthesized year", leadingGaps)
}
