// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package panel

// BalanceStats summarizes panel balancing for audit reporting.
type BalanceStats struct {
	// Synthesized counts gap-year rows created by forward-fill.
	Synthesized int64

	// Companies is the number of distinct companies in the panel.
	Companies int64
}

// Balance fills year gaps so every company has a row for every year between
// its first and last observed release year. Gap years carry the nearest
// earlier record's cumulative state forward (the synthesized row shares the
// earlier record's share slice).
//
// The input must be ordered by (company_id, year) with years strictly
// increasing per company, which is what the engine produces. The first year
// of each company's span is an observed record by construction, so no
// leading gap can exist; Verify asserts this instead of masking it with a
// back-fill.
func Balance(records []Record) ([]Record, BalanceStats) {
	var (
		balanced []Record
		stats    BalanceStats
	)

	for i, record := range records {
		newCompany := i == 0 || records[i-1].CompanyID != record.CompanyID
		if newCompany {
			stats.Companies++
			balanced = append(balanced, record)
			continue
		}

		prev := records[i-1]
		for year := prev.Year + 1; year < record.Year; year++ {
			gap := prev
			gap.Year = year
			balanced = append(balanced, gap)
			stats.Synthesized++
		}
		balanced = append(balanced, record)
	}

	return balanced, stats
}
