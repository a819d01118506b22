// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package panel

import (
	"reflect"
	"testing"
)

// TestBalance tests forward-fill of year gaps within a company's span
func TestBalance(t *testing.T) {
	t.Run("fills interior gaps", func(t *testing.T) {
		records := []Record{
			{CompanyID: 100, CompanyName: "Alpha", Year: 2001, NumGames: 1, Shares: []float64{1, 0}},
			{CompanyID: 100, CompanyName: "Alpha", Year: 2004, NumGames: 3, Shares: []float64{0.5, 0.5}},
		}

		balanced, stats := Balance(records)

		if stats.Companies != 1 {
			t.Errorf("Companies = %d, want 1", stats.Companies)
		}
		if stats.Synthesized != 2 {
			t.Errorf("Synthesized = %d, want 2", stats.Synthesized)
		}

		wantYears := []int{2001, 2002, 2003, 2004}
		if len(balanced) != len(wantYears) {
			t.Fatalf("len(balanced) = %d, want %d", len(balanced), len(wantYears))
		}
		for i, want := range wantYears {
			if balanced[i].Year != want {
				t.Errorf("balanced[%d].Year = %d, want %d", i, balanced[i].Year, want)
			}
		}

		// Gap years carry the previous observation's cumulative state.
		for _, i := range []int{1, 2} {
			if balanced[i].NumGames != 1 {
				t.Errorf("gap year %d NumGames = %d, want 1", balanced[i].Year, balanced[i].NumGames)
			}
			if !reflect.DeepEqual(balanced[i].Shares, []float64{1, 0}) {
				t.Errorf("gap year %d Shares = %v, want [1 0]", balanced[i].Year, balanced[i].Shares)
			}
		}
	})

	t.Run("consecutive years are untouched", func(t *testing.T) {
		records := []Record{
			{CompanyID: 100, Year: 2000, NumGames: 1},
			{CompanyID: 100, Year: 2001, NumGames: 2},
		}

		balanced, stats := Balance(records)
		if stats.Synthesized != 0 {
			t.Errorf("Synthesized = %d, want 0", stats.Synthesized)
		}
		if !reflect.DeepEqual(balanced, records) {
			t.Errorf("balanced = %+v, want unchanged input", balanced)
		}
	})

	t.Run("company boundaries do not leak fills", func(t *testing.T) {
		records := []Record{
			{CompanyID: 100, Year: 2000, NumGames: 1},
			{CompanyID: 200, Year: 2005, NumGames: 1},
			{CompanyID: 200, Year: 2007, NumGames: 2},
		}

		balanced, stats := Balance(records)

		if stats.Companies != 2 {
			t.Errorf("Companies = %d, want 2", stats.Companies)
		}
		if stats.Synthesized != 1 {
			t.Errorf("Synthesized = %d, want 1", stats.Synthesized)
		}

		wantPairs := []struct {
			company int64
			year    int
		}{
			{100, 2000},
			{200, 2005},
			{200, 2006},
			{200, 2007},
		}
		if len(balanced) != len(wantPairs) {
			t.Fatalf("len(balanced) = %d, want %d", len(balanced), len(wantPairs))
		}
		for i, want := range wantPairs {
			if balanced[i].CompanyID != want.company || balanced[i].Year != want.year {
				t.Errorf("balanced[%d] = (%d, %d), want (%d, %d)",
					i, balanced[i].CompanyID, balanced[i].Year, want.company, want.year)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		balanced, stats := Balance(nil)
		if len(balanced) != 0 || stats.Companies != 0 || stats.Synthesized != 0 {
			t.Errorf("Balance(nil) = (%v, %+v), want empty", balanced, stats)
		}
	})
}
