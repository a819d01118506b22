// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package pipeline

import (
	"testing"

	"github.com/pipeton8/ludopanel/internal/catalog"
)

// TestYearsInWindow tests the release-year window audit predicate
func TestYearsInWindow(t *testing.T) {
	tests := []struct {
		name  string
		stats catalog.ExtractStats
		want  bool
	}{
		{
			name:  "years inside window",
			stats: catalog.ExtractStats{MinYear: 1985, MaxYear: 2020},
			want:  true,
		},
		{
			name:  "min year below window",
			stats: catalog.ExtractStats{MinYear: 1960, MaxYear: 2020},
			want:  false,
		},
		{
			name:  "max year above window",
			stats: catalog.ExtractStats{MinYear: 1985, MaxYear: 2030},
			want:  false,
		},
		{
			name:  "no game resolved a year",
			stats: catalog.ExtractStats{MinYear: 0, MaxYear: 0},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearsInWindow(tt.stats, 1970, 2026); got != tt.want {
				t.Errorf("yearsInWindow(%+v) = %v, want %v", tt.stats, got, tt.want)
			}
		})
	}
}

// TestRatio tests the zero-denominator guard
func TestRatio(t *testing.T) {
	if got := ratio(1, 0); got != 0 {
		t.Errorf("ratio(1, 0) = %v, want 0", got)
	}
	if got := ratio(1, 4); got != 0.25 {
		t.Errorf("ratio(1, 4) = %v, want 0.25", got)
	}
}
