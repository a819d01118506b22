// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package catalog

import (
	"reflect"
	"testing"
)

// TestParseGame tests raw payload decoding into Game records
func TestParseGame(t *testing.T) {
	const minYear, maxYear = 1970, 2026

	t.Run("full payload", func(t *testing.T) {
		raw := []byte(`{
			"developers": [{"id": 10}, {"id": 20}, {"id": 10}],
			"publishers": [{"id": 30}],
			"platforms": [
				{"releases": [{"release_date": "1998-11-20"}, {"release_date": "2001-03-01"}]},
				{"releases": [{"release_date": "1997"}]}
			]
		}`)

		game, err := parseGame(42, "Half-Decent Game", raw, minYear, maxYear)
		if err != nil {
			t.Fatalf("parseGame failed: %v", err)
		}

		if game.ID != 42 || game.Title != "Half-Decent Game" {
			t.Errorf("identity = (%d, %q), want (42, Half-Decent Game)", game.ID, game.Title)
		}
		if !reflect.DeepEqual(game.DeveloperIDs, []int64{10, 20}) {
			t.Errorf("DeveloperIDs = %v, want [10 20] (deduplicated, first-seen order)", game.DeveloperIDs)
		}
		if !reflect.DeepEqual(game.PublisherIDs, []int64{30}) {
			t.Errorf("PublisherIDs = %v, want [30]", game.PublisherIDs)
		}
		if game.ReleaseYear != 1997 {
			t.Errorf("ReleaseYear = %d, want 1997 (earliest across platforms)", game.ReleaseYear)
		}
	})

	t.Run("empty payload is an error", func(t *testing.T) {
		if _, err := parseGame(1, "", nil, minYear, maxYear); err == nil {
			t.Error("parseGame with empty payload succeeded, want error")
		}
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		if _, err := parseGame(1, "", []byte(`{"developers": [`), minYear, maxYear); err == nil {
			t.Error("parseGame with malformed JSON succeeded, want error")
		}
	})

	t.Run("missing attributes decode to zero values", func(t *testing.T) {
		game, err := parseGame(7, "Sparse", []byte(`{}`), minYear, maxYear)
		if err != nil {
			t.Fatalf("parseGame failed: %v", err)
		}
		if game.DeveloperIDs != nil || game.PublisherIDs != nil {
			t.Errorf("company IDs = (%v, %v), want (nil, nil)", game.DeveloperIDs, game.PublisherIDs)
		}
		if game.ReleaseYear != 0 {
			t.Errorf("ReleaseYear = %d, want 0 (unresolved)", game.ReleaseYear)
		}
	})

	t.Run("company references without IDs are skipped", func(t *testing.T) {
		raw := []byte(`{"developers": [{"id": null}, {}], "publishers": [{"id": 5}, {}]}`)
		game, err := parseGame(7, "", raw, minYear, maxYear)
		if err != nil {
			t.Fatalf("parseGame failed: %v", err)
		}
		if game.DeveloperIDs != nil {
			t.Errorf("DeveloperIDs = %v, want nil", game.DeveloperIDs)
		}
		if !reflect.DeepEqual(game.PublisherIDs, []int64{5}) {
			t.Errorf("PublisherIDs = %v, want [5]", game.PublisherIDs)
		}
	})

	t.Run("out-of-window dates do not resolve a year", func(t *testing.T) {
		raw := []byte(`{"platforms": [{"releases": [
			{"release_date": "1869-01-01"},
			{"release_date": "2155"},
			{"release_date": "TBA"},
			{"release_date": ""}
		]}]}`)
		game, err := parseGame(7, "", raw, minYear, maxYear)
		if err != nil {
			t.Fatalf("parseGame failed: %v", err)
		}
		if game.ReleaseYear != 0 {
			t.Errorf("ReleaseYear = %d, want 0", game.ReleaseYear)
		}
	})
}

// TestParseYear tests release date year extraction
func TestParseYear(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		want   int
		wantOK bool
	}{
		{name: "full date", date: "1998-11-20", want: 1998, wantOK: true},
		{name: "year only", date: "1998", want: 1998, wantOK: true},
		{name: "year and month", date: "2003-07", want: 2003, wantOK: true},
		{name: "below window", date: "1969-12-31", wantOK: false},
		{name: "above window", date: "2101-01-01", wantOK: false},
		{name: "non-numeric", date: "unknown", wantOK: false},
		{name: "empty", date: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseYear(tt.date, 1970, 2100)
			if ok != tt.wantOK {
				t.Fatalf("parseYear(%q) ok = %v, want %v", tt.date, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseYear(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}
