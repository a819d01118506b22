// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pipeton8/ludopanel/internal/diversity"
	"github.com/pipeton8/ludopanel/internal/genre"
	"github.com/pipeton8/ludopanel/internal/panel"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

// TestWritePanel tests panel CSV serialization
func TestWritePanel(t *testing.T) {
	hierarchy, err := genre.BuildHierarchy([]string{
		"category_1_genre_1",
		"category_1_genre_2",
		"category_2_genre_1",
	})
	if err != nil {
		t.Fatalf("BuildHierarchy failed: %v", err)
	}

	records := []panel.Record{
		{CompanyID: 200, CompanyName: "Beta Games", Year: 2000, NumGames: 1, Shares: []float64{0, 1, 0}},
		{CompanyID: 100, CompanyName: "Alpha Studios", Year: 2001, NumGames: 2, Shares: []float64{0.5, 0.5, 1}},
		{CompanyID: 100, CompanyName: "Alpha Studios", Year: 2000, NumGames: 1, Shares: []float64{1, 0, 0}},
	}

	path := filepath.Join(t.TempDir(), "out", "developer_genre_shares.csv")
	written, err := WritePanel(path, hierarchy, records)
	if err != nil {
		t.Fatalf("WritePanel failed: %v", err)
	}
	if written != 3 {
		t.Errorf("written = %d, want 3", written)
	}

	rows := readCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("CSV has %d rows, want header + 3", len(rows))
	}

	t.Run("header is four fixed columns plus one share per indicator", func(t *testing.T) {
		want := []string{
			"company_id", "company_name", "Year", "num_games",
			"category_1_genre_1_share", "category_1_genre_2_share", "category_2_genre_1_share",
		}
		if !reflect.DeepEqual(rows[0], want) {
			t.Errorf("header = %v, want %v", rows[0], want)
		}
	})

	t.Run("rows are sorted by (Year, company_id)", func(t *testing.T) {
		wantOrder := [][2]string{
			{"100", "2000"},
			{"200", "2000"},
			{"100", "2001"},
		}
		for i, want := range wantOrder {
			if rows[i+1][0] != want[0] || rows[i+1][2] != want[1] {
				t.Errorf("row %d = (%s, %s), want (%s, %s)", i+1, rows[i+1][0], rows[i+1][2], want[0], want[1])
			}
		}
	})

	t.Run("values are rendered exactly", func(t *testing.T) {
		want := []string{"100", "Alpha Studios", "2001", "2", "0.5", "0.5", "1"}
		if !reflect.DeepEqual(rows[3], want) {
			t.Errorf("row = %v, want %v", rows[3], want)
		}
	})
}

// TestWritePanelEmpty tests that an empty panel still writes the header
func TestWritePanelEmpty(t *testing.T) {
	hierarchy, err := genre.BuildHierarchy([]string{"category_1_genre_1"})
	if err != nil {
		t.Fatalf("BuildHierarchy failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	written, err := WritePanel(path, hierarchy, nil)
	if err != nil {
		t.Fatalf("WritePanel failed: %v", err)
	}
	if written != 0 {
		t.Errorf("written = %d, want 0", written)
	}

	rows := readCSV(t, path)
	if len(rows) != 1 || len(rows[0]) != 5 {
		t.Errorf("CSV = %v, want lone 5-column header", rows)
	}
}

// TestWriteDiversityDataset tests diversity dataset serialization
func TestWriteDiversityDataset(t *testing.T) {
	data := []diversity.DatasetRow{
		{X: 2000, Diversity: 0.75, Entropy: 1.5, Entity: "Developer", Threshold: 0, ThresholdLabel: "All"},
		{X: 2000, Diversity: 0.5, Entropy: 1, Entity: "Publisher", Threshold: 5, ThresholdLabel: ">= 5 games"},
	}

	path := filepath.Join(t.TempDir(), "diversity_by_year.csv")
	written, err := WriteDiversityDataset(path, "Year", data)
	if err != nil {
		t.Fatalf("WriteDiversityDataset failed: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}

	rows := readCSV(t, path)
	wantHeader := []string{"Year", "diversity", "entropy", "entity", "threshold", "threshold_label"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	want := []string{"2000", "0.5", "1", "Publisher", "5", ">= 5 games"}
	if !reflect.DeepEqual(rows[2], want) {
		t.Errorf("row = %v, want %v", rows[2], want)
	}
}
