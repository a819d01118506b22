// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package export serializes the balanced panels and diversity datasets to
// flat CSV files, the boundary consumed by downstream reporting and
// plotting.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pipeton8/ludopanel/internal/genre"
	"github.com/pipeton8/ludopanel/internal/panel"
)

// panelFixedColumns precede the per-indicator share columns.
var panelFixedColumns = []string{"company_id", "company_name", "Year", "num_games"}

// WritePanel writes one balanced panel to path. Rows are sorted ascending by
// (Year, company_id); columns are the four fixed columns followed by one
// <indicator>_share column per indicator (4 + G total, verified). Returns
// the number of data rows written.
func WritePanel(path string, hierarchy *genre.Hierarchy, records []panel.Record) (int64, error) {
	header := make([]string, 0, len(panelFixedColumns)+hierarchy.G())
	header = append(header, panelFixedColumns...)
	for _, col := range hierarchy.Columns {
		header = append(header, col+"_share")
	}
	if len(header) != len(panelFixedColumns)+hierarchy.G() {
		return 0, fmt.Errorf("panel header has %d columns, want %d", len(header), len(panelFixedColumns)+hierarchy.G())
	}

	// Output-time deterministic sort; the input order (company, year) is
	// left untouched for the caller.
	sorted := make([]panel.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].CompanyID < sorted[j].CompanyID
	})

	file, err := createFile(path)
	if err != nil {
		return 0, err
	}
	defer file.Close() //nolint:errcheck // double-close after explicit Close below

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("write panel header: %w", err)
	}

	row := make([]string, len(header))
	for i := range sorted {
		record := &sorted[i]
		row[0] = strconv.FormatInt(record.CompanyID, 10)
		row[1] = record.CompanyName
		row[2] = strconv.Itoa(record.Year)
		row[3] = strconv.FormatInt(record.NumGames, 10)
		for col, share := range record.Shares {
			row[4+col] = formatShare(share)
		}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("write panel row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush panel: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close panel file: %w", err)
	}

	return int64(len(sorted)), nil
}

// formatShare renders a share with round-trip precision, keeping exact
// zeros as "0".
func formatShare(share float64) string {
	return strconv.FormatFloat(share, 'g', -1, 64)
}

// createFile creates path, making parent directories as needed.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return file, nil
}
