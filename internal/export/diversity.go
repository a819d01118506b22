// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package export

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pipeton8/ludopanel/internal/diversity"
)

// WriteDiversityDataset writes a combined diversity dataset to path. xColumn
// names the first column ("Year" or "Age"). Returns the number of data rows
// written.
func WriteDiversityDataset(path, xColumn string, rows []diversity.DatasetRow) (int64, error) {
	file, err := createFile(path)
	if err != nil {
		return 0, err
	}
	defer file.Close() //nolint:errcheck // double-close after explicit Close below

	w := csv.NewWriter(file)
	header := []string{xColumn, "diversity", "entropy", "entity", "threshold", "threshold_label"}
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("write diversity header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = strconv.Itoa(row.X)
		record[1] = formatShare(row.Diversity)
		record[2] = formatShare(row.Entropy)
		record[3] = row.Entity
		record[4] = strconv.Itoa(row.Threshold)
		record[5] = row.ThresholdLabel
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("write diversity row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush diversity dataset: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close diversity file: %w", err)
	}

	return int64(len(rows)), nil
}
