// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package diversity computes concentration and diversity indices over the
// genre-share panels: normalized Herfindahl-Hirschman diversity (1 - HHI)
// and Shannon entropy per company-year, plus yearly averages and firm-age
// profiles under minimum game-count thresholds.
//
// It consumes the share engine's output and doubles as a validation of the
// core's contract: a share vector that sums to zero or contains NaN would
// surface here immediately.
package diversity

import (
	"math"
	"sort"
	"strconv"

	"github.com/pipeton8/ludopanel/internal/panel"
)

// Metric holds the indices for one company-year.
type Metric struct {
	CompanyID   int64
	CompanyName string
	Year        int

	// SharesSum is the raw sum of the share vector before normalization.
	SharesSum float64

	// NumGenres counts indicators with a nonzero share.
	NumGenres int

	// Diversity is 1 - HHI of the normalized shares, in [0, 1].
	Diversity float64

	// Entropy is the Shannon entropy of the normalized shares.
	Entropy float64
}

// Compute derives per-company-year metrics from panel records.
// Records whose shares sum to zero or whose year falls outside
// [yearMin, yearMax] are skipped.
func Compute(records []panel.Record, yearMin, yearMax int) []Metric {
	metrics := make([]Metric, 0, len(records))

	for i := range records {
		record := &records[i]
		if record.Year < yearMin || record.Year > yearMax {
			continue
		}

		var sum float64
		for _, share := range record.Shares {
			sum += share
		}
		if sum <= 0 {
			continue
		}

		var hhi, entropy float64
		numGenres := 0
		for _, share := range record.Shares {
			if share <= 0 {
				continue
			}
			p := share / sum
			hhi += p * p
			entropy -= p * math.Log(p)
			numGenres++
		}

		metrics = append(metrics, Metric{
			CompanyID:   record.CompanyID,
			CompanyName: record.CompanyName,
			Year:        record.Year,
			SharesSum:   sum,
			NumGenres:   numGenres,
			Diversity:   1 - hhi,
			Entropy:     entropy,
		})
	}

	return metrics
}

// CompanyTotals returns each company's total game count, taken as the
// maximum cumulative count across its observed records.
func CompanyTotals(records []panel.Record) map[int64]int64 {
	totals := make(map[int64]int64)
	for i := range records {
		if records[i].NumGames > totals[records[i].CompanyID] {
			totals[records[i].CompanyID] = records[i].NumGames
		}
	}
	return totals
}

// Point is one averaged observation of a series; X is a year or a firm age.
type Point struct {
	X         int
	Diversity float64
	Entropy   float64

	// Companies is the number of company-years averaged into the point.
	Companies int
}

// Series holds the yearly and firm-age profiles for one threshold.
type Series struct {
	// Threshold is the minimum total game count; 0 means all companies.
	Threshold int

	Yearly []Point
	Age    []Point
}

// Label names the threshold for dataset output.
func (s Series) Label() string {
	if s.Threshold == 0 {
		return "All"
	}
	return ">= " + strconv.Itoa(s.Threshold) + " games"
}

// BuildSeries computes the unfiltered series plus one series per threshold.
func BuildSeries(metrics []Metric, totals map[int64]int64, thresholds []int, ageMax int) []Series {
	series := make([]Series, 0, len(thresholds)+1)
	for _, threshold := range append([]int{0}, thresholds...) {
		filtered := metrics
		if threshold > 0 {
			filtered = make([]Metric, 0, len(metrics))
			for _, m := range metrics {
				if totals[m.CompanyID] >= int64(threshold) {
					filtered = append(filtered, m)
				}
			}
		}
		series = append(series, Series{
			Threshold: threshold,
			Yearly:    yearlyAverages(filtered),
			Age:       ageProfiles(filtered, ageMax),
		})
	}
	return series
}

// yearlyAverages averages the indices per calendar year.
func yearlyAverages(metrics []Metric) []Point {
	return averageBy(metrics, func(m Metric) (int, bool) {
		return m.Year, true
	})
}

// ageProfiles averages the indices per firm age, where a company's age in a
// year is the offset from its first in-window year. Ages above ageMax are
// dropped.
func ageProfiles(metrics []Metric, ageMax int) []Point {
	firstYear := make(map[int64]int)
	for _, m := range metrics {
		if first, ok := firstYear[m.CompanyID]; !ok || m.Year < first {
			firstYear[m.CompanyID] = m.Year
		}
	}

	return averageBy(metrics, func(m Metric) (int, bool) {
		age := m.Year - firstYear[m.CompanyID]
		return age, age >= 0 && age <= ageMax
	})
}

// averageBy groups metrics by key and averages diversity and entropy,
// returning points sorted by key.
func averageBy(metrics []Metric, key func(Metric) (int, bool)) []Point {
	type accumulator struct {
		diversity float64
		entropy   float64
		count     int
	}

	groups := make(map[int]*accumulator)
	for _, m := range metrics {
		k, ok := key(m)
		if !ok {
			continue
		}
		acc := groups[k]
		if acc == nil {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.diversity += m.Diversity
		acc.entropy += m.Entropy
		acc.count++
	}

	points := make([]Point, 0, len(groups))
	for k, acc := range groups {
		points = append(points, Point{
			X:         k,
			Diversity: acc.diversity / float64(acc.count),
			Entropy:   acc.entropy / float64(acc.count),
			Companies: acc.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })

	return points
}

// DatasetRow is one row of the combined figure dataset.
type DatasetRow struct {
	X              int
	Diversity      float64
	Entropy        float64
	Entity         string
	Threshold      int // 0 = all
	ThresholdLabel string
}

// CombineYear flattens the yearly series of both roles into one dataset.
func CombineYear(developer, publisher []Series) []DatasetRow {
	return combine(developer, publisher, func(s Series) []Point { return s.Yearly })
}

// CombineAge flattens the firm-age series of both roles into one dataset.
func CombineAge(developer, publisher []Series) []DatasetRow {
	return combine(developer, publisher, func(s Series) []Point { return s.Age })
}

func combine(developer, publisher []Series, points func(Series) []Point) []DatasetRow {
	var rows []DatasetRow
	for _, group := range []struct {
		entity string
		series []Series
	}{
		{"Developer", developer},
		{"Publisher", publisher},
	} {
		for _, s := range group.series {
			for _, p := range points(s) {
				rows = append(rows, DatasetRow{
					X:              p.X,
					Diversity:      p.Diversity,
					Entropy:        p.Entropy,
					Entity:         group.entity,
					Threshold:      s.Threshold,
					ThresholdLabel: s.Label(),
				})
			}
		}
	}
	return rows
}
