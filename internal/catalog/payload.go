// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Game is a parsed catalog record.
type Game struct {
	ID    int64
	Title string

	// ReleaseYear is the minimum resolvable year across all platform
	// releases, restricted to the sanity window. 0 means unresolved.
	ReleaseYear int

	// DeveloperIDs and PublisherIDs are the distinct company IDs attached
	// to the game for each role.
	DeveloperIDs []int64
	PublisherIDs []int64
}

// gamePayload mirrors the raw JSON document stored in the catalog.
// Only the fields the pipeline consumes are declared.
type gamePayload struct {
	Developers []companyRef `json:"developers"`
	Publishers []companyRef `json:"publishers"`
	Platforms  []platform   `json:"platforms"`
}

type companyRef struct {
	ID *int64 `json:"id"`
}

type platform struct {
	Releases []release `json:"releases"`
}

type release struct {
	ReleaseDate string `json:"release_date"`
}

// parseGame decodes a raw catalog payload into a Game.
// A payload that fails to decode is a recoverable per-record error: the
// caller skips the game and counts it.
func parseGame(id int64, title string, rawData []byte, minYear, maxYear int) (Game, error) {
	if len(rawData) == 0 {
		return Game{}, fmt.Errorf("empty payload")
	}

	var payload gamePayload
	if err := json.Unmarshal(rawData, &payload); err != nil {
		return Game{}, fmt.Errorf("decode payload: %w", err)
	}

	game := Game{
		ID:           id,
		Title:        title,
		DeveloperIDs: companyIDs(payload.Developers),
		PublisherIDs: companyIDs(payload.Publishers),
		ReleaseYear:  earliestReleaseYear(payload.Platforms, minYear, maxYear),
	}

	return game, nil
}

// companyIDs extracts the distinct company IDs from a reference list,
// preserving first-seen order. References without an ID are skipped.
func companyIDs(refs []companyRef) []int64 {
	if len(refs) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if ref.ID == nil {
			continue
		}
		if _, dup := seen[*ref.ID]; dup {
			continue
		}
		seen[*ref.ID] = struct{}{}
		ids = append(ids, *ref.ID)
	}

	if len(ids) == 0 {
		return nil
	}
	return ids
}

// earliestReleaseYear resolves the minimum in-range year across all platform
// release dates. Unparseable or out-of-range dates are dropped before taking
// the minimum. Returns 0 when no date resolves.
func earliestReleaseYear(platforms []platform, minYear, maxYear int) int {
	earliest := 0
	for _, p := range platforms {
		for _, rel := range p.Releases {
			year, ok := parseYear(rel.ReleaseDate, minYear, maxYear)
			if !ok {
				continue
			}
			if earliest == 0 || year < earliest {
				earliest = year
			}
		}
	}
	return earliest
}

// parseYear extracts the leading year from a release date such as
// "1998-11-20" or "1998" and checks it against the sanity window.
func parseYear(date string, minYear, maxYear int) (int, bool) {
	if date == "" {
		return 0, false
	}

	head, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	if year < minYear || year > maxYear {
		return 0, false
	}
	return year, true
}
