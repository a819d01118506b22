// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package catalog

import "testing"

// TestAttachedSchemaName tests the schema name derived from the catalog path,
// which the detach statement must match for any configured filename
func TestAttachedSchemaName(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
		want   string
	}{
		{name: "default catalog", dbPath: "data/moby_games.db", want: "moby_games"},
		{name: "other filename", dbPath: "/srv/catalogs/snapshot_2026.db", want: "snapshot_2026"},
		{name: "sqlite extension", dbPath: "games.sqlite", want: "games"},
		{name: "no extension", dbPath: "/tmp/catalog", want: "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attachedSchemaName(tt.dbPath); got != tt.want {
				t.Errorf("attachedSchemaName(%q) = %q, want %q", tt.dbPath, got, tt.want)
			}
		})
	}
}
