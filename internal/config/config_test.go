// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestLoadDefaults tests the built-in configuration layer
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.MinYear != 1970 {
		t.Errorf("Catalog.MinYear = %d, want 1970", cfg.Catalog.MinYear)
	}
	if cfg.Catalog.MaxYear != 0 {
		t.Errorf("Catalog.MaxYear = %d, want 0 (current year)", cfg.Catalog.MaxYear)
	}
	if cfg.Output.DeveloperPanel != "developer_genre_shares.csv" {
		t.Errorf("Output.DeveloperPanel = %q", cfg.Output.DeveloperPanel)
	}
	if cfg.Pipeline.Workers != 0 {
		t.Errorf("Pipeline.Workers = %d, want 0 (NumCPU)", cfg.Pipeline.Workers)
	}
	if !cfg.Diversity.Enabled {
		t.Error("Diversity.Enabled = false, want true")
	}
	if !reflect.DeepEqual(cfg.Diversity.Thresholds, []int{2, 5, 10}) {
		t.Errorf("Diversity.Thresholds = %v, want [2 5 10]", cfg.Diversity.Thresholds)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Metrics.JobName != "ludopanel" {
		t.Errorf("Metrics.JobName = %q, want ludopanel", cfg.Metrics.JobName)
	}
}

// TestLoadEnvOverrides tests environment variable precedence
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_DB_PATH", "/srv/moby.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("DIVERSITY_THRESHOLDS", "3, 7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.DBPath != "/srv/moby.db" {
		t.Errorf("Catalog.DBPath = %q, want /srv/moby.db", cfg.Catalog.DBPath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Pipeline.Workers != 8 {
		t.Errorf("Pipeline.Workers = %d, want 8", cfg.Pipeline.Workers)
	}
	if !reflect.DeepEqual(cfg.Diversity.Thresholds, []int{3, 7}) {
		t.Errorf("Diversity.Thresholds = %v, want [3 7]", cfg.Diversity.Thresholds)
	}
}

// TestLoadConfigFile tests the YAML file layer
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ludopanel.yaml")
	yaml := []byte("output:\n  dir: /data/out\nlogging:\n  format: console\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Dir != "/data/out" {
		t.Errorf("Output.Dir = %q, want /data/out", cfg.Output.Dir)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	// Untouched keys keep their defaults.
	if cfg.Output.ReportDir != "logs" {
		t.Errorf("Output.ReportDir = %q, want logs", cfg.Output.ReportDir)
	}
}

// TestValidate tests cross-field configuration invariants
func TestValidate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.Catalog.DBPath = "" },
			wantErr: true,
		},
		{
			name:    "max year before min year",
			mutate:  func(c *Config) { c.Catalog.MaxYear = 1960 },
			wantErr: true,
		},
		{
			name:    "diversity window inverted",
			mutate:  func(c *Config) { c.Diversity.YearMax = c.Diversity.YearMin - 1 },
			wantErr: true,
		},
		{
			name:    "zero threshold",
			mutate:  func(c *Config) { c.Diversity.Thresholds = []int{0} },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad pushgateway URL",
			mutate:  func(c *Config) { c.Metrics.PushgatewayURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Pipeline.Workers = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestEffectiveMaxYear tests the wall-clock default
func TestEffectiveMaxYear(t *testing.T) {
	c := CatalogConfig{MaxYear: 0}
	if got := c.EffectiveMaxYear(); got != time.Now().Year() {
		t.Errorf("EffectiveMaxYear() = %d, want current year", got)
	}

	c.MaxYear = 2020
	if got := c.EffectiveMaxYear(); got != 2020 {
		t.Errorf("EffectiveMaxYear() = %d, want 2020", got)
	}
}

// TestEnvTransformFunc tests the explicit env mapping table
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"CATALOG_DB_PATH", "catalog.db_path"},
		{"OUTPUT_DIR", "output.dir"},
		{"LOG_LEVEL", "logging.level"},
		{"PUSHGATEWAY_URL", "metrics.pushgateway_url"},
		{"HISTORY_PATH", "history.path"},
		{"PATH", ""},   // unmapped noise is dropped
		{"RANDOM", ""}, // unmapped noise is dropped
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
