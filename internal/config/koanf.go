// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"ludopanel.yaml",
	"ludopanel.yml",
	"/etc/ludopanel/config.yaml",
	"/etc/ludopanel/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			DBPath:           "data/moby_games.db",
			GenreVectorsPath: "data/game_genre_vectors.csv",
			DevelopersPath:   "data/developers.csv",
			PublishersPath:   "data/publishers.csv",
			MinYear:          1970,
			MaxYear:          0, // current year
		},
		Output: OutputConfig{
			Dir:            "out",
			DeveloperPanel: "developer_genre_shares.csv",
			PublisherPanel: "publisher_genre_shares.csv",
			ReportDir:      "logs",
		},
		Pipeline: PipelineConfig{
			Workers:              0, // runtime.NumCPU()
			SpotCheckSamples:     3,
			MissingRoleFailRatio: 0.5,
			MissingYearFailRatio: 0.3,
		},
		Diversity: DiversityConfig{
			Enabled:    true,
			YearMin:    1990,
			YearMax:    2023,
			AgeMax:     30,
			Thresholds: []int{2, 5, 10},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Metrics: MetricsConfig{
			PushgatewayURL: "",
			JobName:        "ludopanel",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "data/history",
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML (if present)
//  3. Environment variables: override any setting
//
// Precedence: ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	// Env vars arrive as strings; parse the int-slice field explicitly.
	if err := processThresholds(k); err != nil {
		return nil, fmt.Errorf("process diversity thresholds: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processThresholds converts a comma-separated diversity.thresholds string
// (from an env var) into an int slice. YAML-sourced slices pass through.
func processThresholds(k *koanf.Koanf) error {
	const path = "diversity.thresholds"

	val := k.Get(path)
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil
	}

	parts := strings.Split(strVal, ",")
	thresholds := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("threshold %q is not an integer: %w", p, err)
		}
		thresholds = append(thresholds, n)
	}
	if len(thresholds) > 0 {
		return k.Set(path, thresholds)
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment noise cannot pollute
// the configuration.
//
// Examples:
//   - CATALOG_DB_PATH -> catalog.db_path
//   - OUTPUT_DIR -> output.dir
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Catalog mappings
		"catalog_db_path":     "catalog.db_path",
		"genre_vectors_path":  "catalog.genre_vectors_path",
		"developers_csv_path": "catalog.developers_path",
		"publishers_csv_path": "catalog.publishers_path",
		"catalog_min_year":    "catalog.min_year",
		"catalog_max_year":    "catalog.max_year",

		// Output mappings
		"output_dir":           "output.dir",
		"developer_panel_file": "output.developer_panel",
		"publisher_panel_file": "output.publisher_panel",
		"report_dir":           "output.report_dir",

		// Pipeline mappings
		"pipeline_workers":        "pipeline.workers",
		"spot_check_samples":      "pipeline.spot_check_samples",
		"missing_role_fail_ratio": "pipeline.missing_role_fail_ratio",
		"missing_year_fail_ratio": "pipeline.missing_year_fail_ratio",

		// Diversity mappings
		"diversity_enabled":    "diversity.enabled",
		"diversity_year_min":   "diversity.year_min",
		"diversity_year_max":   "diversity.year_max",
		"diversity_age_max":    "diversity.age_max",
		"diversity_thresholds": "diversity.thresholds",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Metrics mappings
		"pushgateway_url":  "metrics.pushgateway_url",
		"metrics_job_name": "metrics.job_name",

		// History mappings
		"history_enabled": "history.enabled",
		"history_path":    "history.path",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are dropped.
	return ""
}
