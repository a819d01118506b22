// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package config defines the pipeline configuration and its layered loading
// (struct defaults, optional YAML file, environment overrides).
package config

import (
	"fmt"
	"time"

	"github.com/pipeton8/ludopanel/internal/validation"
)

// Config is the root configuration for a pipeline run.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Output    OutputConfig    `koanf:"output"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Diversity DiversityConfig `koanf:"diversity"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	History   HistoryConfig   `koanf:"history"`
}

// CatalogConfig locates the input corpus.
type CatalogConfig struct {
	// DBPath is the SQLite game catalog (games table with raw JSON payloads).
	DBPath string `koanf:"db_path" validate:"required"`

	// GenreVectorsPath is the CSV holding game_id plus the binary genre
	// indicator columns (category_<N>_genre_<M> naming).
	GenreVectorsPath string `koanf:"genre_vectors_path" validate:"required"`

	// DevelopersPath and PublishersPath are the company lookup CSVs (id, name).
	DevelopersPath string `koanf:"developers_path" validate:"required"`
	PublishersPath string `koanf:"publishers_path" validate:"required"`

	// MinYear is the lower bound of the release-year sanity window.
	// Years outside [MinYear, MaxYear] are treated as unresolvable.
	MinYear int `koanf:"min_year" validate:"gte=1900,lte=2100"`

	// MaxYear is the upper bound; 0 means the current wall-clock year.
	MaxYear int `koanf:"max_year" validate:"eq=0|gte=1900"`
}

// EffectiveMaxYear resolves MaxYear, defaulting to the current year.
func (c CatalogConfig) EffectiveMaxYear() int {
	if c.MaxYear > 0 {
		return c.MaxYear
	}
	return time.Now().Year()
}

// OutputConfig locates the flat-file sinks.
type OutputConfig struct {
	// Dir is the directory for panel and diversity CSVs.
	Dir string `koanf:"dir" validate:"required"`

	// DeveloperPanel and PublisherPanel are the panel CSV file names.
	DeveloperPanel string `koanf:"developer_panel" validate:"required"`
	PublisherPanel string `koanf:"publisher_panel" validate:"required"`

	// ReportDir is where the audit report and run logs are written.
	ReportDir string `koanf:"report_dir" validate:"required"`
}

// PipelineConfig tunes the transform itself.
type PipelineConfig struct {
	// Workers bounds the per-company parallelism of the share engine.
	// 0 means runtime.NumCPU().
	Workers int `koanf:"workers" validate:"gte=0"`

	// SpotCheckSamples is how many company-years the post-hoc verifier
	// recomputes by brute force against the engine output.
	SpotCheckSamples int `koanf:"spot_check_samples" validate:"gte=0"`

	// MissingRoleFailRatio: the "games with developers/publishers" check
	// fails when more than this fraction of games lack the role.
	MissingRoleFailRatio float64 `koanf:"missing_role_fail_ratio" validate:"gt=0,lte=1"`

	// MissingYearFailRatio: the "games with release year" check fails when
	// more than this fraction of games lack a resolvable year.
	MissingYearFailRatio float64 `koanf:"missing_year_fail_ratio" validate:"gt=0,lte=1"`
}

// DiversityConfig tunes the downstream diversity analyzer.
type DiversityConfig struct {
	Enabled bool `koanf:"enabled"`

	// YearMin and YearMax bound the company-years included in the indices.
	YearMin int `koanf:"year_min" validate:"gte=1900"`
	YearMax int `koanf:"year_max" validate:"gte=1900"`

	// AgeMax bounds the firm-age profiles.
	AgeMax int `koanf:"age_max" validate:"gte=0"`

	// Thresholds are minimum total-game counts for the filtered series;
	// the unfiltered ("all") series is always produced.
	Thresholds []int `koanf:"thresholds"`
}

// LoggingConfig mirrors logging.Config for koanf unmarshaling.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig controls prometheus metric publication.
type MetricsConfig struct {
	// PushgatewayURL, when set, receives the run's metrics on completion.
	PushgatewayURL string `koanf:"pushgateway_url" validate:"omitempty,url"`

	// JobName labels the pushed metrics.
	JobName string `koanf:"job_name" validate:"required"`
}

// HistoryConfig controls badger-backed run-history persistence.
type HistoryConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the badger directory holding past run reports.
	Path string `koanf:"path" validate:"required_if=Enabled true"`
}

// Validate checks the configuration invariants.
// Called once at load time so violations abort the run early instead of
// propagating missing values downstream.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.Catalog.MaxYear != 0 && c.Catalog.MaxYear < c.Catalog.MinYear {
		return fmt.Errorf("catalog.max_year %d precedes catalog.min_year %d", c.Catalog.MaxYear, c.Catalog.MinYear)
	}
	if c.Diversity.YearMax < c.Diversity.YearMin {
		return fmt.Errorf("diversity.year_max %d precedes diversity.year_min %d", c.Diversity.YearMax, c.Diversity.YearMin)
	}
	for _, threshold := range c.Diversity.Thresholds {
		if threshold < 1 {
			return fmt.Errorf("diversity.thresholds entries must be >= 1, got %d", threshold)
		}
	}
	return nil
}
