// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package metrics instruments the pipeline with Prometheus collectors.
//
// Ludopanel is a batch job, so collectors live on a private registry rather
// than the process-global default, and the registry is pushed to a
// Pushgateway once at the end of the run (when one is configured) instead of
// being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics bundles the run collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	// Extraction
	GamesExtracted  prometheus.Gauge
	GamesParsed     prometheus.Gauge
	ParseErrors     prometheus.Counter
	StageDuration   *prometheus.GaugeVec
	RunDuration     prometheus.Gauge
	RunSuccess      prometheus.Gauge
	LastRunUnixtime prometheus.Gauge

	// Per-role panel metrics, labeled "developer" / "publisher".
	RowsExpanded      *prometheus.GaugeVec
	RowsDeduplicated  *prometheus.GaugeVec
	GamesDropped      *prometheus.GaugeVec
	Companies         *prometheus.GaugeVec
	PanelRecords      *prometheus.GaugeVec
	SynthesizedYears  *prometheus.GaugeVec
	AuditChecksFailed prometheus.Gauge
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		GamesExtracted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_games_extracted",
			Help: "Number of catalog rows read from the games table",
		}),
		GamesParsed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_games_parsed",
			Help: "Number of games with a successfully parsed metadata payload",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ludopanel_parse_errors_total",
			Help: "Total number of metadata payloads that failed to parse",
		}),
		StageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_stage_duration_seconds",
			Help: "Wall-clock duration of each pipeline stage",
		}, []string{"stage"}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_run_duration_seconds",
			Help: "Wall-clock duration of the full pipeline run",
		}),
		RunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_run_success",
			Help: "1 if the run completed with all audit checks passing, else 0",
		}),
		LastRunUnixtime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed run",
		}),

		RowsExpanded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_rows_expanded",
			Help: "Number of (game, company, year) rows after expansion",
		}, []string{"role"}),
		RowsDeduplicated: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_rows_deduplicated",
			Help: "Number of duplicate (game, company, year) rows removed",
		}, []string{"role"}),
		GamesDropped: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_games_dropped",
			Help: "Number of games excluded from expansion for this role",
		}, []string{"role"}),
		Companies: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_companies",
			Help: "Number of distinct companies in the balanced panel",
		}, []string{"role"}),
		PanelRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_panel_records",
			Help: "Number of company-year records in the balanced panel",
		}, []string{"role"}),
		SynthesizedYears: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ludopanel_synthesized_years",
			Help: "Number of gap-year records created by balancing",
		}, []string{"role"}),
		AuditChecksFailed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ludopanel_audit_checks_failed",
			Help: "Number of audit checks that failed during the run",
		}),
	}
}

// ObserveStage records a stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// Push sends the registry to the Pushgateway at url, grouped by run ID. A
// failed push is reported but must not fail the run; the caller logs it.
func (m *Metrics) Push(url, job, runID string) error {
	if url == "" {
		return nil
	}

	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
