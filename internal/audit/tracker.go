// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

// Package audit accumulates the verification trail of a pipeline run.
//
// The pipeline is an audited ETL, not a transactional system: data-quality
// problems and post-hoc verification failures are recorded as structured
// checks and warnings instead of raised as errors. Only fatal schema errors
// abort a run. The tracker is an explicit object threaded through the
// pipeline stages; there is no ambient global state.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Check records the outcome of a single verification.
type Check struct {
	// Step names the pipeline stage that performed the check.
	Step string `json:"step"`

	// Name identifies the check within the step.
	Name string `json:"name"`

	// Passed is the outcome.
	Passed bool `json:"passed"`

	// Details carries the quantitative evidence ("123,456 games parsed").
	Details string `json:"details"`

	// Timestamp is when the check ran.
	Timestamp time.Time `json:"timestamp"`
}

// Warning records a non-fatal data-quality observation.
type Warning struct {
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker accumulates checks and warnings for one pipeline run.
// All methods are safe for concurrent use; engine shards report through the
// same tracker.
type Tracker struct {
	mu       sync.Mutex
	runID    string
	started  time.Time
	checks   []Check
	warnings []Warning
	logger   zerolog.Logger
}

// NewTracker creates a tracker for the given run.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTracker(runID string, logger zerolog.Logger) *Tracker {
	return &Tracker{
		runID:   runID,
		started: time.Now(),
		logger:  logger,
	}
}

// RunID returns the run this tracker belongs to.
func (t *Tracker) RunID() string {
	return t.runID
}

// AddCheck records a verification outcome and logs it.
func (t *Tracker) AddCheck(step, name string, passed bool, details string) {
	check := Check{
		Step:      step,
		Name:      name,
		Passed:    passed,
		Details:   details,
		Timestamp: time.Now(),
	}

	t.mu.Lock()
	t.checks = append(t.checks, check)
	t.mu.Unlock()

	event := t.logger.Info()
	if !passed {
		event = t.logger.Error()
	}
	event.
		Str("step", step).
		Str("check", name).
		Bool("passed", passed).
		Str("details", details).
		Msg("Verification check")
}

// Checkf is AddCheck with formatted details.
func (t *Tracker) Checkf(step, name string, passed bool, format string, args ...interface{}) {
	t.AddCheck(step, name, passed, fmt.Sprintf(format, args...))
}

// Warnf records a data-quality warning and logs it.
func (t *Tracker) Warnf(step, format string, args ...interface{}) {
	warning := Warning{
		Step:      step,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}

	t.mu.Lock()
	t.warnings = append(t.warnings, warning)
	t.mu.Unlock()

	t.logger.Warn().
		Str("step", warning.Step).
		Msg(warning.Message)
}

// Failed returns the checks that did not pass.
func (t *Tracker) Failed() []Check {
	t.mu.Lock()
	defer t.mu.Unlock()

	var failed []Check
	for _, c := range t.checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Counts returns (total, passed, failed, warnings).
func (t *Tracker) Counts() (total, passed, failed, warnings int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	total = len(t.checks)
	for _, c := range t.checks {
		if c.Passed {
			passed++
		}
	}
	failed = total - passed
	warnings = len(t.warnings)
	return total, passed, failed, warnings
}

// Report snapshots the tracker into a RunReport.
func (t *Tracker) Report() *RunReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	checks := make([]Check, len(t.checks))
	copy(checks, t.checks)
	warnings := make([]Warning, len(t.warnings))
	copy(warnings, t.warnings)

	return &RunReport{
		RunID:       t.runID,
		StartedAt:   t.started,
		GeneratedAt: time.Now(),
		Checks:      checks,
		Warnings:    warnings,
	}
}

// LogSummary emits the end-of-run verification summary.
func (t *Tracker) LogSummary() {
	total, passed, failed, warnings := t.Counts()

	t.logger.Info().
		Int("total_checks", total).
		Int("passed", passed).
		Int("failed", failed).
		Int("warnings", warnings).
		Msg("Verification summary")

	for _, check := range t.Failed() {
		t.logger.Error().
			Str("step", check.Step).
			Str("check", check.Name).
			Str("details", check.Details).
			Msg("Failed check")
	}
}
