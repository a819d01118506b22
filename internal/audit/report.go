// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const reportRule = 80

// RunReport is the immutable audit record of one pipeline run.
// A report with failed checks flags the run as suspect but does not make the
// run itself a failure; the output files are still written.
type RunReport struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	GeneratedAt time.Time `json:"generated_at"`
	Checks      []Check   `json:"checks"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Suspect reports whether any check failed.
func (r *RunReport) Suspect() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return true
		}
	}
	return false
}

// Render produces the human-readable audit report.
func (r *RunReport) Render() string {
	var b strings.Builder

	passed, failed := 0, 0
	for _, c := range r.Checks {
		if c.Passed {
			passed++
		} else {
			failed++
		}
	}

	rule := strings.Repeat("=", reportRule)
	thinRule := strings.Repeat("-", reportRule)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "GENRE SPECIALIZATION PANELS - AUDIT REPORT\n")
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(&b, "Started:   %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "VERIFICATION SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", thinRule)
	fmt.Fprintf(&b, "Total verification checks: %d\n", len(r.Checks))
	fmt.Fprintf(&b, "Checks passed: %d\n", passed)
	fmt.Fprintf(&b, "Checks failed: %d\n", failed)
	fmt.Fprintf(&b, "Warnings issued: %d\n", len(r.Warnings))
	fmt.Fprintf(&b, "\n")

	if len(r.Checks) > 0 {
		fmt.Fprintf(&b, "DETAILED CHECKS\n")
		fmt.Fprintf(&b, "%s\n", thinRule)
		for _, check := range r.Checks {
			status := "PASS"
			if !check.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Step, check.Name)
			fmt.Fprintf(&b, "    %s\n", check.Details)
			fmt.Fprintf(&b, "    Timestamp: %s\n\n", check.Timestamp.Format("2006-01-02 15:04:05"))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "WARNINGS\n")
		fmt.Fprintf(&b, "%s\n", thinRule)
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "  - %s: %s\n", warning.Step, warning.Message)
			fmt.Fprintf(&b, "    Timestamp: %s\n\n", warning.Timestamp.Format("2006-01-02 15:04:05"))
		}
	}

	if failed > 0 {
		fmt.Fprintf(&b, "FAILED CHECKS DETAIL\n")
		fmt.Fprintf(&b, "%s\n", thinRule)
		for _, check := range r.Checks {
			if check.Passed {
				continue
			}
			fmt.Fprintf(&b, "  - %s: %s\n", check.Step, check.Name)
			fmt.Fprintf(&b, "    %s\n\n", check.Details)
		}
	}

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "END OF REPORT\n")
	fmt.Fprintf(&b, "%s\n", rule)

	return b.String()
}

// WriteFile renders the report into dir as
// specialization_audit_report_<runID>.txt and returns the path.
func (r *RunReport) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("specialization_audit_report_%s.txt", r.RunID))
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write audit report: %w", err)
	}
	return path, nil
}
