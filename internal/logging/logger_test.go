// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestInit tests logger initialization with custom output
func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("key", "value").Msg("test message")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("output missing structured field: %s", out)
	}
	if !strings.Contains(out, `"message":"test message"`) {
		t.Errorf("output missing message: %s", out)
	}
}

// TestParseLevel tests level string parsing
func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"INFO", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

// TestGenerateRunID tests run ID format
func TestGenerateRunID(t *testing.T) {
	id := GenerateRunID()
	if len(id) != 8 {
		t.Errorf("len(GenerateRunID()) = %d, want 8", len(id))
	}
	if id == GenerateRunID() {
		t.Error("two generated run IDs collided")
	}
}

// TestRunIDContext tests run ID propagation through context
func TestRunIDContext(t *testing.T) {
	ctx := ContextWithRunID(context.Background(), "abc12345")
	if got := RunIDFromContext(ctx); got != "abc12345" {
		t.Errorf("RunIDFromContext = %q, want abc12345", got)
	}
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext on bare context = %q, want empty", got)
	}
}

// TestCtxAddsRunID tests that Ctx stamps log lines with the run ID
func TestCtxAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRunID(ctx, "abc12345")

	Ctx(ctx).Info().Msg("stamped")

	if !strings.Contains(buf.String(), `"run_id":"abc12345"`) {
		t.Errorf("log line missing run_id: %s", buf.String())
	}
}
