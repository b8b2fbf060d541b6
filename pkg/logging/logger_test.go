// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sigvectors.
//
// go-sigvectors is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "info", "json")
	if err != nil {
		t.Fatalf("NewWithWriter() failed: %v", err)
	}

	logger.With("run_id", "abc").Info("case failed", "case", "sha256 pss verification")
	logger.Debug("hidden")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "case failed" || record["run_id"] != "abc" || record["case"] != "sha256 pss verification" {
		t.Errorf("Unexpected record: %v", record)
	}
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "debug", "text")
	if err != nil {
		t.Fatalf("NewWithWriter() failed: %v", err)
	}
	logger.Debugf("materialized %d keys", 2)
	logger.Error(errors.New("boom"))
	logger.MaybeError(nil)

	out := buf.String()
	if !strings.Contains(out, "materialized 2 keys") || !strings.Contains(out, "boom") {
		t.Errorf("Unexpected output: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Expected two records, got %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	if l := NewLogger(false); l.debug {
		t.Error("Expected info level logger")
	}
	if l := NewLogger(true); !l.debug {
		t.Error("Expected debug level logger")
	}
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("NewWithWriter() failed: %v", err)
	}
	logger.Info("dropped")
	logger.Warnf("invalid %s value %q", "KEY_BITS", "big")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("Info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, `invalid KEY_BITS value \"big\"`) {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := NewWithWriter(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("Expected error for invalid format")
	}
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigvectors.log")
	logger, err := New(Config{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Warn("written to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("Log file missing record: %q", data)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on discard logger failed: %v", err)
	}
}
