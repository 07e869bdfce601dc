package shared

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected unique ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid v4 format, got %q", a)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("queue started", "tasks", 3)

	out := buf.String()
	if !strings.Contains(out, "queue started") {
		t.Errorf("expected log output to contain message, got %q", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lectern.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	logger.Info("hello")

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"progress": 95}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("compact marshal failed: %v", err)
	}
	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("pretty marshal failed: %v", err)
	}

	if !json.Valid(compact) || !json.Valid(pretty) {
		t.Error("expected valid JSON output")
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Error("expected pretty output to be indented")
	}
}
