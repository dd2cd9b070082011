package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "info", Format: "json"}, &buf)
	log.Info("test message", "key", "value")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if entry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("Expected key=value, got %v", entry["key"])
	}
	if id, _ := entry["run_id"].(string); len(id) != 36 {
		t.Errorf("Expected a uuid run_id, got %v", entry["run_id"])
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"bogus":   slog.LevelWarn,
	}
	for in, want := range tests {
		if got := (Config{Level: in}).LogLevel(); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "warn"}, &buf)
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should have been filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestDeduplicator(t *testing.T) {
	var buf bytes.Buffer
	d := NewDeduplicator(New(Config{Level: "debug"}, &buf), slog.LevelDebug)

	d.Logf("probe %s", "failed")
	d.Logf("probe %s", "failed")
	d.Logf("probe %s", "failed")
	d.Logf("other")
	d.Flush()

	out := buf.String()
	if !strings.Contains(out, `"probe failed (3)"`) {
		t.Errorf("expected collapsed line with count, got:\n%s", out)
	}
	if !strings.Contains(out, "msg=other") {
		t.Errorf("expected trailing message after flush, got:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("expected 2 lines, got %d:\n%s", n, out)
	}
}
