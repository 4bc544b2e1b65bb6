package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWriter_JSONRecordCarriesDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, Config{Level: "info", Format: "json"}, "1.2.3")

	logger.Info("device bus started", "devices", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["service"] != "mediastack" {
		t.Errorf("service = %v, want mediastack", record["service"])
	}
	if record["version"] != "1.2.3" {
		t.Errorf("version = %v, want 1.2.3", record["version"])
	}
	if record["msg"] != "device bus started" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["devices"] != float64(3) {
		t.Errorf("devices = %v, want 3", record["devices"])
	}
}

func TestNewWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, Config{Level: "warn", Format: "text"}, "dev")

	logger.Debug("ignored")
	logger.Info("ignored too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Errorf("below-threshold records emitted: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestNewWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, Config{Level: "info", Format: "text"}, "dev")

	logger.Info("hello")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("text format produced JSON: %q", buf.String())
	}
}

func TestWith_ChildCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, Config{Level: "info", Format: "json"}, "dev")

	child := logger.With("component", "mqtt")
	if child == logger {
		t.Fatal("With() returned the parent logger")
	}
	child.Info("connected")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["component"] != "mqtt" {
		t.Errorf("component = %v, want mqtt", record["component"])
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}
