package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
		"8":     slog.Level(8),
		"bogus": slog.LevelWarn,
		"":      slog.LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in, slog.LevelWarn); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_FORMAT", "json")
	c := LoadConfig("debug", "text")
	if c.Level != slog.LevelError || c.Format != "json" {
		t.Fatalf("config = %+v", c)
	}
}

func TestLoadConfigFromSettings(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	c := LoadConfig("debug", "json")
	if c.Level != slog.LevelDebug || c.Format != "json" {
		t.Fatalf("config = %+v", c)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	l.Debug("hidden")
	l.Info("loaded", "rows", 3)
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line leaked: %s", line)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("not json: %v (%s)", err, line)
	}
	if m["msg"] != "loaded" || m["rows"] != float64(3) {
		t.Fatalf("record = %v", m)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: slog.LevelDebug, Format: "text", Writer: &buf}).Debug("cleaned", "removed", 2)
	if !strings.Contains(buf.String(), "msg=cleaned") || !strings.Contains(buf.String(), "removed=2") {
		t.Fatalf("text output = %q", buf.String())
	}
}
