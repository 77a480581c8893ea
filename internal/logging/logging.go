package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the logger configuration.
type Config struct {
	Level     slog.Level
	Format    string // "json" or "text"
	AddSource bool
	Writer    io.Writer
}

// DefaultConfig logs text at info level to stderr so stdout stays clean for command output.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Writer: os.Stderr,
	}
}

// ParseLevel accepts debug/info/warn/error in any case, or a numeric slog level.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return fallback
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n)
	}
	return fallback
}

// LoadConfig builds a Config from level/format settings; LOG_LEVEL and LOG_FORMAT
// in the environment win over both.
func LoadConfig(level, format string) Config {
	c := DefaultConfig()
	c.Level = ParseLevel(level, c.Level)
	if f := strings.ToLower(strings.TrimSpace(format)); f == "json" || f == "text" {
		c.Format = f
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Level = ParseLevel(v, c.Level)
	}
	if v := strings.ToLower(os.Getenv("LOG_FORMAT")); v == "json" || v == "text" {
		c.Format = v
	}
	if v := os.Getenv("LOG_ADD_SOURCE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AddSource = b
		}
	}
	return c
}

// New creates a logger for the given configuration.
func New(c Config) *slog.Logger {
	w := c.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: c.Level, AddSource: c.AddSource}
	var h slog.Handler
	switch c.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Setup builds a logger and installs it as the slog default.
func Setup(c Config) *slog.Logger {
	l := New(c)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
