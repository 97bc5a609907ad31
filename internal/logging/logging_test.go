package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    slog.Level
	}{
		{name: "default", want: slog.LevelWarn},
		{name: "verbose", verbose: true, want: slog.LevelDebug},
		{name: "quiet", quiet: true, want: slog.LevelError},
		{name: "quiet wins", verbose: true, quiet: true, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := LevelFor(tt.verbose, tt.quiet); got != tt.want {
				t.Errorf("LevelFor(%v, %v) = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
			}
		})
	}
}

func TestNew_TerminalOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeLog, err := New(Options{Terminal: &buf, Level: slog.LevelWarn})
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("document unavailable", "url", "https://example.com/a.md")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info record passed a Warn terminal")
	}
	if !strings.Contains(out, "document unavailable") || !strings.Contains(out, "url=https://example.com/a.md") {
		t.Errorf("terminal output = %q", out)
	}
}

func TestNew_FanoutToFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "article.log")

	logger, closeLog, err := New(Options{Terminal: &buf, File: path, Level: slog.LevelError})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("fetched", "bytes", 42)
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	if buf.Len() != 0 {
		t.Errorf("terminal received %q, want nothing below Error", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "fetched" || record["bytes"] != float64(42) {
		t.Errorf("record = %v", record)
	}
}

func TestNew_Discard(t *testing.T) {
	t.Parallel()

	logger, closeLog, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()

	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("logger without outputs should discard everything")
	}
}

func TestNew_BadFile(t *testing.T) {
	t.Parallel()

	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "article.log")})
	if err == nil {
		t.Error("New() with unwritable log path returned nil error")
	}
}
