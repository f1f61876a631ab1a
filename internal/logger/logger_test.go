package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { Logger = log.New(io.Discard) })

	if err := Init(Config{Level: "info", Dir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
	if got := Logger.GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}

	Info("tracker added", "id", "abc")
	if _, err := os.Stat(filepath.Join(dir, "tracker.log")); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestInitDebugOverridesLevel(t *testing.T) {
	t.Cleanup(func() { Logger = log.New(io.Discard) })

	if err := Init(Config{Level: "error", Debug: true, Dir: t.TempDir()}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init(Config{Level: "loud", Dir: t.TempDir()}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"":      log.WarnLevel,
		"debug": log.DebugLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Logger = log.New(io.Discard) })

	Info("tracker pinned", "id", "abc")

	out := buf.String()
	if !strings.Contains(out, "tracker pinned") || !strings.Contains(out, "id=abc") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestLogFunctionsBeforeInit(t *testing.T) {
	Logger = log.New(io.Discard)

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
