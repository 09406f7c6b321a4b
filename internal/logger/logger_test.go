package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetup_WritesJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf)

	l.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

func TestSetup_DefaultLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf)

	l.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected debug log to be suppressed, got %q", buf.String())
	}
}

func TestSetup_LogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	l := Setup(&buf)

	l.Debug("debug message")

	if buf.Len() == 0 {
		t.Error("expected debug log to be emitted with LOG_LEVEL=debug")
	}
}
