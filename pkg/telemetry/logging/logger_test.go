package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("cycle complete", "percentage", 56.5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "cycle complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["percentage"] != 56.5 {
		t.Errorf("percentage = %v", entry["percentage"])
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("should be suppressed")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be suppressed") {
		t.Error("info line logged at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn line missing")
	}
}

func TestSetup_Defaults(t *testing.T) {
	logger, err := Setup(Config{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default level should enable info")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default level should suppress debug")
	}
}

func TestSetup_InvalidValues(t *testing.T) {
	if _, err := Setup(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := Setup(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
