package routing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readDoc(t *testing.T, path string) routingDoc {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read routing file: %v", err)
	}

	var doc routingDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse routing file: %v", err)
	}
	return doc
}

func TestFileSink_CreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.yml")

	sink, err := NewFileSink(path, "lf", testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := sink.ApplyPercentage(context.Background(), 42.5); err != nil {
		t.Fatalf("ApplyPercentage: %v", err)
	}

	doc := readDoc(t, path)
	if got := doc.Experiments["lf"].RolloutPerc; got != 42.5 {
		t.Errorf("rollout_perc = %v, want 42.5", got)
	}
}

func TestFileSink_PreservesOtherExperiments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.yml")

	initial := "experiments:\n  lf:\n    rollout_perc: 35\n  canary:\n    rollout_perc: 5\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("seed routing file: %v", err)
	}

	sink, err := NewFileSink(path, "lf", testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := sink.ApplyPercentage(context.Background(), 60); err != nil {
		t.Fatalf("ApplyPercentage: %v", err)
	}

	doc := readDoc(t, path)
	if got := doc.Experiments["lf"].RolloutPerc; got != 60 {
		t.Errorf("lf rollout_perc = %v, want 60", got)
	}
	if got := doc.Experiments["canary"].RolloutPerc; got != 5 {
		t.Errorf("canary rollout_perc = %v, want 5", got)
	}
}

func TestFileSink_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.yml")
	if err := os.WriteFile(path, []byte("experiments: [not: valid\n"), 0o644); err != nil {
		t.Fatalf("seed routing file: %v", err)
	}

	sink, err := NewFileSink(path, "lf", testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := sink.ApplyPercentage(context.Background(), 10); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestFileSink_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.yml")

	sink, err := NewFileSink(path, "lf", testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	if err := sink.ApplyPercentage(context.Background(), 20); err != nil {
		t.Fatalf("ApplyPercentage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestNewFileSink_RequiredFields(t *testing.T) {
	if _, err := NewFileSink("", "lf", testLogger()); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := NewFileSink("experiments.yml", "", testLogger()); err == nil {
		t.Error("expected error for missing experiment")
	}
}

func TestLogSink(t *testing.T) {
	if err := NewLogSink(testLogger()).ApplyPercentage(context.Background(), 35); err != nil {
		t.Fatalf("ApplyPercentage: %v", err)
	}
}
