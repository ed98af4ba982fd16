package statestore

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	saved := &RegulatorState{
		Integral:   -17.38412345678901,
		LastUpdate: time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC),
		Components: [3]float64{6.45, -17.38, 0.02},
	}

	if err := store.Save(ctx, "lf-aws", saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "lf-aws")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load returned nil for saved state")
	}

	if math.Abs(loaded.Integral-saved.Integral) > 1e-9 {
		t.Errorf("Integral = %v, want %v", loaded.Integral, saved.Integral)
	}
	if !loaded.LastUpdate.Equal(saved.LastUpdate) {
		t.Errorf("LastUpdate = %v, want %v", loaded.LastUpdate, saved.LastUpdate)
	}
	if loaded.Components != saved.Components {
		t.Errorf("Components = %v, want %v", loaded.Components, saved.Components)
	}
}

func TestFileStore_Absent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	state, err := store.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state != nil {
		t.Errorf("Load = %+v, want nil for absent state", state)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "lf-aws.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	state, err := store.Load(context.Background(), "lf-aws")
	if err == nil {
		t.Error("Load: expected error for corrupt state file")
	}
	if state != nil {
		t.Errorf("Load = %+v, want nil for corrupt state", state)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "lf-aws", &RegulatorState{Integral: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "lf-aws", &RegulatorState{Integral: 2}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "lf-aws")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Integral != 2 {
		t.Errorf("Integral = %v, want 2 after overwrite", loaded.Integral)
	}
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Save(context.Background(), "lf-aws", &RegulatorState{Integral: 3}); err != nil {
		t.Fatalf("Save: %v", err)
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

func TestFileStore_RejectsNonFiniteIntegral(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	err = store.Save(context.Background(), "lf-aws", &RegulatorState{Integral: math.NaN()})
	if err == nil {
		t.Error("Save: expected error for NaN integral")
	}
}

func TestFileStore_EmptyIdentifier(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := store.Load(context.Background(), ""); err == nil {
		t.Error("Load: expected error for empty identifier")
	}
	if err := store.Save(context.Background(), "", &RegulatorState{}); err == nil {
		t.Error("Save: expected error for empty identifier")
	}
}
