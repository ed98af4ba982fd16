package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists regulator state as one JSON document per
// identifier under a base directory. Writes go to a temp file in the
// same directory followed by a rename, so a process interruption can
// never leave a partially written snapshot behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the state document for an identifier.
// A missing file yields (nil, nil); an unreadable or undecodable file
// yields an error so the caller can fall back to a cold start.
func (s *FileStore) Load(ctx context.Context, identifier string) (*RegulatorState, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	data, err := os.ReadFile(s.path(identifier))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state RegulatorState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}

	return &state, nil
}

// Save writes the state document for an identifier atomically.
func (s *FileStore) Save(ctx context.Context, identifier string, state *RegulatorState) error {
	if identifier == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if math.IsNaN(state.Integral) || math.IsInf(state.Integral, 0) {
		return fmt.Errorf("integral accumulator is not finite: %f", state.Integral)
	}
	if state.LastUpdate.IsZero() {
		state.LastUpdate = time.Now()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, identifier+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(identifier)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(identifier string) string {
	return filepath.Join(s.dir, identifier+".json")
}
