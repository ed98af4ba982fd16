package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists regulator state in a SQLite database. It is
// suitable when the governor shares a data directory with other tooling
// or when several identifiers are tracked in one place.
//
// The database runs in WAL mode with a single writer connection.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once

	saveStmt *sql.Stmt
	loadStmt *sql.Stmt
}

// NewSQLiteStore opens (or creates) the database at dbPath and prepares
// the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regulator_states (
		identifier TEXT NOT NULL PRIMARY KEY,
		integral REAL NOT NULL,
		components TEXT NOT NULL,
		last_update TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO regulator_states (identifier, integral, components, last_update, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (identifier) DO UPDATE SET
			integral = excluded.integral,
			components = excluded.components,
			last_update = excluded.last_update
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT integral, components, last_update
		FROM regulator_states
		WHERE identifier = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	return nil
}

// Load retrieves the state for an identifier, or (nil, nil) if none
// has been saved yet.
func (s *SQLiteStore) Load(ctx context.Context, identifier string) (*RegulatorState, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		integral       float64
		componentsJSON string
		lastUpdate     string
	)

	err := s.loadStmt.QueryRowContext(ctx, identifier).Scan(&integral, &componentsJSON, &lastUpdate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	state := &RegulatorState{Integral: integral}

	if err := json.Unmarshal([]byte(componentsJSON), &state.Components); err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, lastUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_update: %w", err)
	}
	state.LastUpdate = ts

	return state, nil
}

// Save upserts the state for an identifier.
func (s *SQLiteStore) Save(ctx context.Context, identifier string, state *RegulatorState) error {
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

	componentsJSON, err := json.Marshal(state.Components)
	if err != nil {
		return fmt.Errorf("failed to encode components: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx,
		identifier,
		state.Integral,
		string(componentsJSON),
		state.LastUpdate.Format(time.RFC3339Nano),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

// Close releases the database. Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.loadStmt != nil {
			s.loadStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}
