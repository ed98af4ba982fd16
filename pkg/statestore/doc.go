// Package statestore persists regulator state across governor runs.
//
// # Overview
//
// The governor process is started fresh for every evaluation, so the
// regulator's integral accumulator has no long-lived memory of its own.
// This package provides the durable load/save contract that carries it
// between runs.
//
// Two backends are provided:
//
//   - FileStore: one JSON document per identifier, written atomically
//     via a temp file and rename
//   - SQLiteStore: a single-table SQLite database in WAL mode
//
// # Concurrency
//
// Backends serialize their own reads and writes, but the load/evaluate/
// save cycle itself is not transactional. Callers must guarantee at most
// one cycle in flight per identifier (for example through a scheduler's
// single-concurrent-run guarantee); concurrent read-modify-write of the
// same identifier corrupts the accumulator.
package statestore
