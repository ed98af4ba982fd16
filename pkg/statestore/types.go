package statestore

import (
	"context"
	"time"
)

// RegulatorState is the persisted snapshot of the feedback regulator.
// The integral accumulator is the only field the controller needs back;
// the components are kept for observability.
type RegulatorState struct {
	// Integral is the regulator's integral accumulator.
	Integral float64 `json:"integral"`

	// LastUpdate is when the snapshot was taken.
	LastUpdate time.Time `json:"last_update"`

	// Components holds the last proportional, integral, and derivative
	// contributions, in that order.
	Components [3]float64 `json:"components"`
}

// Store defines the persistence contract for regulator state.
type Store interface {
	// Load retrieves the state for an identifier.
	// Returns (nil, nil) if no state exists. A non-nil error means the
	// stored state could not be read or decoded; callers are expected
	// to log it and proceed from a cold start.
	Load(ctx context.Context, identifier string) (*RegulatorState, error)

	// Save persists the state for an identifier, replacing any
	// previous snapshot. The numeric fields must round-trip exactly.
	Save(ctx context.Context, identifier string, state *RegulatorState) error

	// Close releases any resources held by the store.
	Close() error
}
