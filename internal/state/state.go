// Package state persists the last observed page state between runs.
//
// The model is deliberately whole-value: one Load at the start of a run, at
// most one Save at the end. No partial updates, no history beyond "previous".
package state

import "context"

// State is the persisted record of the last observed page.
// A zero Fingerprint means no run has ever completed (first run).
// A zero Snapshot degrades a changed run to a bare notification (no diff).
type State struct {
	Fingerprint string // hex-encoded SHA-256 of the last raw content
	Snapshot    string // last raw content, may be empty
}

// Store reads and writes the persisted State as a whole value.
// Implementations must return a zero State, not an error, when nothing has
// been persisted yet.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
	Close() error
}
