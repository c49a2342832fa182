package state

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and throwaway runs.
type Memory struct {
	mu    sync.Mutex
	st    State
	set   bool
	Saves int // number of Save calls, for test assertions
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(_ context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return State{}, nil
	}
	return m.st, nil
}

func (m *Memory) Save(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = s
	m.set = true
	m.Saves++
	return nil
}

func (m *Memory) Close() error { return nil }
