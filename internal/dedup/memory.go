package dedup

import (
	"context"
	"sync"
)

// Memory is an in-process Guard backed by a mutex-guarded set.
//
// Safe for concurrent use within a single process. Deployments with multiple
// workers need a shared store with a uniqueness constraint instead; see
// PGGuard.
type Memory struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ Guard = (*Memory)(nil)

// NewMemory creates a Memory guard pre-seeded with already-consumed ids.
func NewMemory(seed ...string) *Memory {
	m := &Memory{seen: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		m.seen[id] = struct{}{}
	}
	return m
}

// Contains reports whether id has already been accepted.
func (m *Memory) Contains(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[id]
	return ok, nil
}

// Register records id as consumed. Idempotent.
func (m *Memory) Register(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[id] = struct{}{}
	return nil
}
