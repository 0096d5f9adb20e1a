// Package memory provides an in-memory workspace store, used for tests
// and for running the editor without any persistence backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/snapshot"
)

// Store implements ports.WorkspaceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]snapshot.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]snapshot.Snapshot),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, workspace string, snap snapshot.Snapshot) error {
	// Copy so the caller can't mutate stored bytes afterwards.
	copied := make(snapshot.Snapshot, len(snap))
	copy(copied, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[workspace] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, workspace string) (snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[workspace]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkspaceNotFound, workspace)
	}

	copied := make(snapshot.Snapshot, len(snap))
	copy(copied, snap)
	return copied, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, workspace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, workspace)
	return nil
}

// List returns stored workspace names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names, nil
}
