package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in-process. Useful for tests or ephemeral runs.
type MemoryStore struct {
	mu    sync.RWMutex
	snap  Snapshot
	saved bool
	saves int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store pre-populated with snap.
func NewMemoryStoreWith(snap Snapshot) *MemoryStore {
	return &MemoryStore{snap: snap.Clone(), saved: true}
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return nil, false
	}
	return s.snap.Clone(), true
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap.Clone()
	if s.snap == nil {
		s.snap = Snapshot{}
	}
	s.saved = true
	s.saves++
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = nil
	s.saved = false
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
