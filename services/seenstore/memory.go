package seenstore

import "sync"

// MemoryStore keeps the seen-set in process memory. Used by tests and by
// the API server's dry-run mode.
type MemoryStore struct {
	mu  sync.Mutex
	set SeenSet
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{set: New()}
}

// Load returns a copy of the current set
func (s *MemoryStore) Load() SeenSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return New(s.set.Sorted()...)
}

// Commit replaces the stored set with a copy of the given one
func (s *MemoryStore) Commit(set SeenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = New(set.Sorted()...)
	return nil
}
