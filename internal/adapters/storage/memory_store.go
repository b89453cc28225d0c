package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps items in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (s *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, key, old string, oldFound bool, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[key]
	if ok != oldFound || current != old {
		return false, nil
	}
	s.items[key] = value
	return true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
