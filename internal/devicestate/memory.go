package devicestate

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store backed by a guarded map, used
// by unit tests and by DEVICE_STORE_BACKEND=memory for local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) HGet(_ context.Context, key, field string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	v, ok := fields[field]
	return v, ok, nil
}

func (s *MemoryStore) HMGet(_ context.Context, key string, fields ...string) ([]string, []bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]string, len(fields))
	oks := make([]bool, len(fields))

	stored := s.data[key]
	for i, f := range fields {
		v, ok := stored[f]
		values[i] = v
		oks[i] = ok
	}
	return values, oks, nil
}

func (s *MemoryStore) HSet(_ context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.data[key]
	if !ok {
		fields = make(map[string]string)
		s.data[key] = fields
	}
	fields[field] = value
	return nil
}
