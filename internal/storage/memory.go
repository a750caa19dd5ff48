package storage

import (
	"context"
	"sync"
)

// InMemoryKV keeps state in a map. Values are copied on the way in and out.
type InMemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{values: make(map[string][]byte)}
}

func (s *InMemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *InMemoryKV) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *InMemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
