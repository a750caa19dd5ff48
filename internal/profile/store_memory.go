package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"
)

// InMemoryStore keeps profiles in a map. Field values are normalized through
// JSON so reads look the same as they would from Postgres.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

func (s *InMemoryStore) GetProfile(_ context.Context, deviceID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[deviceID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.Fields = maps.Clone(rec.Fields)
	return &cp, nil
}

func (s *InMemoryStore) UpsertProfile(_ context.Context, deviceID string, fields Fields) error {
	if deviceID == "" {
		return fmt.Errorf("device id is required")
	}
	normalized, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[deviceID]
	if !ok {
		rec = &Record{DeviceID: deviceID, Fields: make(map[string]any)}
		s.records[deviceID] = rec
	}
	maps.Copy(rec.Fields, normalized)
	rec.UpdatedAt = s.now().UTC()
	return nil
}

func normalize(fields Fields) (map[string]any, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode profile fields: %w", err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode profile fields: %w", err)
	}
	return out, nil
}
