package breach

import (
	"context"
	"slices"
	"sync"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rec.ID = s.nextID
	rec.Photo = cloneBlob(rec.Photo)
	rec.Video = cloneBlob(rec.Video)
	s.records = append(s.records, rec)
	return rec.ID, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, summarize(r))
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			r.Photo = cloneBlob(r.Photo)
			r.Video = cloneBlob(r.Video)
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func summarize(r Record) Summary {
	return Summary{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		PhotoBytes: len(r.Photo.Ciphertext),
		VideoBytes: len(r.Video.Ciphertext),
	}
}

func cloneBlob(b Blob) Blob {
	return Blob{Ciphertext: slices.Clone(b.Ciphertext), IV: slices.Clone(b.IV)}
}
