// Package breach holds encrypted intruder evidence. Records are appended and
// listed, never updated; the listing path exposes metadata only.
package breach

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("breach record not found")

// Blob is one independently encrypted payload.
type Blob struct {
	Ciphertext []byte `json:"-"`
	IV         []byte `json:"-"`
}

// Record is a stored breach. ID is assigned by the store.
type Record struct {
	ID        int64
	Timestamp time.Time
	Photo     Blob
	Video     Blob
}

// Summary is the metadata-only view returned by List.
type Summary struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	PhotoBytes int       `json:"photoBytes"`
	VideoBytes int       `json:"videoBytes"`
}

// Store is the append-only evidence store.
type Store interface {
	Append(ctx context.Context, rec Record) (int64, error)
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id int64) (*Record, error)
}
