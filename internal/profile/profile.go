// Package profile is the backend profile store collaborator. Records are keyed
// by device id and every write is an idempotent upsert.
package profile

import (
	"context"
	"time"
)

// Fields is a partial profile update merged into the stored record.
type Fields map[string]any

// Record is a stored profile.
type Record struct {
	DeviceID  string         `json:"device_id"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store reads and writes profiles. GetProfile returns nil, nil when no record
// exists for the device.
type Store interface {
	GetProfile(ctx context.Context, deviceID string) (*Record, error)
	UpsertProfile(ctx context.Context, deviceID string, fields Fields) error
}
