package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Logical keys for the guard's persisted local state. Every singleton
// (Template copy, Lock State, Duress State, allow-list) lives under exactly
// one key and is written through on every change.
const (
	KeyLockState      = "lock_state"
	KeyShadowMode     = "shadow_mode_active"
	KeyBaselineBPM    = "sovereign_baseline_bpm"
	KeyAllowedDevices = "allowed_devices"
	KeyTemplate       = "absolute_truth_template"
)

// KV is a durable key/value store. Writes are synchronous and last writer wins.
type KV interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value stored at key into dst. It reports false when the
// key is absent.
func GetJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it at key.
func PutJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Put(ctx, key, raw)
}
