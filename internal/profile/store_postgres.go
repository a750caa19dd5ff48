package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS device_profiles (
	device_id  TEXT PRIMARY KEY,
	fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists profiles as a JSONB document per device.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pool for dsn and makes sure the profile table exists.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping profile database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create profile schema: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, deviceID string) (*Record, error) {
	var (
		rec Record
		raw []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT device_id, fields, updated_at FROM device_profiles WHERE device_id = $1`,
		deviceID,
	).Scan(&rec.DeviceID, &raw, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Fields); err != nil {
		return nil, fmt.Errorf("decode profile fields: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, deviceID string, fields Fields) error {
	if deviceID == "" {
		return fmt.Errorf("device id is required")
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode profile fields: %w", err)
	}
	query := `
		INSERT INTO device_profiles (device_id, fields, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (device_id) DO UPDATE SET
			fields = device_profiles.fields || EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, deviceID, string(raw)); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
