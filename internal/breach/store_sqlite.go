package breach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore keeps breaches in the guard database. AUTOINCREMENT keeps ids
// monotonic even after rows are removed by hand.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS breaches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		photo BLOB NOT NULL,
		photo_iv BLOB NOT NULL,
		video BLOB NOT NULL,
		video_iv BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create breaches table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO breaches (created_at, photo, photo_iv, video, video_iv)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Timestamp.UnixMilli(), rec.Photo.Ciphertext, rec.Photo.IV, rec.Video.Ciphertext, rec.Video.IV)
	if err != nil {
		return 0, fmt.Errorf("append breach: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("breach id: %w", err)
	}
	return id, nil
}

// List reads sizes only; ciphertext never leaves the database here.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, length(photo), length(video)
		FROM breaches ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list breaches: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum Summary
			ms  int64
		)
		if err := rows.Scan(&sum.ID, &ms, &sum.PhotoBytes, &sum.VideoBytes); err != nil {
			return nil, fmt.Errorf("scan breach: %w", err)
		}
		sum.Timestamp = time.UnixMilli(ms).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Record, error) {
	var (
		rec Record
		ms  int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, photo, photo_iv, video, video_iv FROM breaches WHERE id = ?
	`, id).Scan(&rec.ID, &ms, &rec.Photo.Ciphertext, &rec.Photo.IV, &rec.Video.Ciphertext, &rec.Video.IV)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get breach %d: %w", id, err)
	}
	rec.Timestamp = time.UnixMilli(ms).UTC()
	return &rec, nil
}
