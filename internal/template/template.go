// Package template persists the Absolute Truth Template, the single enrollment
// record that live anchors are compared against.
package template

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sovereign/internal/profile"
	"sovereign/internal/storage"
)

// GeoPoint is a recorded location.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// Template is the enrollment record. It is replaced wholesale on re-enrollment.
type Template struct {
	FaceGeometryHash string    `json:"faceGeometryHash"`
	FaceLivenessMin  float64   `json:"faceLivenessMin"`
	FingerRidgeMatch bool      `json:"fingerRidgeMatch"`
	FingerSimulated  bool      `json:"fingerSimulated"`
	GPSLocation      *GeoPoint `json:"gpsLocation"`
	DeviceUUID       string    `json:"deviceUUID"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Signals are the most recent leaf outputs. Empty or nil fields mark anchors
// that were not captured; they are stored as "not required".
type Signals struct {
	FaceGeometryHash string
	FaceLiveness     float64
	FingerRidgeMatch bool
	FingerSimulated  bool
	Position         *GeoPoint
	DeviceUUID       string
}

type Store struct {
	kv       storage.KV
	profiles profile.Store
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Store)

// WithProfileMirror mirrors each stored Template into the backend profile.
func WithProfileMirror(profiles profile.Store) Option {
	return func(s *Store) {
		s.profiles = profiles
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save builds a new Template from signals and persists it, replacing any
// previous one.
func (s *Store) Save(ctx context.Context, sig Signals) (*Template, error) {
	t := &Template{
		FaceGeometryHash: sig.FaceGeometryHash,
		FaceLivenessMin:  sig.FaceLiveness,
		FingerRidgeMatch: sig.FingerRidgeMatch,
		FingerSimulated:  sig.FingerSimulated,
		GPSLocation:      sig.Position,
		DeviceUUID:       sig.DeviceUUID,
		CreatedAt:        s.now().UTC(),
	}

	if err := storage.PutJSON(ctx, s.kv, storage.KeyTemplate, t); err != nil {
		return nil, fmt.Errorf("persist template: %w", err)
	}

	s.mirror(ctx, t)
	return t, nil
}

// Load returns the persisted Template, or nil when none has been enrolled.
// It always reads through so a re-enrollment by another guard process is seen.
func (s *Store) Load(ctx context.Context) (*Template, error) {
	var t Template
	found, err := storage.GetJSON(ctx, s.kv, storage.KeyTemplate, &t)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) mirror(ctx context.Context, t *Template) {
	if s.profiles == nil || t.DeviceUUID == "" {
		return
	}
	err := s.profiles.UpsertProfile(ctx, t.DeviceUUID, profile.Fields{
		"absolute_truth_template": t,
		"enrolled_at":             t.CreatedAt,
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to mirror template to profile store", "error", err)
	}
}
