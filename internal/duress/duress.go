// Package duress detects elevated heart rate at verification time and owns
// the persisted Shadow Mode flag that swaps in the decoy interface.
package duress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sovereign/internal/duress/metrics"
	"sovereign/internal/platform/observability"
	"sovereign/internal/storage"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

const (
	DefaultMultiplier = 1.4
	MinBaselineBPM    = 40
	MaxBaselineBPM    = 200
)

// PulseSensor reads a momentary heart rate.
type PulseSensor interface {
	ReadBPM(ctx context.Context) (float64, error)
}

// Service holds the baseline and Shadow Mode. Setters persist before the
// in-memory value changes.
type Service struct {
	kv         storage.KV
	multiplier float64
	logger     *slog.Logger
	auditor    observability.AuditPublisher
	metrics    *metrics.Metrics

	mu       sync.RWMutex
	baseline float64
	shadow   bool
}

type Option func(*Service)

func WithMultiplier(m float64) Option {
	return func(s *Service) {
		if m > 0 {
			s.multiplier = m
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p observability.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(kv storage.KV, opts ...Option) (*Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("state store is required")
	}
	s := &Service{
		kv:         kv,
		multiplier: DefaultMultiplier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the persisted baseline and Shadow Mode flag.
func (s *Service) Load(ctx context.Context) error {
	var (
		baseline float64
		shadow   bool
	)
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyBaselineBPM, &baseline); err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyShadowMode, &shadow); err != nil {
		return fmt.Errorf("load shadow mode: %w", err)
	}
	s.mu.Lock()
	s.baseline = baseline
	s.shadow = shadow
	s.mu.Unlock()
	s.metrics.SetShadowActive(shadow)
	return nil
}

// PlausibleBPM reports whether bpm is inside the accepted human range.
func PlausibleBPM(bpm float64) bool {
	return bpm >= MinBaselineBPM && bpm <= MaxBaselineBPM
}

// SetBaseline records bpm as the sovereign baseline. Readings outside the
// plausible range are discarded and the previous baseline kept; it reports
// whether the reading was accepted.
func (s *Service) SetBaseline(ctx context.Context, bpm float64) (bool, error) {
	if !PlausibleBPM(bpm) {
		s.logger.WarnContext(ctx, "discarding implausible baseline reading", "bpm", bpm)
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.PutJSON(ctx, s.kv, storage.KeyBaselineBPM, bpm); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist baseline")
	}
	s.baseline = bpm
	return true, nil
}

func (s *Service) Baseline() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline
}

// CheckDuress reports whether bpm is at or above baseline times the
// multiplier. Without a baseline it never reports duress.
func (s *Service) CheckDuress(bpm float64) bool {
	s.mu.RLock()
	baseline := s.baseline
	s.mu.RUnlock()
	if baseline <= 0 {
		return false
	}
	return bpm >= baseline*s.multiplier
}

// Evaluate checks bpm and enters Shadow Mode on duress. Access is never
// denied here; the caller grants it either way.
func (s *Service) Evaluate(ctx context.Context, bpm float64) (bool, error) {
	if !s.CheckDuress(bpm) {
		return false, nil
	}
	s.metrics.IncrementDuressDetected()
	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventDuressDetected,
		"bpm", bpm, "baseline", s.Baseline())
	if err := s.setShadow(ctx, true); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Service) ShadowActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadow
}

// ExitShadow leaves Shadow Mode. Only the decoy interface calls it.
func (s *Service) ExitShadow(ctx context.Context) error {
	if !s.ShadowActive() {
		return nil
	}
	if err := s.setShadow(ctx, false); err != nil {
		return err
	}
	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventShadowExited)
	return nil
}

func (s *Service) setShadow(ctx context.Context, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.PutJSON(ctx, s.kv, storage.KeyShadowMode, active); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist shadow mode")
	}
	s.shadow = active
	s.metrics.SetShadowActive(active)
	return nil
}
