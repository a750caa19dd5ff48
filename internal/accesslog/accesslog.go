// Package accesslog is the best-effort access and consent logging sink. Sinks
// never return errors; delivery failures are logged and dropped.
package accesslog

import (
	"context"
	"log/slog"
	"time"
)

// Kind distinguishes consent entries from access attempts.
type Kind string

const (
	KindConsent       Kind = "consent"
	KindAccessAttempt Kind = "access_attempt"
)

// Entry is one access log line.
type Entry struct {
	Kind      Kind           `json:"kind"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	DeviceID  string         `json:"device_id"`
	Timestamp time.Time      `json:"timestamp"`
}

type Sink interface {
	LogConsent(ctx context.Context, message string, metadata map[string]any, deviceID string)
	LogAccessAttempt(ctx context.Context, message string, metadata map[string]any, deviceID string)
}

// SlogSink writes entries to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) LogConsent(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	s.log(ctx, KindConsent, message, metadata, deviceID)
}

func (s *SlogSink) LogAccessAttempt(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	s.log(ctx, KindAccessAttempt, message, metadata, deviceID)
}

func (s *SlogSink) log(ctx context.Context, kind Kind, message string, metadata map[string]any, deviceID string) {
	s.logger.InfoContext(ctx, message,
		"log_type", string(kind),
		"device_id", deviceID,
		"metadata", metadata,
	)
}

// Multi fans entries out to every sink.
type Multi []Sink

func (m Multi) LogConsent(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	for _, s := range m {
		s.LogConsent(ctx, message, metadata, deviceID)
	}
}

func (m Multi) LogAccessAttempt(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	for _, s := range m {
		s.LogAccessAttempt(ctx, message, metadata, deviceID)
	}
}

// Nop discards entries.
type Nop struct{}

func (Nop) LogConsent(context.Context, string, map[string]any, string)       {}
func (Nop) LogAccessAttempt(context.Context, string, map[string]any, string) {}
