// Package intruder samples the camera while the device is locked, raising a
// proximity alert and capturing encrypted evidence when an unrecognized face
// persists.
package intruder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sovereign/internal/anchor/face"
	"sovereign/internal/camera"
	"sovereign/internal/intruder/metrics"
	"sovereign/internal/platform/observability"
	"sovereign/internal/template"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/platform/clock"
)

const (
	DefaultTick               = 500 * time.Millisecond
	DefaultProximityThreshold = 2
	DefaultSnapThreshold      = 4
	DefaultLookAwayTimeout    = 30 * time.Second
	DefaultClipLength         = 3 * time.Second
)

// Templates loads the enrolled template to compare frames against.
type Templates interface {
	Load(ctx context.Context) (*template.Template, error)
}

// BreachRecorder encrypts and appends one piece of evidence.
type BreachRecorder interface {
	Record(ctx context.Context, photo, video []byte) (int64, error)
}

// Status is a point-in-time view of the monitor for the lock surface.
type Status struct {
	Running        bool      `json:"running"`
	Misses         int       `json:"misses"`
	ProximityAlert bool      `json:"proximityAlert"`
	LastSeen       time.Time `json:"lastSeen,omitzero"`
}

type Monitor struct {
	session   *camera.Session
	templates Templates
	recorder  BreachRecorder
	sched     clock.Scheduler

	tick               time.Duration
	tolerance          float64
	proximityThreshold int
	snapThreshold      int
	lookAwayTimeout    time.Duration
	clipLength         time.Duration

	logger  *slog.Logger
	auditor observability.AuditPublisher
	metrics *metrics.Metrics

	mu         sync.Mutex
	running    bool
	stream     camera.Stream
	reference  string
	ctx        context.Context
	cancel     context.CancelFunc
	stopTick   func()
	misses     int
	lastSeen   time.Time
	proximity  bool
	onLookAway []func(context.Context)

	snaps sync.WaitGroup
}

type Option func(*Monitor)

func WithScheduler(s clock.Scheduler) Option {
	return func(m *Monitor) {
		m.sched = s
	}
}

func WithTick(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.tick = d
		}
	}
}

func WithTolerance(t float64) Option {
	return func(m *Monitor) {
		if t > 0 {
			m.tolerance = t
		}
	}
}

// WithThresholds sets the consecutive-miss counts for the proximity alert and
// the Snap-Action.
func WithThresholds(proximity, snap int) Option {
	return func(m *Monitor) {
		if proximity > 0 {
			m.proximityThreshold = proximity
		}
		if snap > 0 {
			m.snapThreshold = snap
		}
	}
}

func WithLookAwayTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.lookAwayTimeout = d
		}
	}
}

func WithClipLength(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.clipLength = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

func WithAuditPublisher(p observability.AuditPublisher) Option {
	return func(m *Monitor) {
		m.auditor = p
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = mt
	}
}

func New(session *camera.Session, templates Templates, recorder BreachRecorder, opts ...Option) (*Monitor, error) {
	if session == nil {
		return nil, fmt.Errorf("camera session is required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template source is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("breach recorder is required")
	}
	m := &Monitor{
		session:            session,
		templates:          templates,
		recorder:           recorder,
		sched:              clock.Real{},
		tick:               DefaultTick,
		tolerance:          template.IntruderTolerance,
		proximityThreshold: DefaultProximityThreshold,
		snapThreshold:      DefaultSnapThreshold,
		lookAwayTimeout:    DefaultLookAwayTimeout,
		clipLength:         DefaultClipLength,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// OnLookAway registers fn to run when the authorized face has not been seen
// for the look-away timeout. Handlers run on the sampling tick.
func (m *Monitor) OnLookAway(fn func(context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLookAway = append(m.onLookAway, fn)
}

// Start acquires the shared camera stream and begins sampling. Starting a
// running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	tmpl, err := m.templates.Load(ctx)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}
	stream, err := m.session.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire camera: %w", err)
	}

	m.stream = stream
	m.reference = ""
	if tmpl != nil {
		m.reference = tmpl.FaceGeometryHash
	}
	m.ctx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
	m.misses = 0
	m.proximity = false
	m.lastSeen = m.sched.Now()
	m.running = true
	m.stopTick = m.sched.Every(m.tick, m.sample)
	m.metrics.SetActive(true)
	m.logger.InfoContext(ctx, "intruder monitor started", "tick", m.tick.String())
	return nil
}

// Stop halts sampling, waits for in-flight Snap-Actions, releases the camera
// and clears all counters. It is safe to call repeatedly.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopTick := m.stopTick
	cancel := m.cancel
	m.mu.Unlock()

	stopTick()
	cancel()
	m.snaps.Wait()

	m.mu.Lock()
	m.stream = nil
	m.stopTick = nil
	m.misses = 0
	m.proximity = false
	m.lastSeen = time.Time{}
	m.mu.Unlock()

	m.session.Release()
	m.metrics.SetActive(false)
	m.logger.Info("intruder monitor stopped")
}

// Wait blocks until every in-flight Snap-Action has finished.
func (m *Monitor) Wait() {
	m.snaps.Wait()
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Running:        m.running,
		Misses:         m.misses,
		ProximityAlert: m.proximity,
		LastSeen:       m.lastSeen,
	}
}

func (m *Monitor) sample(now time.Time) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	ctx, stream, reference := m.ctx, m.stream, m.reference
	m.mu.Unlock()

	// Without an enrolled face there is nothing to recognize.
	if reference != "" {
		frame, err := stream.Frame(ctx)
		if err != nil {
			m.logger.DebugContext(ctx, "intruder frame unavailable", "error", err)
		} else {
			m.observe(ctx, now, template.Compare(reference, face.GeometryHash(frame), m.tolerance))
		}
	}

	m.mu.Lock()
	if !m.running || now.Sub(m.lastSeen) <= m.lookAwayTimeout {
		m.mu.Unlock()
		return
	}
	m.lastSeen = now
	handlers := append([]func(context.Context){}, m.onLookAway...)
	m.mu.Unlock()

	m.metrics.IncrementLookAway()
	m.logger.InfoContext(ctx, "authorized face not seen", "timeout", m.lookAwayTimeout.String())
	for _, fn := range handlers {
		fn(ctx)
	}
}

func (m *Monitor) observe(ctx context.Context, now time.Time, match bool) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	if match {
		m.misses = 0
		m.lastSeen = now
		m.proximity = false
		m.mu.Unlock()
		return
	}

	m.misses++
	raise := m.misses >= m.proximityThreshold && !m.proximity
	if raise {
		m.proximity = true
	}
	snap := m.misses >= m.snapThreshold
	if snap {
		m.misses = 0
		m.snaps.Add(1)
	}
	m.mu.Unlock()

	if raise {
		m.metrics.IncrementProximityAlert()
		observability.LogAudit(ctx, m.logger, m.auditor, audit.EventProximityAlert)
	}
	if snap {
		go func() {
			defer m.snaps.Done()
			m.snap(ctx)
		}()
	}
}

// snap captures a photo and a clip and records them as a breach. Failures are
// logged and never reach the sampling loop.
func (m *Monitor) snap(ctx context.Context) {
	ctx, span := otel.Tracer("sovereign/intruder").Start(ctx, "intruder.Snap")
	defer span.End()

	id, err := m.capture(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snap failed")
		m.metrics.IncrementSnap("error")
		m.logger.WarnContext(ctx, "snap-action failed", "error", err)
		return
	}
	span.SetAttributes(attribute.Int64("breach.id", id))
	m.metrics.IncrementSnap("recorded")
	observability.LogAudit(ctx, m.logger, m.auditor, audit.EventSnapAction, "breach_id", fmt.Sprint(id))
}

func (m *Monitor) capture(ctx context.Context) (int64, error) {
	stream, err := m.session.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer m.session.Release()

	photo, err := stream.Photo(ctx)
	if err != nil {
		return 0, fmt.Errorf("capture photo: %w", err)
	}
	video, err := stream.Record(ctx, m.clipLength)
	if err != nil {
		return 0, fmt.Errorf("record clip: %w", err)
	}
	return m.recorder.Record(ctx, photo, video)
}
