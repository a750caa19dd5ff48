// Package cohesion decides whether the four identity anchors agree with the
// enrolled template inside the verification window.
package cohesion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"sovereign/internal/accesslog"
	"sovereign/internal/anchor/face"
	"sovereign/internal/anchor/finger"
	"sovereign/internal/anchor/position"
	"sovereign/internal/cohesion/metrics"
	"sovereign/internal/template"
	"sovereign/pkg/platform/clock"
)

const (
	DefaultWindow       = 1500 * time.Millisecond
	DefaultMaxDistanceM = 100.0
	// verifyLivenessFloor caps the template floor at verify time. The strict
	// floor is applied when the face anchor captures.
	verifyLivenessFloor = 0.01
)

type Templates interface {
	Load(ctx context.Context) (*template.Template, error)
}

type PositionAnchor interface {
	Status() position.Status
	LastFix() (position.Fix, bool)
}

type DeviceAnchor interface {
	CurrentID() string
	IsBound(ctx context.Context, id string) (bool, error)
}

type FaceAnchor interface {
	Capture(ctx context.Context) (*face.Capture, error)
}

type FingerAnchor interface {
	Capture(ctx context.Context) finger.Result
}

// Verifier runs one cohesion check at a time. It has no side effects beyond
// logging and access-log entries; callers act on the Verdict.
type Verifier struct {
	templates Templates
	position  PositionAnchor
	device    DeviceAnchor
	face      FaceAnchor
	finger    FingerAnchor

	window        time.Duration
	maxDistanceM  float64
	faceTolerance float64

	clock     clock.Clock
	accessLog accesslog.Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics

	run   sync.Mutex
	mu    sync.RWMutex
	state State
}

type Option func(*Verifier)

func WithWindow(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.window = d
		}
	}
}

func WithMaxDistance(meters float64) Option {
	return func(v *Verifier) {
		if meters > 0 {
			v.maxDistanceM = meters
		}
	}
}

func WithFaceTolerance(tol float64) Option {
	return func(v *Verifier) {
		v.faceTolerance = tol
	}
}

func WithClock(c clock.Clock) Option {
	return func(v *Verifier) {
		v.clock = c
	}
}

func WithAccessLog(sink accesslog.Sink) Option {
	return func(v *Verifier) {
		v.accessLog = sink
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

func New(templates Templates, pos PositionAnchor, dev DeviceAnchor, fa FaceAnchor, fi FingerAnchor, opts ...Option) (*Verifier, error) {
	if templates == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if pos == nil || dev == nil || fa == nil || fi == nil {
		return nil, fmt.Errorf("all four anchors are required")
	}
	v := &Verifier{
		templates:     templates,
		position:      pos,
		device:        dev,
		face:          fa,
		finger:        fi,
		window:        DefaultWindow,
		maxDistanceM:  DefaultMaxDistanceM,
		faceTolerance: template.VerifyTolerance,
		clock:         clock.Real{},
		accessLog:     accesslog.Nop{},
		logger:        slog.Default(),
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// State returns where the current (or last) check is.
func (v *Verifier) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *Verifier) setState(s State) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}

// Verify runs one check. Concurrent calls are serialized.
func (v *Verifier) Verify(ctx context.Context) Verdict {
	v.run.Lock()
	defer v.run.Unlock()

	ctx, span := otel.Tracer("sovereign/cohesion").Start(ctx, "cohesion.Verify")
	defer span.End()

	start := v.clock.Now()
	deviceID := v.device.CurrentID()
	verdict := v.verify(ctx, deviceID, start)
	v.setState(StateDecided)

	span.SetAttributes(
		attribute.String("reason", string(verdict.Reason)),
		attribute.Int64("elapsed_ms", verdict.Details.ElapsedMs),
	)
	if !verdict.OK {
		span.SetStatus(codes.Error, string(verdict.Reason))
	}
	v.metrics.IncrementVerification(string(verdict.Reason))
	v.metrics.ObserveVerifyLatency(v.clock.Now().Sub(start))
	v.record(ctx, deviceID, verdict)
	return verdict
}

func (v *Verifier) verify(ctx context.Context, deviceID string, start time.Time) Verdict {
	v.setState(StateCheckingBackground)

	tmpl, err := v.templates.Load(ctx)
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to load template", "error", err)
		return newVerdict(ReasonTemplateUnavailable, Details{})
	}
	if tmpl == nil {
		return newVerdict(ReasonNoTemplate, Details{})
	}

	var (
		details Details
		failed  []Reason
	)
	details.Anchors.Position = v.checkPosition(tmpl)
	if !details.Anchors.Position {
		failed = append(failed, ReasonGPSFailed)
	}
	details.Anchors.Device = v.checkDevice(ctx, deviceID)
	if !details.Anchors.Device {
		failed = append(failed, ReasonDeviceNotBound)
	}
	if len(failed) > 0 {
		details.ElapsedMs = v.clock.Now().Sub(start).Milliseconds()
		return newVerdict(joinReasons(failed), details)
	}

	v.setState(StateCapturingForeground)
	fg, ok := v.captureForeground(ctx, tmpl.FaceGeometryHash != "")
	details.ElapsedMs = v.clock.Now().Sub(start).Milliseconds()
	if !ok {
		return newVerdict(ReasonWindowExceeded, details)
	}

	details.Anchors.Face = v.checkFace(ctx, tmpl, fg)
	if !details.Anchors.Face {
		failed = append(failed, ReasonFaceMismatch)
	}
	details.Anchors.Finger = fg.finger.RidgeMatch == tmpl.FingerRidgeMatch || tmpl.FingerRidgeMatch
	details.FingerSimulated = fg.finger.Simulated
	if !details.Anchors.Finger {
		failed = append(failed, ReasonFingerMismatch)
	}
	if len(failed) > 0 {
		return newVerdict(joinReasons(failed), details)
	}
	return newVerdict(ReasonVerified, details)
}

func (v *Verifier) checkPosition(tmpl *template.Template) bool {
	if tmpl.GPSLocation == nil {
		return true
	}
	if v.position.Status() != position.StatusLocked {
		return false
	}
	fix, ok := v.position.LastFix()
	if !ok {
		return false
	}
	current := template.GeoPoint{Latitude: fix.Latitude, Longitude: fix.Longitude, Accuracy: fix.Accuracy}
	return template.WithinDistance(*tmpl.GPSLocation, current, v.maxDistanceM)
}

func (v *Verifier) checkDevice(ctx context.Context, deviceID string) bool {
	bound, err := v.device.IsBound(ctx, deviceID)
	if err != nil {
		v.logger.WarnContext(ctx, "device allow-list unavailable", "error", err)
		return false
	}
	return bound
}

type foreground struct {
	faceSkipped bool
	face        *face.Capture
	faceErr     error
	finger      finger.Result
}

// captureForeground races the face and finger captures against the window.
// A late result is discarded even if the capture eventually completes.
func (v *Verifier) captureForeground(ctx context.Context, needFace bool) (foreground, bool) {
	start := v.clock.Now()
	defer func() { v.metrics.ObserveForegroundLatency(v.clock.Now().Sub(start)) }()

	fgCtx, cancel := context.WithTimeout(ctx, v.window)
	defer cancel()

	done := make(chan foreground, 1)
	go func() {
		res := foreground{faceSkipped: !needFace}
		g, gctx := errgroup.WithContext(fgCtx)
		if needFace {
			g.Go(func() error {
				res.face, res.faceErr = v.face.Capture(gctx)
				return nil
			})
		}
		g.Go(func() error {
			res.finger = v.finger.Capture(gctx)
			return nil
		})
		_ = g.Wait()
		done <- res
	}()

	select {
	case res := <-done:
		if fgCtx.Err() != nil || v.clock.Now().Sub(start) > v.window {
			return foreground{}, false
		}
		return res, true
	case <-fgCtx.Done():
		return foreground{}, false
	}
}

func (v *Verifier) checkFace(ctx context.Context, tmpl *template.Template, fg foreground) bool {
	if fg.faceSkipped {
		return true
	}
	if errors.Is(fg.faceErr, face.ErrLiveness) {
		v.logger.WarnContext(ctx, "face liveness rejected", "error", fg.faceErr)
		return false
	}
	if fg.face == nil || fg.faceErr != nil {
		v.logger.WarnContext(ctx, "face capture failed", "error", fg.faceErr)
		return false
	}
	floor := min(verifyLivenessFloor, tmpl.FaceLivenessMin)
	return template.Compare(tmpl.FaceGeometryHash, fg.face.GeometryHash, v.faceTolerance) &&
		fg.face.Liveness >= floor
}

func (v *Verifier) record(ctx context.Context, deviceID string, verdict Verdict) {
	meta := map[string]any{
		"reason":     string(verdict.Reason),
		"elapsed_ms": verdict.Details.ElapsedMs,
		"position":   verdict.Details.Anchors.Position,
		"device":     verdict.Details.Anchors.Device,
		"face":       verdict.Details.Anchors.Face,
		"finger":     verdict.Details.Anchors.Finger,
	}
	if verdict.OK {
		v.logger.InfoContext(ctx, "cohesion verified", "device_id", deviceID, "elapsed_ms", verdict.Details.ElapsedMs)
		v.accessLog.LogAccessAttempt(ctx, "cohesion verified", meta, deviceID)
		return
	}
	v.logger.WarnContext(ctx, "cohesion failed", "device_id", deviceID, "reason", string(verdict.Reason))
	v.accessLog.LogAccessAttempt(ctx, "cohesion failed", meta, deviceID)
}
