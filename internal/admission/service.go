// Package admission runs the verify-then-admit flow shared by app start and
// the lock overlay, and the one-time enrollment ceremony.
package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sovereign/internal/accesslog"
	"sovereign/internal/anchor/face"
	"sovereign/internal/cohesion"
	"sovereign/internal/mint"
	"sovereign/internal/platform/observability"
	"sovereign/internal/profile"
	"sovereign/internal/template"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/requestcontext"
)

// Result is the outcome of one admission.
type Result struct {
	Verdict cohesion.Verdict `json:"verdict"`
	// Shadow is true when access was granted into the decoy interface.
	Shadow bool `json:"shadow"`
}

// Enrollment bundles the anchors used only by Enroll.
type Enrollment struct {
	Templates TemplateWriter
	Position  PositionAnchor
	Face      FaceAnchor
	Finger    FingerAnchor
}

type Service struct {
	verifier Verifier
	duress   Duress
	device   Device
	profiles profile.Store

	pulse      PulseSensor
	minter     Minter
	enrollment *Enrollment
	accessLog  accesslog.Sink
	logger     *slog.Logger
	auditor    observability.AuditPublisher
}

type Option func(*Service)

func WithPulseSensor(p PulseSensor) Option {
	return func(s *Service) {
		s.pulse = p
	}
}

func WithMinter(m Minter) Option {
	return func(s *Service) {
		s.minter = m
	}
}

func WithEnrollment(e Enrollment) Option {
	return func(s *Service) {
		s.enrollment = &e
	}
}

func WithAccessLog(sink accesslog.Sink) Option {
	return func(s *Service) {
		s.accessLog = sink
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

func New(
	verifier Verifier,
	duress Duress,
	device Device,
	profiles profile.Store,
	opts ...Option,
) (*Service, error) {
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if duress == nil {
		return nil, fmt.Errorf("duress service is required")
	}
	if device == nil {
		return nil, fmt.Errorf("device anchor is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	s := &Service{
		verifier:  verifier,
		duress:    duress,
		device:    device,
		profiles:  profiles,
		minter:    mint.NewDispatcher(mint.Nop{}, nil),
		accessLog: accesslog.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Admit verifies the owner and, on success, checks for duress, records the
// verification on the profile and fires the mint hook once. Duress never
// denies access; it switches the session into Shadow Mode.
func (s *Service) Admit(ctx context.Context) (Result, error) {
	deviceID := s.device.CurrentID()
	ctx = requestcontext.WithDeviceID(ctx, deviceID)

	verdict := s.verifier.Verify(ctx)
	if !verdict.OK {
		observability.LogAudit(ctx, s.logger, s.auditor, audit.EventCohesionFailed,
			"reason", string(verdict.Reason), "decision", "denied")
		return Result{Verdict: verdict}, nil
	}

	duress := s.checkDuress(ctx)
	shadow := s.duress.ShadowActive()
	now := requestcontext.Now(ctx)

	if err := s.profiles.UpsertProfile(ctx, deviceID, profile.Fields{
		"verified":      true,
		"last_verified": now.UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.WarnContext(ctx, "profile update failed", "device_id", deviceID, "error", err)
	}
	s.minter.Fire(ctx, mint.Request{DeviceID: deviceID, VerifiedAt: now.UTC()})

	s.accessLog.LogAccessAttempt(ctx, "admission granted", map[string]any{
		"shadow": shadow,
		"duress": duress,
	}, deviceID)
	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventCohesionVerified,
		"reason", string(verdict.Reason), "decision", "granted")
	return Result{Verdict: verdict, Shadow: shadow}, nil
}

// VerifyForUnlock runs the admission flow on behalf of the lock overlay.
func (s *Service) VerifyForUnlock(ctx context.Context) (cohesion.Verdict, error) {
	res, err := s.Admit(ctx)
	if err != nil {
		return cohesion.Verdict{}, err
	}
	return res.Verdict, nil
}

func (s *Service) checkDuress(ctx context.Context) bool {
	if s.pulse == nil {
		return false
	}
	bpm, err := s.pulse.ReadBPM(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "pulse reading unavailable", "error", err)
		return false
	}
	duress, err := s.duress.Evaluate(ctx, bpm)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to enter shadow mode", "error", err)
	}
	return duress
}

// EnrollResult reports what the ceremony stored.
type EnrollResult struct {
	Template         *template.Template `json:"template"`
	DeviceBound      bool               `json:"deviceBound"`
	BaselineRecorded bool               `json:"baselineRecorded"`
}

// Enroll captures all four anchors and stores them as the new Absolute Truth
// Template, replacing any previous one. A bpm outside the plausible range is
// ignored and the previous baseline kept.
func (s *Service) Enroll(ctx context.Context, bpm float64) (EnrollResult, error) {
	if s.enrollment == nil {
		return EnrollResult{}, dErrors.New(dErrors.CodeUnavailable, "enrollment is not configured")
	}
	e := s.enrollment
	deviceID := s.device.CurrentID()
	ctx = requestcontext.WithDeviceID(ctx, deviceID)

	sig := template.Signals{DeviceUUID: deviceID}

	fix, err := e.Position.Acquire(ctx)
	if err != nil {
		// Enrollment without a fix leaves the position unconstrained.
		s.logger.WarnContext(ctx, "enrolling without position fix", "error", err)
	} else {
		sig.Position = &template.GeoPoint{Latitude: fix.Latitude, Longitude: fix.Longitude, Accuracy: fix.Accuracy}
	}

	bound, err := s.device.Bind(ctx)
	if err != nil {
		return EnrollResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind device")
	}
	if bound {
		observability.LogAudit(ctx, s.logger, s.auditor, audit.EventDeviceBound)
	}

	capture, err := e.Face.Capture(ctx)
	if errors.Is(err, face.ErrLiveness) {
		return EnrollResult{}, dErrors.Wrap(err, dErrors.CodeValidation, "face liveness below enrollment floor")
	}
	if err != nil {
		return EnrollResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "face capture failed")
	}
	sig.FaceGeometryHash = capture.GeometryHash
	sig.FaceLiveness = capture.Liveness

	fr := e.Finger.Capture(ctx)
	sig.FingerRidgeMatch = fr.RidgeMatch
	sig.FingerSimulated = fr.Simulated

	recorded, err := s.duress.SetBaseline(ctx, bpm)
	if err != nil {
		return EnrollResult{}, err
	}
	if recorded {
		observability.LogAudit(ctx, s.logger, s.auditor, audit.EventBaselineRecorded)
	}

	tmpl, err := e.Templates.Save(ctx, sig)
	if err != nil {
		return EnrollResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store template")
	}
	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventTemplateEnrolled)
	s.accessLog.LogConsent(ctx, "biometric enrollment", map[string]any{
		"finger_simulated": fr.Simulated,
		"position":         sig.Position != nil,
	}, deviceID)

	return EnrollResult{Template: tmpl, DeviceBound: bound, BaselineRecorded: recorded}, nil
}
