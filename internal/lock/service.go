// Package lock owns the persisted local/remote lock flags and the overlay,
// input blocking and intruder monitoring that go with a locked state.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sovereign/internal/cohesion"
	"sovereign/internal/lock/metrics"
	"sovereign/internal/platform/observability"
	"sovereign/internal/storage"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

var anchorNames = []string{"position", "device", "face", "finger"}

// Service is the lock state machine. All mutation goes through its methods,
// which write through to the KV store before the in-memory state changes.
type Service struct {
	kv       storage.KV
	overlay  Overlay
	blocker  InputBlocker
	monitor  Monitor
	verifier Verifier
	presence PresenceReleaser

	logger  *slog.Logger
	auditor observability.AuditPublisher
	metrics *metrics.Metrics

	mu          sync.Mutex
	state       State
	escalations uint64

	// unlockMu admits one unlock attempt at a time; fx serializes overlay,
	// input and monitor side effects.
	unlockMu sync.Mutex
	fx       sync.Mutex
	applied  Mode
}

type Option func(*Service)

func WithMonitor(m Monitor) Option {
	return func(s *Service) {
		s.monitor = m
	}
}

func WithVerifier(v Verifier) Option {
	return func(s *Service) {
		s.verifier = v
	}
}

func WithPresenceReleaser(p PresenceReleaser) Option {
	return func(s *Service) {
		s.presence = p
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

func New(kv storage.KV, overlay Overlay, blocker InputBlocker, opts ...Option) (*Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if overlay == nil || blocker == nil {
		return nil, fmt.Errorf("overlay and input blocker are required")
	}
	s := &Service{
		kv:      kv,
		overlay: overlay,
		blocker: blocker,
		logger:  slog.Default(),
		applied: ModeUnlocked,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Restore re-derives the lock state from storage and presents it. It is
// called once on every process start.
func (s *Service) Restore(ctx context.Context) error {
	var st State
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyLockState, &st); err != nil {
		return fmt.Errorf("restore lock state: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	if st.Locked() {
		s.logger.InfoContext(ctx, "resuming lock from persisted state", "mode", string(st.Mode()))
		s.metrics.IncrementTransition(string(st.Mode()), string(TriggerRestore))
	}
	s.reconcile(ctx, true)
	return nil
}

// Current returns the in-memory lock state.
func (s *Service) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lock sets the local lock flag and presents the overlay. It never fails;
// a persistence error keeps the lock in memory and is logged.
func (s *Service) Lock(ctx context.Context, trigger Trigger) {
	s.mu.Lock()
	next := s.state
	next.LocalLockActive = true
	s.commitLocked(ctx, next)
	s.mu.Unlock()

	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventLockEngaged,
		"reason", string(trigger), "mode", string(next.Mode()))
	s.metrics.IncrementTransition(string(next.Mode()), string(trigger))
	s.reconcile(ctx, true)
}

// LookAway handles the intruder monitor's look-away timeout. It only applies
// while a lock is active, since the monitor only runs then.
func (s *Service) LookAway(ctx context.Context) {
	s.mu.Lock()
	if !s.state.Locked() {
		s.mu.Unlock()
		return
	}
	next := s.state
	next.LocalLockActive = true
	s.commitLocked(ctx, next)
	s.mu.Unlock()

	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventLookAwayLock, "mode", string(next.Mode()))
	s.metrics.IncrementTransition(string(next.Mode()), string(TriggerLookAway))

	// Called from the monitor's own tick. A transition already in flight
	// presents the current mode, and waiting for it could wait on this tick.
	if !s.fx.TryLock() {
		return
	}
	defer s.fx.Unlock()
	s.show(ctx, next.Mode())
}

// RemoteLock escalates to the remote lock, which only a full cohesion verdict
// clears.
func (s *Service) RemoteLock(ctx context.Context) {
	s.mu.Lock()
	next := s.state
	if !next.RemoteLockActive {
		s.escalations++
	}
	next.RemoteLockActive = true
	s.commitLocked(ctx, next)
	s.mu.Unlock()

	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventRemoteLockEngaged, "mode", string(next.Mode()))
	s.metrics.IncrementTransition(string(next.Mode()), string(TriggerRemote))
	s.reconcile(ctx, true)
}

// Unlock runs the overlay's verify flow and clears both flags in one write on
// success. A failed verdict is returned with a nil error. A second Unlock while
// one is verifying is a conflict.
func (s *Service) Unlock(ctx context.Context) (cohesion.Verdict, error) {
	if !s.unlockMu.TryLock() {
		return cohesion.Verdict{}, dErrors.New(dErrors.CodeConflict, "unlock verification already in progress")
	}
	defer s.unlockMu.Unlock()

	s.mu.Lock()
	st := s.state
	escalations := s.escalations
	s.mu.Unlock()

	if !st.Locked() {
		return cohesion.Verdict{}, dErrors.New(dErrors.CodeConflict, "device is not locked")
	}
	if s.verifier == nil {
		return cohesion.Verdict{}, dErrors.New(dErrors.CodeUnavailable, "unlock verification is not configured")
	}

	verdict, err := s.verifier.VerifyForUnlock(ctx)
	if err != nil {
		return verdict, dErrors.Wrap(err, dErrors.CodeInternal, "unlock verification failed")
	}
	s.showAnchorResults(ctx, verdict)
	if !verdict.OK {
		observability.LogAudit(ctx, s.logger, s.auditor, audit.EventUnlockDenied,
			"reason", string(verdict.Reason), "mode", string(st.Mode()))
		s.metrics.IncrementUnlockDenied()
		return verdict, nil
	}

	s.mu.Lock()
	if s.escalations != escalations {
		s.mu.Unlock()
		return verdict, dErrors.New(dErrors.CodeConflict, "remote lock engaged during verification; verify again")
	}
	if err := storage.PutJSON(ctx, s.kv, storage.KeyLockState, State{}); err != nil {
		s.mu.Unlock()
		return verdict, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist unlock")
	}
	s.state = State{}
	s.mu.Unlock()

	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventLockReleased,
		"reason", string(verdict.Reason), "decision", "granted", "mode", string(st.Mode()))
	s.metrics.IncrementTransition(string(ModeUnlocked), string(TriggerVerified))
	s.reconcile(ctx, false)

	if s.presence != nil {
		if err := s.presence.ReleaseAll(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to release intercepted processes", "error", err)
		}
	}
	return verdict, nil
}

// commitLocked persists next and installs it. Caller holds s.mu.
func (s *Service) commitLocked(ctx context.Context, next State) {
	if err := storage.PutJSON(ctx, s.kv, storage.KeyLockState, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist lock state; lock held in memory", "error", err)
	}
	s.state = next
}

// reconcile brings the overlay, input blocker and monitor in line with the
// current mode. reshow presents the overlay again even when the mode is
// unchanged.
func (s *Service) reconcile(ctx context.Context, reshow bool) {
	s.fx.Lock()
	defer s.fx.Unlock()

	mode := s.Current().Mode()
	s.metrics.SetMode(string(mode), allModes...)
	if mode == s.applied && !(reshow && mode != ModeUnlocked) {
		return
	}

	if mode == ModeUnlocked {
		if s.monitor != nil {
			s.monitor.Stop()
		}
		if err := s.blocker.Unblock(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to remove input interceptors", "error", err)
		}
		if err := s.overlay.Hide(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to tear down overlay", "error", err)
		}
		s.applied = ModeUnlocked
		return
	}

	s.show(ctx, mode)
	if s.applied == ModeUnlocked {
		if err := s.blocker.Block(ctx); err != nil {
			s.degrade(ctx, ComponentInput, err)
		}
		if s.monitor != nil {
			if err := s.monitor.Start(ctx); err != nil {
				s.degrade(ctx, ComponentMonitor, err)
			}
		}
	}
	s.applied = mode
}

func (s *Service) show(ctx context.Context, mode Mode) {
	if err := s.overlay.Show(ctx, mode); err != nil {
		s.degrade(ctx, ComponentOverlay, err)
		return
	}
	for _, name := range anchorNames {
		_ = s.overlay.SetAnchorStatus(ctx, name, AnchorStatusPending)
	}
}

func (s *Service) showAnchorResults(ctx context.Context, verdict cohesion.Verdict) {
	results := map[string]bool{
		"position": verdict.Details.Anchors.Position,
		"device":   verdict.Details.Anchors.Device,
		"face":     verdict.Details.Anchors.Face,
		"finger":   verdict.Details.Anchors.Finger,
	}
	for _, name := range anchorNames {
		status := "Failed"
		if results[name] {
			status = "Verified"
		}
		_ = s.overlay.SetAnchorStatus(ctx, name, status)
	}
}

// degrade marks a component of the lock surface as errored instead of
// aborting the lock.
func (s *Service) degrade(ctx context.Context, component string, err error) {
	s.logger.ErrorContext(ctx, "lock surface degraded", "component", component, "error", err)
	if serr := s.overlay.SetAnchorStatus(ctx, component, AnchorStatusError); serr != nil {
		s.logger.WarnContext(ctx, "failed to set anchor status", "component", component, "error", serr)
	}
}
