package lock_test

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sovereign/internal/cohesion"
	"sovereign/internal/lock"
	"sovereign/internal/lock/metrics"
	"sovereign/internal/lock/mocks"
	"sovereign/internal/storage"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/platform/audit/publisher"
	auditmemory "sovereign/pkg/platform/audit/store/memory"
)

// =============================================================================
// Lock Service Test Suite
// =============================================================================
// The lock service owns the persisted flags. Tests verify precedence on
// restore, atomic clearing on unlock, and that surface failures never abort
// a lock.

type flakyKV struct {
	storage.KV
	failPuts atomic.Bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts.Load() {
		return errors.New("disk full")
	}
	return f.KV.Put(ctx, key, value)
}

type LockServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	kv         *flakyKV
	view       *lock.ViewModel
	monitor    *mocks.MockMonitor
	verifier   *mocks.MockVerifier
	presence   *mocks.MockPresenceReleaser
	auditStore *auditmemory.InMemoryStore
	metrics    *metrics.Metrics
	service    *lock.Service
}

func TestLockServiceSuite(t *testing.T) {
	suite.Run(t, new(LockServiceSuite))
}

func (s *LockServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.kv = &flakyKV{KV: storage.NewInMemoryKV()}
	s.view = lock.NewViewModel()
	s.monitor = mocks.NewMockMonitor(s.ctrl)
	s.verifier = mocks.NewMockVerifier(s.ctrl)
	s.presence = mocks.NewMockPresenceReleaser(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = s.newService(s.view, s.view)
}

func (s *LockServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LockServiceSuite) newService(overlay lock.Overlay, blocker lock.InputBlocker) *lock.Service {
	svc, err := lock.New(s.kv, overlay, blocker,
		lock.WithMonitor(s.monitor),
		lock.WithVerifier(s.verifier),
		lock.WithPresenceReleaser(s.presence),
		lock.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		lock.WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		lock.WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	return svc
}

func (s *LockServiceSuite) persisted() lock.State {
	var st lock.State
	_, err := storage.GetJSON(context.Background(), s.kv, storage.KeyLockState, &st)
	s.Require().NoError(err)
	return st
}

func (s *LockServiceSuite) actions() []string {
	events, err := s.auditStore.ListRecent(context.Background(), 100)
	s.Require().NoError(err)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Action)
	}
	return out
}

func verified() cohesion.Verdict {
	return cohesion.Verdict{
		OK:     true,
		Reason: cohesion.ReasonVerified,
		Details: cohesion.Details{Anchors: cohesion.Anchors{
			Position: true, Device: true, Face: true, Finger: true,
		}},
	}
}

func (s *LockServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := lock.New(nil, s.view, s.view)
		s.ErrorContains(err, "state store is required")
	})

	s.Run("nil overlay returns error", func() {
		_, err := lock.New(s.kv, nil, s.view)
		s.ErrorContains(err, "overlay and input blocker are required")
	})
}

func (s *LockServiceSuite) TestRestore() {
	ctx := context.Background()

	s.Run("remote lock takes precedence over local", func() {
		s.Require().NoError(storage.PutJSON(ctx, s.kv, storage.KeyLockState,
			lock.State{RemoteLockActive: true, LocalLockActive: false}))
		s.monitor.EXPECT().Start(gomock.Any()).Return(nil)

		svc := s.newService(s.view, s.view)
		s.Require().NoError(svc.Restore(ctx))

		view := s.view.Snapshot()
		s.True(view.Visible)
		s.Equal(lock.ModeRemote, view.Mode)
		s.Equal(lock.ThemeRemote, view.Theme)
		s.True(view.InputBlocked)
		s.Equal(lock.ModeRemote, svc.Current().Mode())
	})

	s.Run("unlocked state presents nothing", func() {
		s.view = lock.NewViewModel()
		s.Require().NoError(s.kv.Delete(ctx, storage.KeyLockState))
		svc := s.newService(s.view, s.view)
		s.Require().NoError(svc.Restore(ctx))
		s.False(s.view.Snapshot().Visible)
		s.False(svc.Current().Locked())
	})

	s.Run("corrupt state is an error", func() {
		s.Require().NoError(s.kv.Put(ctx, storage.KeyLockState, []byte("{")))
		svc := s.newService(s.view, s.view)
		s.Error(svc.Restore(ctx))
	})
}

func (s *LockServiceSuite) TestLock() {
	ctx := context.Background()
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil).Times(1)

	s.service.Lock(ctx, lock.TriggerCommand)
	s.service.Lock(ctx, lock.TriggerCommand)

	s.Equal(lock.State{LocalLockActive: true}, s.persisted())
	view := s.view.Snapshot()
	s.Equal(lock.ModeLocal, view.Mode)
	s.Equal(lock.ThemeStandard, view.Theme)
	s.Equal(uint64(2), view.ShowGeneration)
	s.Equal(lock.AnchorStatusPending, view.AnchorStatus["face"])
	s.Equal([]string{"lock_engaged", "lock_engaged"}, s.actions())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.LockTransitionsTotal.WithLabelValues("LOCAL_LOCKED", "command")))
}

func (s *LockServiceSuite) TestLockSurvivesPersistenceFailure() {
	s.kv.failPuts.Store(true)
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil)

	s.service.Lock(context.Background(), lock.TriggerManual)

	s.True(s.service.Current().LocalLockActive)
	s.True(s.view.Snapshot().Visible)
}

func (s *LockServiceSuite) TestRemoteLock() {
	ctx := context.Background()
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil).Times(1)

	s.service.Lock(ctx, lock.TriggerCommand)
	s.service.RemoteLock(ctx)

	s.Equal(lock.State{LocalLockActive: true, RemoteLockActive: true}, s.persisted())
	s.Equal(lock.ThemeRemote, s.view.Snapshot().Theme)
	s.Contains(s.actions(), "remote_lock_engaged")
}

func (s *LockServiceSuite) TestUnlock() {
	ctx := context.Background()

	s.Run("not locked is a conflict", func() {
		_, err := s.service.Unlock(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("failed verdict keeps the lock", func() {
		s.monitor.EXPECT().Start(gomock.Any()).Return(nil)
		s.service.Lock(ctx, lock.TriggerCommand)

		s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).Return(cohesion.Verdict{
			Reason:  cohesion.ReasonFaceMismatch,
			Details: cohesion.Details{Anchors: cohesion.Anchors{Position: true, Device: true}},
		}, nil)

		verdict, err := s.service.Unlock(ctx)
		s.Require().NoError(err)
		s.False(verdict.OK)
		s.True(s.service.Current().LocalLockActive)
		view := s.view.Snapshot()
		s.Equal("Verified", view.AnchorStatus["position"])
		s.Equal("Failed", view.AnchorStatus["face"])
		s.Contains(s.actions(), "unlock_denied")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.UnlockDeniedTotal))
	})

	s.Run("verifier error is internal and keeps the lock", func() {
		s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).Return(cohesion.Verdict{}, errors.New("camera gone"))
		_, err := s.service.Unlock(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.True(s.service.Current().Locked())
	})

	s.Run("success from remote lock clears both flags", func() {
		s.service.RemoteLock(ctx)
		s.Require().Equal(lock.State{LocalLockActive: true, RemoteLockActive: true}, s.persisted())

		gomock.InOrder(
			s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).Return(verified(), nil),
			s.monitor.EXPECT().Stop(),
			s.presence.EXPECT().ReleaseAll(gomock.Any()).Return(nil),
		)

		verdict, err := s.service.Unlock(ctx)
		s.Require().NoError(err)
		s.True(verdict.OK)
		s.Equal(lock.State{}, s.persisted())
		s.Equal(lock.State{}, s.service.Current())
		view := s.view.Snapshot()
		s.False(view.Visible)
		s.False(view.InputBlocked)
		s.Contains(s.actions(), "lock_released")
	})
}

func (s *LockServiceSuite) TestUnlockPersistenceFailureStaysLocked() {
	ctx := context.Background()
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil)
	s.service.RemoteLock(ctx)

	s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).Return(verified(), nil)
	s.kv.failPuts.Store(true)

	_, err := s.service.Unlock(ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(lock.ModeRemote, s.service.Current().Mode())
	s.True(s.view.Snapshot().Visible)
}

func (s *LockServiceSuite) TestEscalationDuringVerificationRequiresNewVerdict() {
	ctx := context.Background()
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil)
	s.service.Lock(ctx, lock.TriggerCommand)

	s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).DoAndReturn(func(ctx context.Context) (cohesion.Verdict, error) {
		s.service.RemoteLock(ctx)
		return verified(), nil
	})

	_, err := s.service.Unlock(ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(lock.ModeRemote, s.service.Current().Mode())
}

func (s *LockServiceSuite) TestConcurrentUnlockIsConflict() {
	ctx := context.Background()
	s.monitor.EXPECT().Start(gomock.Any()).Return(nil)
	s.service.Lock(ctx, lock.TriggerCommand)

	s.verifier.EXPECT().VerifyForUnlock(gomock.Any()).DoAndReturn(func(ctx context.Context) (cohesion.Verdict, error) {
		_, err := s.service.Unlock(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		return cohesion.Verdict{Reason: cohesion.ReasonFaceMismatch}, nil
	}).Times(1)

	verdict, err := s.service.Unlock(ctx)
	s.Require().NoError(err)
	s.False(verdict.OK)
	s.True(s.service.Current().LocalLockActive)
}

func (s *LockServiceSuite) TestLookAway() {
	ctx := context.Background()

	s.Run("ignored while unlocked", func() {
		s.service.LookAway(ctx)
		s.False(s.service.Current().Locked())
		s.False(s.view.Snapshot().Visible)
	})

	s.Run("re-shows the overlay while locked", func() {
		s.monitor.EXPECT().Start(gomock.Any()).Return(nil)
		s.service.Lock(ctx, lock.TriggerCommand)
		before := s.view.Snapshot().ShowGeneration

		s.service.LookAway(ctx)

		s.Equal(before+1, s.view.Snapshot().ShowGeneration)
		s.Contains(s.actions(), string(audit.EventLookAwayLock))
	})
}

func (s *LockServiceSuite) TestSurfaceFailuresDegradeToErrorStatus() {
	overlay := mocks.NewMockOverlay(s.ctrl)
	blocker := mocks.NewMockInputBlocker(s.ctrl)
	svc := s.newService(overlay, blocker)

	overlay.EXPECT().Show(gomock.Any(), lock.ModeLocal).Return(nil)
	overlay.EXPECT().SetAnchorStatus(gomock.Any(), gomock.Any(), lock.AnchorStatusPending).Return(nil).Times(4)
	blocker.EXPECT().Block(gomock.Any()).Return(errors.New("no input hook"))
	overlay.EXPECT().SetAnchorStatus(gomock.Any(), lock.ComponentInput, lock.AnchorStatusError).Return(nil)
	s.monitor.EXPECT().Start(gomock.Any()).Return(errors.New("camera busy"))
	overlay.EXPECT().SetAnchorStatus(gomock.Any(), lock.ComponentMonitor, lock.AnchorStatusError).Return(nil)

	s.NotPanics(func() { svc.Lock(context.Background(), lock.TriggerCommand) })
	s.True(svc.Current().LocalLockActive)
}
