package duress

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sovereign/internal/duress/metrics"
	"sovereign/internal/storage"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit/publisher"
	auditmemory "sovereign/pkg/platform/audit/store/memory"
)

// =============================================================================
// Duress Service Test Suite
// =============================================================================
// Baseline validation, threshold boundary, and persistence of Shadow Mode
// across restarts.

type failingKV struct {
	storage.KV
}

func (failingKV) Put(context.Context, string, []byte) error {
	return errors.New("read-only")
}

type DuressSuite struct {
	suite.Suite
	kv         storage.KV
	auditStore *auditmemory.InMemoryStore
	metrics    *metrics.Metrics
	service    *Service
}

func TestDuressSuite(t *testing.T) {
	suite.Run(t, new(DuressSuite))
}

func (s *DuressSuite) SetupTest() {
	s.kv = storage.NewInMemoryKV()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = s.newService(s.kv)
}

func (s *DuressSuite) newService(kv storage.KV) *Service {
	svc, err := New(kv,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	return svc
}

func (s *DuressSuite) TestNew() {
	_, err := New(nil)
	s.ErrorContains(err, "state store is required")
}

func (s *DuressSuite) TestSetBaseline() {
	ctx := context.Background()

	s.Run("accepts plausible reading and persists it", func() {
		ok, err := s.service.SetBaseline(ctx, 72)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(72.0, s.service.Baseline())

		var stored float64
		found, err := storage.GetJSON(ctx, s.kv, storage.KeyBaselineBPM, &stored)
		s.Require().NoError(err)
		s.True(found)
		s.Equal(72.0, stored)
	})

	s.Run("implausible readings keep previous baseline", func() {
		for _, bpm := range []float64{0, 39.9, 200.1, 500} {
			ok, err := s.service.SetBaseline(ctx, bpm)
			s.Require().NoError(err)
			s.False(ok, "bpm %v", bpm)
		}
		s.Equal(72.0, s.service.Baseline())
	})

	s.Run("range bounds are inclusive", func() {
		ok, _ := s.service.SetBaseline(ctx, 40)
		s.True(ok)
		ok, _ = s.service.SetBaseline(ctx, 200)
		s.True(ok)
	})

	s.Run("persist failure leaves baseline untouched", func() {
		svc := s.newService(failingKV{KV: storage.NewInMemoryKV()})
		ok, err := svc.SetBaseline(ctx, 70)
		s.False(ok)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Zero(svc.Baseline())
	})
}

func (s *DuressSuite) TestCheckDuress() {
	ctx := context.Background()

	s.Run("no baseline never reports duress", func() {
		s.False(s.service.CheckDuress(180))
	})

	_, err := s.service.SetBaseline(ctx, 100)
	s.Require().NoError(err)

	s.Run("threshold is inclusive", func() {
		s.True(s.service.CheckDuress(140))
		s.False(s.service.CheckDuress(139))
	})
}

func (s *DuressSuite) TestEvaluate() {
	ctx := context.Background()
	_, err := s.service.SetBaseline(ctx, 70)
	s.Require().NoError(err)

	s.Run("calm reading leaves shadow off", func() {
		duress, err := s.service.Evaluate(ctx, 75)
		s.Require().NoError(err)
		s.False(duress)
		s.False(s.service.ShadowActive())
	})

	s.Run("elevated reading enters shadow and persists", func() {
		duress, err := s.service.Evaluate(ctx, 110)
		s.Require().NoError(err)
		s.True(duress)
		s.True(s.service.ShadowActive())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.DuressDetected))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.ShadowActive))

		restarted := s.newService(s.kv)
		s.Require().NoError(restarted.Load(ctx))
		s.True(restarted.ShadowActive())
		s.Equal(70.0, restarted.Baseline())
	})

	s.Run("exit shadow clears the flag", func() {
		s.Require().NoError(s.service.ExitShadow(ctx))
		s.False(s.service.ShadowActive())

		var shadow bool
		_, err := storage.GetJSON(ctx, s.kv, storage.KeyShadowMode, &shadow)
		s.Require().NoError(err)
		s.False(shadow)
	})

	events, err := s.auditStore.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("duress_detected", events[0].Action)
	s.Equal("shadow_exited", events[1].Action)
}

func TestGuardTransfer(t *testing.T) {
	ctx := context.Background()
	intent := Intent{To: "acct-1", Amount: 50, Currency: "USD"}

	t.Run("executes when shadow is off", func(t *testing.T) {
		svc, err := New(storage.NewInMemoryKV())
		require.NoError(t, err)
		guard := NewGuard(svc, nil, nil)

		called := 0
		receipt, err := guard.Transfer(ctx, intent, func(_ context.Context, in Intent) (Receipt, error) {
			called++
			assert.Equal(t, intent, in)
			return Receipt{Reference: "real-1", Status: "accepted"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, called)
		assert.Equal(t, "real-1", receipt.Reference)
	})

	t.Run("suppresses and fabricates receipt in shadow", func(t *testing.T) {
		kv := storage.NewInMemoryKV()
		svc, err := New(kv)
		require.NoError(t, err)
		_, err = svc.SetBaseline(ctx, 60)
		require.NoError(t, err)
		_, err = svc.Evaluate(ctx, 120)
		require.NoError(t, err)

		guard := NewGuard(svc, nil, nil)
		receipt, err := guard.Transfer(ctx, intent, func(context.Context, Intent) (Receipt, error) {
			t.Fatal("executor must not run in shadow mode")
			return Receipt{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "accepted", receipt.Status)
		assert.NotEmpty(t, receipt.Reference)
		assert.False(t, receipt.AcceptedAt.IsZero())
	})
}

func TestDecoy(t *testing.T) {
	view := Decoy()
	assert.Equal(t, 142.37, view.Balance)
	assert.Len(t, view.Activity, 3)
	assert.Equal(t, view, Decoy())
}
