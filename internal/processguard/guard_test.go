package processguard_test

//go:generate mockgen -source=guard.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/lock"
	"sovereign/internal/processguard"
	"sovereign/internal/processguard/mocks"
	dErrors "sovereign/pkg/domain-errors"
)

// =============================================================================
// Process Guard Test Suite
// =============================================================================
// Each intercept forces a lock and waits in the queue; only ReleaseAll
// acknowledges, with a token the desktop guard can validate.

type GuardSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	locker *mocks.MockLocker
	acker  *mocks.MockAcknowledger
	tokens *jwttoken.JWTService
	guard  *processguard.Guard
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.locker = mocks.NewMockLocker(s.ctrl)
	s.acker = mocks.NewMockAcknowledger(s.ctrl)
	s.tokens = jwttoken.NewJWTService("key", "sovereign-guard", "process-guard")
	g, err := processguard.New(s.tokens, s.acker,
		processguard.WithDeviceID(func() string { return "device-1" }),
		processguard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)
	g.SetLocker(s.locker)
	s.guard = g
}

func (s *GuardSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GuardSuite) TestNew() {
	_, err := processguard.New(nil, s.acker)
	s.ErrorContains(err, "token service is required")
	_, err = processguard.New(s.tokens, nil)
	s.ErrorContains(err, "acknowledger is required")
}

func (s *GuardSuite) TestIntercept() {
	ctx := context.Background()

	s.Run("forces a local lock and queues", func() {
		s.locker.EXPECT().Lock(gomock.Any(), lock.TriggerIntercept).Times(2)
		a, err := s.guard.Intercept(ctx, "wallet.exe", 100)
		s.Require().NoError(err)
		b, err := s.guard.Intercept(ctx, "bank.exe", 200)
		s.Require().NoError(err)
		s.NotEqual(a.ID, b.ID)
		s.Len(s.guard.Pending(), 2)
	})

	s.Run("process name is required", func() {
		_, err := s.guard.Intercept(ctx, "", 1)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *GuardSuite) TestReleaseAll() {
	ctx := context.Background()
	s.locker.EXPECT().Lock(gomock.Any(), gomock.Any()).AnyTimes()
	in, err := s.guard.Intercept(ctx, "wallet.exe", 100)
	s.Require().NoError(err)

	s.Run("failed delivery stays queued", func() {
		s.acker.EXPECT().Acknowledge(gomock.Any(), gomock.Any()).Return(errors.New("guard offline"))
		s.Error(s.guard.ReleaseAll(ctx))
		s.Len(s.guard.Pending(), 1)
	})

	s.Run("sends a signed valid-presence ack", func() {
		s.acker.EXPECT().Acknowledge(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ack processguard.Ack) error {
				s.Equal(in.ID, ack.InterceptID)
				s.Equal(jwttoken.PresenceStatus, ack.Status)
				claims, err := s.tokens.ValidatePresenceToken(ack.Token)
				s.Require().NoError(err)
				s.Equal("device-1", claims.Subject)
				s.Equal(100, claims.PID)
				return nil
			})
		s.NoError(s.guard.ReleaseAll(ctx))
		s.Empty(s.guard.Pending())
	})

	s.Run("empty queue sends nothing", func() {
		s.NoError(s.guard.ReleaseAll(ctx))
	})
}

func TestHTTPAcknowledger(t *testing.T) {
	var got processguard.Ack
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	acker := processguard.NewHTTPAcknowledger(srv.URL, srv.Client())
	err := acker.Acknowledge(context.Background(), processguard.Ack{InterceptID: "i", Status: "valid-presence", Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "i", got.InterceptID)
}
