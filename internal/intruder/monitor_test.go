package intruder

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"sovereign/internal/anchor/face"
	"sovereign/internal/camera"
	"sovereign/internal/camera/camerafake"
	"sovereign/internal/intruder/metrics"
	"sovereign/internal/template"
	"sovereign/pkg/platform/clock"
)

// =============================================================================
// Intruder Monitor Test Suite
// =============================================================================
// The monitor runs on a fake scheduler so each Advance(500ms) is one tick.
// Frames are solid grey: the owner is 0x80, anyone else is 0x20.

var (
	ownerFrame    = camerafake.Solid(0x80)
	intruderFrame = camerafake.Solid(0x20)
)

type staticTemplates struct {
	tmpl *template.Template
}

func (s staticTemplates) Load(context.Context) (*template.Template, error) {
	return s.tmpl, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	photos [][]byte
	videos [][]byte
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, photo, video []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.photos = append(r.photos, photo)
	r.videos = append(r.videos, video)
	return int64(len(r.photos)), nil
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.photos)
}

type MonitorSuite struct {
	suite.Suite
	clock    *clock.Fake
	device   *camerafake.Device
	session  *camera.Session
	recorder *fakeRecorder
	metrics  *metrics.Metrics
	owner    atomic.Bool
	monitor  *Monitor
}

func TestMonitorSuite(t *testing.T) {
	suite.Run(t, new(MonitorSuite))
}

func (s *MonitorSuite) SetupTest() {
	s.clock = clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s.owner.Store(true)
	s.device = &camerafake.Device{Next: func(int) image.Image {
		if s.owner.Load() {
			return ownerFrame
		}
		return intruderFrame
	}}
	s.session = camera.NewSession(s.device)
	s.recorder = &fakeRecorder{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.monitor = s.newMonitor(face.GeometryHash(ownerFrame))
}

func (s *MonitorSuite) TearDownTest() {
	s.monitor.Stop()
}

func (s *MonitorSuite) newMonitor(reference string) *Monitor {
	m, err := New(s.session,
		staticTemplates{tmpl: &template.Template{FaceGeometryHash: reference}},
		s.recorder,
		WithScheduler(s.clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	return m
}

func (s *MonitorSuite) tick(n int) {
	for range n {
		s.clock.Advance(DefaultTick)
	}
}

func (s *MonitorSuite) TestNew() {
	_, err := New(nil, staticTemplates{}, s.recorder)
	s.ErrorContains(err, "camera session is required")
	_, err = New(s.session, nil, s.recorder)
	s.ErrorContains(err, "template source is required")
	_, err = New(s.session, staticTemplates{}, nil)
	s.ErrorContains(err, "breach recorder is required")
}

func (s *MonitorSuite) TestSnapAction() {
	ctx := context.Background()
	s.Require().NoError(s.monitor.Start(ctx))
	s.owner.Store(false)

	s.Run("two misses raise the proximity alert", func() {
		s.tick(2)
		st := s.monitor.Status()
		s.True(st.ProximityAlert)
		s.Equal(2, st.Misses)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.ProximityAlerts))
	})

	s.Run("four misses trigger exactly one snap and reset", func() {
		s.tick(2)
		s.monitor.Wait()
		s.Equal(1, s.recorder.count())
		s.Equal(0, s.monitor.Status().Misses)
		s.Equal(1, s.device.Photos())
		s.Equal(1, s.device.Recordings())
		s.Equal([]byte("clip:3s"), s.recorder.videos[0])
		s.Equal(1.0, testutil.ToFloat64(s.metrics.SnapActions.WithLabelValues("recorded")))
	})

	s.Run("recognized face clears the alert", func() {
		s.owner.Store(true)
		s.tick(1)
		st := s.monitor.Status()
		s.False(st.ProximityAlert)
		s.Zero(st.Misses)
		s.Equal(s.clock.Now(), st.LastSeen)
	})

	s.Equal(1, s.device.MaxConcurrent(), "snap shares the monitor's stream")
}

func (s *MonitorSuite) TestMatchResetsRun() {
	s.Require().NoError(s.monitor.Start(context.Background()))

	s.owner.Store(false)
	s.tick(3)
	s.owner.Store(true)
	s.tick(1)
	s.owner.Store(false)
	s.tick(3)
	s.monitor.Wait()

	s.Zero(s.recorder.count())
	s.Equal(3, s.monitor.Status().Misses)
}

func (s *MonitorSuite) TestRecorderFailureKeepsSampling() {
	s.recorder.err = errors.New("vault sealed")
	s.Require().NoError(s.monitor.Start(context.Background()))
	s.owner.Store(false)

	s.tick(8)
	s.monitor.Wait()

	s.True(s.monitor.Status().Running)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.SnapActions.WithLabelValues("error")))
	s.True(s.session.Active())
}

func (s *MonitorSuite) TestLookAway() {
	// No enrolled face: frames are not judged, but the look-away clock runs.
	s.monitor = s.newMonitor("")
	var fired atomic.Int32
	s.monitor.OnLookAway(func(context.Context) { fired.Add(1) })
	s.Require().NoError(s.monitor.Start(context.Background()))

	s.clock.Advance(DefaultLookAwayTimeout)
	s.Zero(fired.Load(), "timeout is exclusive")

	s.tick(1)
	s.Equal(int32(1), fired.Load())

	s.clock.Advance(DefaultLookAwayTimeout)
	s.Equal(int32(1), fired.Load())
	s.tick(1)
	s.Equal(int32(2), fired.Load())
	s.Zero(s.recorder.count())
}

func (s *MonitorSuite) TestOwnerPresencePostponesLookAway() {
	var fired atomic.Int32
	s.monitor.OnLookAway(func(context.Context) { fired.Add(1) })
	s.Require().NoError(s.monitor.Start(context.Background()))

	s.clock.Advance(time.Minute)
	s.Zero(fired.Load())
}

func (s *MonitorSuite) TestStartStopReleasesCamera() {
	defer goleak.VerifyNone(s.T(), goleak.IgnoreCurrent())
	ctx := context.Background()

	for range 3 {
		s.Require().NoError(s.monitor.Start(ctx))
		s.Require().NoError(s.monitor.Start(ctx))
		s.owner.Store(false)
		s.tick(3)
		s.monitor.Stop()
		s.monitor.Stop()

		st := s.monitor.Status()
		s.False(st.Running)
		s.Zero(st.Misses)
		s.False(st.ProximityAlert)
		s.Zero(s.device.OpenNow())
		s.Zero(s.clock.Active())
	}
	s.Equal(1, s.device.MaxConcurrent())
	s.Equal(3, s.device.Opens())
}

func TestMonitorRealScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	device := &camerafake.Device{Next: camerafake.Uniform(0x20)}
	session := camera.NewSession(device)
	recorder := &fakeRecorder{}
	m, err := New(session,
		staticTemplates{tmpl: &template.Template{FaceGeometryHash: face.GeometryHash(ownerFrame)}},
		recorder,
		WithTick(5*time.Millisecond),
		WithClipLength(10*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for recorder.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()

	if recorder.count() == 0 {
		t.Fatal("expected at least one snap-action")
	}
	if device.OpenNow() != 0 {
		t.Fatalf("camera left open: %d streams", device.OpenNow())
	}
}
