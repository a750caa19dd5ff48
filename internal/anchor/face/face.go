// Package face is the face anchor: a down-sampled geometry hash of one camera
// frame plus an approximate frame-to-frame liveness score.
package face

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sovereign/internal/camera"
)

// ErrLiveness is returned when the liveness score is below the configured floor.
var ErrLiveness = errors.New("liveness check failed")

const (
	DefaultLivenessMin = 0.98
	DefaultLivenessGap = 150 * time.Millisecond
)

// Capture is one face reading.
type Capture struct {
	GeometryHash string    `json:"geometry_hash"`
	Liveness     float64   `json:"liveness"`
	CapturedAt   time.Time `json:"captured_at"`
}

type Anchor struct {
	session     *camera.Session
	livenessMin float64
	gap         time.Duration
}

type Option func(*Anchor)

func WithLivenessMin(min float64) Option {
	return func(a *Anchor) {
		if min > 0 {
			a.livenessMin = min
		}
	}
}

// WithLivenessGap sets the delay between the two liveness frames.
func WithLivenessGap(d time.Duration) Option {
	return func(a *Anchor) {
		a.gap = d
	}
}

func New(session *camera.Session, opts ...Option) *Anchor {
	a := &Anchor{
		session:     session,
		livenessMin: DefaultLivenessMin,
		gap:         DefaultLivenessGap,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capture hashes one frame, waits the liveness gap, and scores a second frame
// against the first. The camera stream is shared through the session and
// released before returning.
func (a *Anchor) Capture(ctx context.Context) (*Capture, error) {
	stream, err := a.session.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer a.session.Release()

	first, err := stream.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}
	if a.gap > 0 {
		timer := time.NewTimer(a.gap)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	second, err := stream.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture liveness frame: %w", err)
	}

	c := &Capture{
		GeometryHash: GeometryHash(first),
		Liveness:     LivenessScore(first, second),
		CapturedAt:   time.Now(),
	}
	if c.Liveness < a.livenessMin {
		return c, fmt.Errorf("%w: score %.3f below %.3f", ErrLiveness, c.Liveness, a.livenessMin)
	}
	return c, nil
}
