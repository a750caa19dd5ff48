// Package finger is the finger anchor: a platform user-presence ceremony.
//
// When the platform has no authenticator, or the ceremony fails or times out,
// the anchor reports a simulated match instead of failing. This keeps first-run
// and headless hosts usable but means the four-anchor check degrades to three
// anchors on such hosts.
package finger

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"
)

// DefaultTimeout bounds the ceremony.
const DefaultTimeout = 1200 * time.Millisecond

// Authenticator is the platform user-presence capability.
type Authenticator interface {
	Available(ctx context.Context) bool
	// Assert runs one user-presence ceremony over challenge.
	Assert(ctx context.Context, challenge []byte) error
}

// Result is one finger reading.
type Result struct {
	RidgeMatch bool `json:"ridge_match"`
	Simulated  bool `json:"simulated"`
}

type Anchor struct {
	auth    Authenticator
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Anchor)

func WithTimeout(d time.Duration) Option {
	return func(a *Anchor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Anchor) {
		a.logger = logger
	}
}

func New(auth Authenticator, opts ...Option) *Anchor {
	a := &Anchor{auth: auth, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capture runs the ceremony and never fails: absence or failure yields a
// simulated match.
func (a *Anchor) Capture(ctx context.Context) Result {
	if a.auth == nil || !a.auth.Available(ctx) {
		a.warn(ctx, "platform authenticator unavailable; finger anchor simulated", nil)
		return Result{RidgeMatch: true, Simulated: true}
	}

	challenge := make([]byte, 32)
	_, _ = rand.Read(challenge)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.auth.Assert(ctx, challenge); err != nil {
		a.warn(ctx, "user-presence ceremony failed; finger anchor simulated", err)
		return Result{RidgeMatch: true, Simulated: true}
	}
	return Result{RidgeMatch: true}
}

func (a *Anchor) warn(ctx context.Context, msg string, err error) {
	if a.logger == nil {
		return
	}
	if err != nil {
		a.logger.WarnContext(ctx, msg, "error", err)
		return
	}
	a.logger.WarnContext(ctx, msg)
}
