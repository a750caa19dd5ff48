package lock

import (
	"context"

	"sovereign/internal/cohesion"
)

// Overlay renders the full-screen lock surface.
type Overlay interface {
	Show(ctx context.Context, mode Mode) error
	Hide(ctx context.Context) error
	SetAnchorStatus(ctx context.Context, anchor, status string) error
}

// InputBlocker intercepts all input outside the overlay's unlock panel.
type InputBlocker interface {
	Block(ctx context.Context) error
	Unblock(ctx context.Context) error
}

// Monitor is started on entering a locked state and stopped on unlock.
type Monitor interface {
	Start(ctx context.Context) error
	Stop()
}

// Verifier runs the unlock capture/verify flow.
type Verifier interface {
	VerifyForUnlock(ctx context.Context) (cohesion.Verdict, error)
}

// PresenceReleaser acknowledges intercepted host processes after unlock.
type PresenceReleaser interface {
	ReleaseAll(ctx context.Context) error
}
