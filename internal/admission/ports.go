package admission

import (
	"context"

	"sovereign/internal/anchor/face"
	"sovereign/internal/anchor/finger"
	"sovereign/internal/anchor/position"
	"sovereign/internal/cohesion"
	"sovereign/internal/mint"
	"sovereign/internal/template"
)

type Verifier interface {
	Verify(ctx context.Context) cohesion.Verdict
}

// Duress evaluates heart rate and owns the baseline.
type Duress interface {
	Evaluate(ctx context.Context, bpm float64) (bool, error)
	SetBaseline(ctx context.Context, bpm float64) (bool, error)
	ShadowActive() bool
}

type PulseSensor interface {
	ReadBPM(ctx context.Context) (float64, error)
}

type Device interface {
	CurrentID() string
	Bind(ctx context.Context) (bool, error)
}

type Minter interface {
	Fire(ctx context.Context, req mint.Request)
}

type TemplateWriter interface {
	Save(ctx context.Context, sig template.Signals) (*template.Template, error)
}

type PositionAnchor interface {
	Acquire(ctx context.Context) (position.Fix, error)
}

type FaceAnchor interface {
	Capture(ctx context.Context) (*face.Capture, error)
}

type FingerAnchor interface {
	Capture(ctx context.Context) finger.Result
}
