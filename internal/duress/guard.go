package duress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sovereign/internal/platform/observability"
	"sovereign/pkg/platform/audit"
)

// Intent is a money-movement request.
type Intent struct {
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
}

// Receipt is returned for an accepted transfer. A suppressed transfer gets a
// receipt indistinguishable from a real one.
type Receipt struct {
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Executor performs a real transfer.
type Executor func(ctx context.Context, intent Intent) (Receipt, error)

// ShadowState reports whether Shadow Mode is active.
type ShadowState interface {
	ShadowActive() bool
}

// Guard routes every money-movement intent. While Shadow Mode is active the
// executor is never called.
type Guard struct {
	shadow  ShadowState
	logger  *slog.Logger
	auditor observability.AuditPublisher
	now     func() time.Time
}

func NewGuard(shadow ShadowState, logger *slog.Logger, auditor observability.AuditPublisher) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{shadow: shadow, logger: logger, auditor: auditor, now: time.Now}
}

func (g *Guard) Transfer(ctx context.Context, intent Intent, execute Executor) (Receipt, error) {
	if g.shadow.ShadowActive() {
		observability.LogAudit(ctx, g.logger, g.auditor, audit.EventTransferSuppressed,
			"to", intent.To, "amount", intent.Amount, "currency", intent.Currency)
		return Receipt{
			Reference:  uuid.NewString(),
			Status:     "accepted",
			AcceptedAt: g.now().UTC(),
		}, nil
	}
	return execute(ctx, intent)
}
