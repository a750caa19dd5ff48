// Package processguard holds host processes intercepted by the desktop guard
// until the owner passes verification, then acknowledges each with a signed
// presence token.
package processguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/lock"
	"sovereign/internal/platform/observability"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
)

const DefaultTokenTTL = 30 * time.Second

// Intercept is one held process.
type Intercept struct {
	ID          string    `json:"id"`
	ProcessName string    `json:"processName"`
	PID         int       `json:"pid"`
	At          time.Time `json:"at"`
}

// Ack is sent to the desktop guard for each released intercept.
type Ack struct {
	InterceptID string `json:"interceptId"`
	ProcessName string `json:"processName"`
	PID         int    `json:"pid"`
	Status      string `json:"status"`
	Token       string `json:"token"`
}

// Locker forces the lock surface up.
type Locker interface {
	Lock(ctx context.Context, trigger lock.Trigger)
}

// Acknowledger delivers acks to the desktop guard.
type Acknowledger interface {
	Acknowledge(ctx context.Context, ack Ack) error
}

type Guard struct {
	tokens   *jwttoken.JWTService
	acker    Acknowledger
	deviceID func() string
	ttl      time.Duration
	logger   *slog.Logger
	auditor  observability.AuditPublisher
	now      func() time.Time

	mu      sync.Mutex
	locker  Locker
	pending []Intercept
}

type Option func(*Guard)

func WithTokenTTL(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.ttl = d
		}
	}
}

// WithDeviceID sets the subject of issued presence tokens.
func WithDeviceID(fn func() string) Option {
	return func(g *Guard) {
		g.deviceID = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithAuditPublisher(p observability.AuditPublisher) Option {
	return func(g *Guard) {
		g.auditor = p
	}
}

func New(tokens *jwttoken.JWTService, acker Acknowledger, opts ...Option) (*Guard, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if acker == nil {
		return nil, fmt.Errorf("acknowledger is required")
	}
	g := &Guard{
		tokens:   tokens,
		acker:    acker,
		deviceID: func() string { return "" },
		ttl:      DefaultTokenTTL,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SetLocker attaches the lock service. The lock service is built with the
// guard as its presence releaser, so this breaks the construction cycle.
func (g *Guard) SetLocker(l Locker) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locker = l
}

// Intercept queues a held process and forces a local lock.
func (g *Guard) Intercept(ctx context.Context, processName string, pid int) (Intercept, error) {
	if processName == "" {
		return Intercept{}, dErrors.New(dErrors.CodeBadRequest, "process name is required")
	}
	in := Intercept{
		ID:          uuid.NewString(),
		ProcessName: processName,
		PID:         pid,
		At:          g.now().UTC(),
	}
	g.mu.Lock()
	g.pending = append(g.pending, in)
	locker := g.locker
	g.mu.Unlock()

	observability.LogAudit(ctx, g.logger, g.auditor, audit.EventProcessIntercepted,
		"process", processName, "pid", pid)
	if locker != nil {
		locker.Lock(ctx, lock.TriggerIntercept)
	}
	return in, nil
}

func (g *Guard) Pending() []Intercept {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Intercept(nil), g.pending...)
}

// ReleaseAll acknowledges every queued intercept. Intercepts whose ack could
// not be delivered stay queued for the next unlock.
func (g *Guard) ReleaseAll(ctx context.Context) error {
	g.mu.Lock()
	batch := g.pending
	g.pending = nil
	g.mu.Unlock()

	var (
		failed []Intercept
		errs   []error
	)
	for _, in := range batch {
		if err := g.release(ctx, in); err != nil {
			failed = append(failed, in)
			errs = append(errs, err)
			continue
		}
		observability.LogAudit(ctx, g.logger, g.auditor, audit.EventPresenceReleased,
			"process", in.ProcessName, "pid", in.PID)
	}
	if len(failed) > 0 {
		g.mu.Lock()
		g.pending = append(failed, g.pending...)
		g.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (g *Guard) release(ctx context.Context, in Intercept) error {
	token, err := g.tokens.GeneratePresenceToken(g.deviceID(), in.ID, in.ProcessName, in.PID, g.ttl)
	if err != nil {
		return fmt.Errorf("sign presence token: %w", err)
	}
	return g.acker.Acknowledge(ctx, Ack{
		InterceptID: in.ID,
		ProcessName: in.ProcessName,
		PID:         in.PID,
		Status:      jwttoken.PresenceStatus,
		Token:       token,
	})
}

// LogAcknowledger records acks in the log when no desktop guard endpoint is
// configured.
type LogAcknowledger struct {
	Logger *slog.Logger
}

func (a LogAcknowledger) Acknowledge(ctx context.Context, ack Ack) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "presence acknowledged",
		"intercept_id", ack.InterceptID, "process", ack.ProcessName, "pid", strconv.Itoa(ack.PID))
	return nil
}

// HTTPAcknowledger posts acks to the desktop guard.
type HTTPAcknowledger struct {
	url    string
	client *http.Client
}

func NewHTTPAcknowledger(url string, client *http.Client) *HTTPAcknowledger {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPAcknowledger{url: url, client: client}
}

func (a *HTTPAcknowledger) Acknowledge(ctx context.Context, ack Ack) error {
	body, err := json.Marshal(ack)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ack.Token)
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver presence ack: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("presence ack returned status %d", resp.StatusCode)
	}
	return nil
}
