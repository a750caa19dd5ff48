package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"sovereign/internal/command/metrics"
	"sovereign/pkg/platform/circuit"
)

const (
	DefaultPollInterval      = 10 * time.Second
	DefaultPushRetryInterval = 30 * time.Second
	handshakeTimeout         = 5 * time.Second
)

// Mode is the transport currently carrying remote commands.
type Mode string

const (
	ModeIdle Mode = "idle"
	ModePush Mode = "push"
	ModePoll Mode = "poll"
)

// Remote receives remote commands over a websocket push connection and falls
// back to polling an HTTP endpoint while push is down. A poll response of 204
// means no pending command.
type Remote struct {
	pushURL      string
	pollURL      string
	pollInterval time.Duration
	pushRetry    time.Duration

	dialer  *websocket.Dialer
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics

	mode atomic.Value
	// lastPolled is the id-less payload the poll endpoint last returned. It is
	// only touched by the Run goroutine.
	lastPolled *Message
}

type RemoteOption func(*Remote)

func WithPushURL(url string) RemoteOption {
	return func(r *Remote) {
		r.pushURL = url
	}
}

func WithPollURL(url string) RemoteOption {
	return func(r *Remote) {
		r.pollURL = url
	}
}

func WithPollInterval(d time.Duration) RemoteOption {
	return func(r *Remote) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

func WithPushRetryInterval(d time.Duration) RemoteOption {
	return func(r *Remote) {
		if d > 0 {
			r.pushRetry = d
		}
	}
}

func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		r.client = c
	}
}

func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(r *Remote) {
		r.logger = logger
	}
}

func WithRemoteMetrics(m *metrics.Metrics) RemoteOption {
	return func(r *Remote) {
		r.metrics = m
	}
}

func NewRemote(opts ...RemoteOption) *Remote {
	r := &Remote{
		pollInterval: DefaultPollInterval,
		pushRetry:    DefaultPushRetryInterval,
		dialer:       &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		client:       &http.Client{Timeout: 10 * time.Second},
		// One failed connect switches to polling; one good connect switches back.
		breaker: circuit.New("remote-push",
			circuit.WithFailureThreshold(1),
			circuit.WithSuccessThreshold(1),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.setMode(ModeIdle)
	return r
}

func (r *Remote) Mode() Mode {
	return r.mode.Load().(Mode)
}

func (r *Remote) setMode(m Mode) {
	r.mode.Store(m)
	r.metrics.SetTransportMode(string(m))
}

// Enabled reports whether any remote endpoint is configured.
func (r *Remote) Enabled() bool {
	return r.pushURL != "" || r.pollURL != ""
}

// Run carries remote commands to deliver until ctx is done.
func (r *Remote) Run(ctx context.Context, deliver func(Message, Transport)) error {
	if !r.Enabled() {
		<-ctx.Done()
		return nil
	}
	defer r.setMode(ModeIdle)
	for {
		if r.pushURL != "" {
			err := r.runPush(ctx, deliver)
			if ctx.Err() != nil {
				return nil
			}
			r.metrics.IncrementTransportError(string(TransportPush))
			if _, change := r.breaker.RecordFailure(); change.Opened {
				r.logger.WarnContext(ctx, "push connection failed; falling back to polling", "error", err)
			}
		}
		if r.pollURL == "" {
			r.setMode(ModeIdle)
			if !sleep(ctx, r.pushRetry) {
				return nil
			}
			continue
		}
		r.pollUntilRetry(ctx, deliver)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// runPush connects and reads until the connection drops.
func (r *Remote) runPush(ctx context.Context, deliver func(Message, Transport)) error {
	conn, resp, err := r.dialer.DialContext(ctx, r.pushURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial push: %w", err)
	}
	defer conn.Close()

	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "push connection restored")
	}
	r.setMode(ModePush)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read push: %w", err)
		}
		msg, err := decode(payload)
		if err != nil {
			r.logger.WarnContext(ctx, "dropping malformed push message", "error", err)
			continue
		}
		deliver(msg, TransportPush)
	}
}

// pollUntilRetry polls on the fixed interval until it is time to retry push.
func (r *Remote) pollUntilRetry(ctx context.Context, deliver func(Message, Transport)) {
	r.setMode(ModePoll)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	var retry <-chan time.Time
	if r.pushURL != "" {
		timer := time.NewTimer(r.pushRetry)
		defer timer.Stop()
		retry = timer.C
	}

	r.pollOnce(ctx, deliver)
	for {
		select {
		case <-ctx.Done():
			return
		case <-retry:
			return
		case <-ticker.C:
			r.pollOnce(ctx, deliver)
		}
	}
}

func (r *Remote) pollOnce(ctx context.Context, deliver func(Message, Transport)) {
	msg, ok, err := r.Poll(ctx)
	if err != nil {
		r.metrics.IncrementTransportError(string(TransportPoll))
		r.logger.WarnContext(ctx, "poll failed", "error", err)
		return
	}
	if !ok {
		r.lastPolled = nil
		return
	}
	// An id-less command that is still pending on the endpoint is delivered
	// once; it is delivered again only after the endpoint has drained.
	if msg.ID == "" {
		if r.lastPolled != nil && samePayload(*r.lastPolled, msg) {
			r.logger.DebugContext(ctx, "poll returned the same pending command; skipping", "command", string(msg.Command))
			return
		}
		r.lastPolled = &msg
	} else {
		r.lastPolled = nil
	}
	deliver(msg, TransportPoll)
}

func samePayload(a, b Message) bool {
	return a.Command == b.Command && a.AuthToken == b.AuthToken && a.IssuedAt.Equal(b.IssuedAt)
}

// Poll fetches one pending command.
func (r *Remote) Poll(ctx context.Context) (Message, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.pollURL, nil)
	if err != nil {
		return Message{}, false, fmt.Errorf("build poll request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Message{}, false, fmt.Errorf("poll: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return Message{}, false, nil
	case http.StatusOK:
	default:
		return Message{}, false, fmt.Errorf("poll: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Message{}, false, fmt.Errorf("read poll body: %w", err)
	}
	if len(raw) == 0 {
		return Message{}, false, nil
	}
	msg, err := decode(raw)
	if err != nil {
		return Message{}, false, err
	}
	return msg, true, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
