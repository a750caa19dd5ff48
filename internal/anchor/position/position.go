// Package position is the location anchor: one high-accuracy fix per request,
// bounded by a hard timeout, never retried automatically.
package position

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"sovereign/pkg/platform/sentinel"
)

// Status is the anchor's acquisition state.
type Status string

const (
	StatusPending Status = "pending"
	StatusLocked  Status = "locked"
	StatusFailed  Status = "failed"
)

// Fix is one location reading.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	At        time.Time `json:"at"`
}

// Locator obtains a single location fix from the platform.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// DefaultTimeout bounds a single acquisition.
const DefaultTimeout = 10 * time.Second

type Anchor struct {
	locator Locator
	timeout time.Duration

	mu     sync.RWMutex
	status Status
	last   *Fix
}

type Option func(*Anchor)

func WithTimeout(d time.Duration) Option {
	return func(a *Anchor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func New(locator Locator, opts ...Option) *Anchor {
	a := &Anchor{locator: locator, timeout: DefaultTimeout, status: StatusPending}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire requests one fix. Success moves the status to locked; any failure
// or timeout moves it to failed and leaves the previous fix in place.
func (a *Anchor) Acquire(ctx context.Context) (Fix, error) {
	a.setStatus(StatusPending)
	if a.locator == nil {
		a.setStatus(StatusFailed)
		return Fix{}, fmt.Errorf("locator: %w", sentinel.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		fix Fix
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		fix, err := a.locator.Locate(ctx)
		ch <- outcome{fix, err}
	}()

	select {
	case <-ctx.Done():
		a.setStatus(StatusFailed)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Fix{}, fmt.Errorf("location fix: %w", sentinel.ErrTimeout)
		}
		return Fix{}, ctx.Err()
	case o := <-ch:
		if o.err != nil {
			a.setStatus(StatusFailed)
			return Fix{}, fmt.Errorf("location fix: %w", o.err)
		}
		if o.fix.At.IsZero() {
			o.fix.At = time.Now()
		}
		a.mu.Lock()
		a.status = StatusLocked
		fix := o.fix
		a.last = &fix
		a.mu.Unlock()
		return fix, nil
	}
}

func (a *Anchor) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// LastFix returns the most recent successful fix.
func (a *Anchor) LastFix() (Fix, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return Fix{}, false
	}
	return *a.last, true
}

func (a *Anchor) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// StaticLocator always reports the configured coordinates. Used on hosts
// without a positioning service.
type StaticLocator struct {
	Fix Fix
}

func (l StaticLocator) Locate(context.Context) (Fix, error) {
	fix := l.Fix
	fix.At = time.Now()
	return fix, nil
}

// HTTPLocator asks a positioning endpoint returning
// {"latitude":..,"longitude":..,"accuracy":..}.
type HTTPLocator struct {
	URL    string
	Client *http.Client
}

func (l HTTPLocator) Locate(ctx context.Context) (Fix, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Fix{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusForbidden {
		return Fix{}, sentinel.ErrPermissionDenied
	}
	if resp.StatusCode != http.StatusOK {
		return Fix{}, fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	var fix Fix
	if err := json.NewDecoder(resp.Body).Decode(&fix); err != nil {
		return Fix{}, fmt.Errorf("decode fix: %w", err)
	}
	fix.At = time.Now()
	return fix, nil
}
