// Package mint fires the backend mint hook after a successful verification.
// The hook is fire-and-forget: its outcome never changes the verdict.
package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Trigger performs one mint call.
type Trigger interface {
	Mint(ctx context.Context, req Request) (Result, error)
}

// Request is the mint payload.
type Request struct {
	DeviceID   string    `json:"deviceId"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// Result is the mint backend's reply. TxHash is empty when the backend
// accepted the request without reporting a transaction.
type Result struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Nop is used when no mint endpoint is configured.
type Nop struct{}

func (Nop) Mint(context.Context, Request) (Result, error) { return Result{Success: true}, nil }

// HTTPTrigger posts the request as JSON.
type HTTPTrigger struct {
	url    string
	client *http.Client
}

func NewHTTPTrigger(url string, client *http.Client) *HTTPTrigger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPTrigger{url: url, client: client}
}

// Mint posts r and decodes the {success, txHash, error} reply. An empty body
// on a 2xx status counts as success.
func (t *HTTPTrigger) Mint(ctx context.Context, r Request) (Result, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return Result{}, fmt.Errorf("encode mint request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("mint request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("mint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Result{}, fmt.Errorf("read mint response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{Success: true}, nil
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("decode mint response: %w", err)
	}
	if !res.Success {
		if res.Error == "" {
			res.Error = "unspecified"
		}
		return res, fmt.Errorf("mint rejected: %s", res.Error)
	}
	return res, nil
}

// Dispatcher runs each mint in the background, detached from the caller's
// cancellation.
type Dispatcher struct {
	trigger Trigger
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(trigger Trigger, logger *slog.Logger) *Dispatcher {
	if trigger == nil {
		trigger = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{trigger: trigger, logger: logger, timeout: 30 * time.Second}
}

// Fire starts one mint call and returns immediately.
func (d *Dispatcher) Fire(ctx context.Context, req Request) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		res, err := d.trigger.Mint(ctx, req)
		if err != nil {
			d.logger.WarnContext(ctx, "auto-mint failed", "device_id", req.DeviceID, "error", err)
			return
		}
		d.logger.InfoContext(ctx, "auto-mint succeeded", "device_id", req.DeviceID, "tx_hash", res.TxHash)
	}()
}

// Wait blocks until every fired mint has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
