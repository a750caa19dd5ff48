// Package httpcam reads the camera through a JPEG snapshot endpoint, as
// exposed by most IP cameras and by the platform camera bridge.
package httpcam

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"sovereign/internal/camera"
	"sovereign/pkg/platform/sentinel"
)

// DefaultClipFPS is the snapshot rate used to assemble a clip.
const DefaultClipFPS = 5

// maxSnapshotBytes bounds one snapshot body.
const maxSnapshotBytes = 8 << 20

// Device opens streams against a snapshot URL. A clip is a Motion-JPEG
// sequence of snapshots.
type Device struct {
	URL    string
	Client *http.Client
	FPS    int
}

func (d *Device) Open(ctx context.Context) (camera.Stream, error) {
	if d.URL == "" {
		return nil, fmt.Errorf("%w: no camera url configured", sentinel.ErrUnavailable)
	}
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	fps := d.FPS
	if fps <= 0 {
		fps = DefaultClipFPS
	}
	s := &stream{url: d.URL, client: client, fps: fps}
	// Probe once so an unreachable camera fails at Open, not at first frame.
	if _, err := s.snapshot(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

type stream struct {
	url    string
	client *http.Client
	fps    int
}

func (s *stream) Frame(ctx context.Context) (image.Image, error) {
	raw, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

func (s *stream) Photo(ctx context.Context) ([]byte, error) {
	return s.snapshot(ctx)
}

func (s *stream) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	interval := time.Second / time.Duration(s.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.Now().Add(d)

	var clip bytes.Buffer
	for {
		raw, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		clip.Write(raw)
		if !time.Now().Before(deadline) {
			return clip.Bytes(), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *stream) Close() error { return nil }

func (s *stream) snapshot(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, sentinel.ErrPermissionDenied
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: camera status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return raw, nil
}
