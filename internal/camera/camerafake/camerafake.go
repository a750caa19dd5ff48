// Package camerafake provides a scripted camera for tests and headless runs.
package camerafake

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"time"

	"sovereign/internal/camera"
)

// Device hands out scripted streams and counts open handles.
type Device struct {
	mu sync.Mutex
	// Next returns the frame for the n-th Frame call across all streams.
	Next    func(n int) image.Image
	OpenErr error
	// RecordDelay simulates clip capture time; honours ctx cancellation.
	RecordDelay time.Duration

	frames     int
	opens      atomic.Int32
	openNow    atomic.Int32
	maxOpen    atomic.Int32
	photos     atomic.Int32
	recordings atomic.Int32
}

// Uniform returns a frame generator that always yields a flat grey image.
func Uniform(level uint8) func(int) image.Image {
	img := Solid(level)
	return func(int) image.Image { return img }
}

// Solid returns a 64x64 image filled with one grey level.
func Solid(level uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

// Gradient returns a 64x64 horizontal gradient, distinct from any Solid frame.
func Gradient() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 4)})
		}
	}
	return img
}

func (d *Device) Open(context.Context) (camera.Stream, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.opens.Add(1)
	n := d.openNow.Add(1)
	for {
		m := d.maxOpen.Load()
		if n <= m || d.maxOpen.CompareAndSwap(m, n) {
			break
		}
	}
	return &stream{dev: d}, nil
}

// Opens is the number of streams opened so far.
func (d *Device) Opens() int { return int(d.opens.Load()) }

// OpenNow is the number of streams currently open.
func (d *Device) OpenNow() int { return int(d.openNow.Load()) }

// MaxConcurrent is the highest number of simultaneously open streams seen.
func (d *Device) MaxConcurrent() int { return int(d.maxOpen.Load()) }

func (d *Device) Photos() int     { return int(d.photos.Load()) }
func (d *Device) Recordings() int { return int(d.recordings.Load()) }

func (d *Device) nextFrame() image.Image {
	d.mu.Lock()
	n := d.frames
	d.frames++
	next := d.Next
	d.mu.Unlock()
	if next == nil {
		return Solid(128)
	}
	return next(n)
}

type stream struct {
	dev    *Device
	closed atomic.Bool
}

var errClosed = errors.New("stream closed")

func (s *stream) Frame(context.Context) (image.Image, error) {
	if s.closed.Load() {
		return nil, errClosed
	}
	return s.dev.nextFrame(), nil
}

func (s *stream) Photo(context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, errClosed
	}
	s.dev.photos.Add(1)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.dev.nextFrame(), nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *stream) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	if s.closed.Load() {
		return nil, errClosed
	}
	if s.dev.RecordDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.dev.RecordDelay):
		}
	}
	s.dev.recordings.Add(1)
	return []byte("clip:" + d.String()), nil
}

func (s *stream) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.dev.openNow.Add(-1)
	}
	return nil
}
