// Package camera owns the single camera stream shared by the face anchor and
// the intruder monitor.
package camera

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"sovereign/pkg/platform/sentinel"
)

// Stream is an open camera stream.
type Stream interface {
	// Frame returns the current preview frame.
	Frame(ctx context.Context) (image.Image, error)
	// Photo returns a full-resolution encoded still.
	Photo(ctx context.Context) ([]byte, error)
	// Record captures an encoded clip of length d.
	Record(ctx context.Context, d time.Duration) ([]byte, error)
	Close() error
}

// Device opens streams from the platform camera.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Session is the owned camera context. At most one Stream is open at a time;
// holders share it and the last Release closes it.
type Session struct {
	mu      sync.Mutex
	device  Device
	stream  Stream
	holders int
	closed  bool
}

func NewSession(device Device) *Session {
	return &Session{device: device}
}

// Acquire returns the shared stream, opening it if no holder has it yet.
// Every successful Acquire must be paired with Release.
func (s *Session) Acquire(ctx context.Context) (Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, sentinel.ErrClosed
	}
	if s.device == nil {
		return nil, fmt.Errorf("camera: %w", sentinel.ErrUnavailable)
	}
	if s.stream == nil {
		stream, err := s.device.Open(ctx)
		if err != nil {
			return nil, fmt.Errorf("open camera: %w", err)
		}
		s.stream = stream
	}
	s.holders++
	return s.stream, nil
}

// Release drops one holder and closes the stream when none remain.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holders == 0 {
		return
	}
	s.holders--
	if s.holders == 0 && s.stream != nil {
		_ = s.stream.Close()
		s.stream = nil
	}
}

// Active reports whether a stream is currently open.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Close force-closes the stream and rejects further Acquire calls.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.holders = 0
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}
