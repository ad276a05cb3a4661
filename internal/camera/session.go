package camera

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultWarmup bounds the wait for the first decodable frame after a
// stream opens. Capturing before the decoder has produced a frame is a
// known race; the session only goes active once a frame with non-zero
// dimensions has been observed.
const DefaultWarmup = 5 * time.Second

// DefaultJPEGQuality matches the fixed capture quality of 0.9.
const DefaultJPEGQuality = 90

// Options configures a Session.
type Options struct {
	Facing      FacingMode
	Warmup      time.Duration
	JPEGQuality int
}

// Session manages a single camera stream's lifecycle. At most one stream
// is open per session; switching facing mode always releases the previous
// stream before acquiring a new one.
type Session struct {
	device  Device
	warmup  time.Duration
	quality int

	mu      sync.Mutex
	state   State
	facing  FacingMode
	stream  Stream
	lastErr error
	gen     uint64 // bumped on every Stop; detects Stop during acquisition

	cameraCount int
}

// NewSession creates a session over device. Available cameras are counted
// once here; an enumeration failure degrades gracefully to a single camera
// rather than surfacing an error.
func NewSession(ctx context.Context, device Device, opts Options) *Session {
	if opts.Facing == "" {
		opts.Facing = FacingFront
	}
	if opts.Warmup <= 0 {
		opts.Warmup = DefaultWarmup
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}

	count := 1
	if infos, err := device.Enumerate(ctx); err == nil && len(infos) > 0 {
		count = len(infos)
	}

	return &Session{
		device:      device,
		warmup:      opts.Warmup,
		quality:     opts.JPEGQuality,
		state:       StateIdle,
		facing:      opts.Facing,
		cameraCount: count,
	}
}

// Start acquires a stream for the current facing mode and waits for it to
// produce a first valid frame. Calling Start while already active is a
// no-op. Acquisition failures are never retried here; the caller retries
// by calling Start again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateActive:
		s.mu.Unlock()
		return nil
	case StateAcquiring:
		s.mu.Unlock()
		return ErrAcquiring
	}
	s.state = StateAcquiring
	s.lastErr = nil
	facing := s.facing
	gen := s.gen
	s.mu.Unlock()

	stream, err := s.device.Open(ctx, facing)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	if err := waitFirstFrame(ctx, stream, s.warmup); err != nil {
		stream.Close()
		s.fail(gen, err)
		return err
	}

	s.mu.Lock()
	if s.gen != gen || s.state != StateAcquiring {
		// Stopped while acquiring; the new stream must not leak.
		s.mu.Unlock()
		stream.Close()
		return nil
	}
	s.stream = stream
	s.state = StateActive
	s.mu.Unlock()
	return nil
}

// fail records an acquisition error unless a Stop intervened.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.state == StateAcquiring {
		s.state = StateError
		s.lastErr = err
	}
}

// waitFirstFrame polls the stream until it reports a frame with non-zero
// dimensions, the warm-up deadline passes, or ctx is cancelled.
func waitFirstFrame(ctx context.Context, stream Stream, warmup time.Duration) error {
	deadline := time.Now().Add(warmup)
	for {
		img, err := stream.Frame()
		if err != nil {
			return fmt.Errorf("camera stream failed during warm-up: %w", err)
		}
		if img != nil {
			b := img.Bounds()
			if b.Dx() > 0 && b.Dy() > 0 {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("camera produced no frame within %s", warmup)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Stop releases the active stream. Idempotent: stopping with no active
// stream is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	s.gen++
	stream := s.stream
	s.stream = nil
	s.state = StateIdle
	s.lastErr = nil
	s.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
}

// SwitchFacing toggles the facing mode and restarts the stream. The old
// stream is always released before the new one is requested. Switching is
// destructive, not transactional: if the new acquisition fails the session
// is left in the error state with no stream, and the caller retries via
// Start.
func (s *Session) SwitchFacing(ctx context.Context) error {
	s.mu.Lock()
	s.facing = s.facing.Toggle()
	s.mu.Unlock()

	s.Stop()
	return s.Start(ctx)
}

// CaptureFrame captures and encodes the latest frame. Returns ErrNotReady
// when there is no active stream or the stream reports no valid frame.
// The facing mode is read here, at encode time, so a capture callback
// constructed before a facing switch still mirrors correctly.
func (s *Session) CaptureFrame() (*Frame, error) {
	s.mu.Lock()
	stream := s.stream
	facing := s.facing
	active := s.state == StateActive
	s.mu.Unlock()

	if !active || stream == nil {
		return nil, ErrNotReady
	}

	img, err := stream.Frame()
	if err != nil || img == nil {
		return nil, ErrNotReady
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrNotReady
	}

	return encodeFrame(img, facing, facing == FacingFront, s.quality)
}

// State returns the current acquisition state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Facing returns the current facing mode.
func (s *Session) Facing() FacingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facing
}

// LastError returns the most recent acquisition error, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CameraCount reports the number of cameras enumerated at creation.
func (s *Session) CameraCount() int {
	return s.cameraCount
}

// CanSwitch reports whether a facing-mode switch control makes sense.
func (s *Session) CanSwitch() bool {
	return s.cameraCount > 1
}
