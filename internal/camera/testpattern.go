package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// TestPattern is a synthetic camera device for development (`serve --demo`)
// and tests. It renders gradient frames and tracks open/close bookkeeping
// so tests can assert the exclusive-stream invariant.
type TestPattern struct {
	Cameras      int // enumerated camera count (default 2)
	WarmupFrames int // Frame calls that return nil before the first frame
	Width        int
	Height       int

	// Error injection
	OpenError      error
	EnumerateError error
	// OpenErrorFor fails Open only for the given facing mode.
	OpenErrorFor map[FacingMode]error

	mu       sync.Mutex
	open     int // currently open streams
	maxOpen  int // high-water mark of concurrently open streams
	opens    int
	closes   int
	sequence int
}

func (d *TestPattern) Enumerate(ctx context.Context) ([]Info, error) {
	if d.EnumerateError != nil {
		return nil, d.EnumerateError
	}
	count := d.Cameras
	if count == 0 {
		count = 2
	}
	infos := make([]Info, 0, count)
	facings := []FacingMode{FacingFront, FacingBack}
	for i := 0; i < count; i++ {
		infos = append(infos, Info{Name: "testpattern", Facing: facings[i%2]})
	}
	return infos, nil
}

func (d *TestPattern) Open(ctx context.Context, facing FacingMode) (Stream, error) {
	if d.OpenError != nil {
		return nil, d.OpenError
	}
	if err := d.OpenErrorFor[facing]; err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.opens++
	d.open++
	if d.open > d.maxOpen {
		d.maxOpen = d.open
	}
	d.sequence++
	s := &patternStream{
		device:  d,
		facing:  facing,
		warmup:  d.WarmupFrames,
		width:   d.dim(d.Width, 320),
		height:  d.dim(d.Height, 240),
		variant: d.sequence,
	}
	d.mu.Unlock()
	return s, nil
}

func (d *TestPattern) dim(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// OpenStreams returns the number of currently open streams.
func (d *TestPattern) OpenStreams() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// MaxOpenStreams returns the most streams ever open at once.
func (d *TestPattern) MaxOpenStreams() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxOpen
}

// Opens returns the total number of successful Open calls.
func (d *TestPattern) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// Closes returns the total number of Close calls.
func (d *TestPattern) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

type patternStream struct {
	device  *TestPattern
	facing  FacingMode
	width   int
	height  int
	variant int

	mu     sync.Mutex
	warmup int
	closed bool
}

func (s *patternStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNotReady
	}
	if s.warmup > 0 {
		s.warmup--
		return nil, nil
	}
	return patternImage(s.width, s.height, s.variant), nil
}

func (s *patternStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.device.mu.Lock()
	s.device.open--
	s.device.closes++
	s.device.mu.Unlock()
	return nil
}

// patternImage renders a horizontal gradient. The left edge is darkest, so
// a mirrored encode is distinguishable from the unmirrored source.
func patternImage(w, h, variant int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / w)
			img.Set(x, y, color.RGBA{R: v, G: uint8(variant % 256), B: 255 - v, A: 255})
		}
	}
	return img
}
