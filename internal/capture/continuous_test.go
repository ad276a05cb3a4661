package capture

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facelogix/kiosk/internal/camera"
)

func TestContinuousForwardsFrames(t *testing.T) {
	bridge := NewBridge()
	bridge.Register(func() (*camera.Frame, bool) {
		return &camera.Frame{JPEG: []byte("frame")}, true
	})

	var count atomic.Int64
	loop := NewContinuous(bridge, 5*time.Millisecond, func(f *camera.Frame) {
		count.Add(1)
	})

	loop.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	loop.Stop()

	if count.Load() == 0 {
		t.Error("expected the consumer to receive frames")
	}
}

func TestContinuousSkipsEmptyCaptures(t *testing.T) {
	bridge := NewBridge() // no provider: every capture is empty

	called := atomic.Bool{}
	loop := NewContinuous(bridge, 5*time.Millisecond, func(f *camera.Frame) {
		called.Store(true)
	})

	loop.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	loop.Stop()

	if called.Load() {
		t.Error("consumer must not run for empty captures")
	}
}

func TestContinuousStartTwice(t *testing.T) {
	bridge := NewBridge()
	loop := NewContinuous(bridge, 5*time.Millisecond, func(*camera.Frame) {})

	loop.Start(context.Background())
	loop.Start(context.Background()) // no-op
	loop.Stop()
	loop.Stop() // idempotent
}

func TestContinuousStopWaitsForExit(t *testing.T) {
	bridge := NewBridge()
	running := atomic.Bool{}
	bridge.Register(func() (*camera.Frame, bool) {
		running.Store(true)
		return &camera.Frame{}, true
	})

	loop := NewContinuous(bridge, time.Millisecond, func(*camera.Frame) {})
	loop.Start(context.Background())

	for !running.Load() {
		time.Sleep(time.Millisecond)
	}
	loop.Stop()

	// After Stop returns the loop goroutine has exited; no more consumer
	// invocations may happen.
	running.Store(false)
	time.Sleep(20 * time.Millisecond)
	if running.Load() {
		t.Error("capture loop kept running after Stop returned")
	}
}

func TestContinuousDefaultInterval(t *testing.T) {
	loop := NewContinuous(NewBridge(), 0, func(*camera.Frame) {})
	if loop.interval != DefaultInterval {
		t.Errorf("expected default interval %s, got %s", DefaultInterval, loop.interval)
	}
}
