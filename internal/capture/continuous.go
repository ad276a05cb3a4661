package capture

import (
	"context"
	"sync"
	"time"

	"github.com/facelogix/kiosk/internal/camera"
)

// DefaultInterval is the continuous capture period.
const DefaultInterval = 500 * time.Millisecond

// Consumer receives each frame produced by a continuous capture loop.
type Consumer func(*camera.Frame)

// Continuous re-invokes a bridge on a fixed interval and forwards every
// non-empty frame to a consumer. This drives live "position your face"
// feedback without the consumer managing its own polling loop. Empty
// results are skipped silently.
type Continuous struct {
	bridge   *Bridge
	interval time.Duration
	consumer Consumer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewContinuous creates a stopped continuous capture loop. A non-positive
// interval falls back to DefaultInterval.
func NewContinuous(bridge *Bridge, interval time.Duration, consumer Consumer) *Continuous {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Continuous{
		bridge:   bridge,
		interval: interval,
		consumer: consumer,
	}
}

// Start launches the polling loop. Starting an already running loop is a
// no-op.
func (c *Continuous) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(ctx, c.done)
}

func (c *Continuous) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, ok := c.bridge.Capture()
			if !ok {
				continue
			}
			c.consumer(frame)
		}
	}
}

// Stop cancels the loop and waits for it to exit. Idempotent.
func (c *Continuous) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
