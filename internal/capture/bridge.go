// Package capture provides the hand-off point between the camera session
// and whatever triggers a capture (a kiosk button, the web API, or the
// continuous polling loop). The bridge replaces the old window-global
// capture-function slot with an explicit, injectable registry.
package capture

import (
	"sync"

	"github.com/facelogix/kiosk/internal/camera"
)

// Provider produces the latest frame on demand. A provider returning
// (nil, false) means "no frame available right now", which callers must
// treat as not-ready rather than an error.
type Provider func() (*camera.Frame, bool)

// Bridge is a single-slot capture provider registry. Exactly one provider
// is active at a time; registering a new one replaces the previous one.
// The owning camera session must unregister when it ends, so a capture
// function bound to a released stream is never invoked.
type Bridge struct {
	mu       sync.Mutex
	provider Provider
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Register installs p as the active provider, replacing any previous one.
func (b *Bridge) Register(p Provider) {
	b.mu.Lock()
	b.provider = p
	b.mu.Unlock()
}

// Unregister clears the active provider.
func (b *Bridge) Unregister() {
	b.mu.Lock()
	b.provider = nil
	b.mu.Unlock()
}

// Capture invokes the active provider. With no provider registered it
// returns (nil, false) — an empty result, not an error.
func (b *Bridge) Capture() (*camera.Frame, bool) {
	b.mu.Lock()
	p := b.provider
	b.mu.Unlock()

	if p == nil {
		return nil, false
	}
	return p()
}

// SessionProvider adapts a camera session into a bridge Provider. Capture
// failures (including not-ready) map to an empty result.
func SessionProvider(session *camera.Session) Provider {
	return func() (*camera.Frame, bool) {
		frame, err := session.CaptureFrame()
		if err != nil || frame == nil {
			return nil, false
		}
		return frame, true
	}
}
