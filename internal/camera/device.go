// Package camera owns the kiosk's camera stream lifecycle: acquisition,
// facing-mode switching, frame capture, and teardown. A Session holds at
// most one open Stream at any time; the camera is an exclusive hardware
// resource and every exit path must release it.
package camera

import (
	"context"
	"image"
)

// FacingMode identifies which physical camera is active.
type FacingMode string

const (
	FacingFront FacingMode = "front"
	FacingBack  FacingMode = "back"
)

// Toggle returns the opposite facing mode.
func (m FacingMode) Toggle() FacingMode {
	if m == FacingFront {
		return FacingBack
	}
	return FacingFront
}

// State is the acquisition state of a Session.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StateActive    State = "active"
	StateError     State = "error"
)

// Info describes an available video input device.
type Info struct {
	Name   string     `json:"name"`
	Facing FacingMode `json:"facing"`
}

// Device produces camera streams. Open must return a typed error
// (ErrPermissionDenied, ErrNoDevice, ErrInsecureTransport) when the failure
// class is known, so callers can offer the right retry affordance.
type Device interface {
	Open(ctx context.Context, facing FacingMode) (Stream, error)
	Enumerate(ctx context.Context) ([]Info, error)
}

// Stream is an open camera stream. Frame returns the most recent decoded
// frame; it may return a nil image before the device has warmed up.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}
