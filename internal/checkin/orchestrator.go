package checkin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/capture"
)

// DefaultResetDelay is how long a terminal display state persists before
// auto-resetting to idle.
const DefaultResetDelay = 5 * time.Second

// ErrBusy is returned when Submit is called while an attempt is already in
// flight or a terminal state is still displayed. Attempts are strictly
// sequential.
var ErrBusy = errors.New("check-in attempt already in progress")

// Submitter sends a captured frame to the attendance service. Implemented
// by ClientSubmitter for the real backend.
type Submitter interface {
	Submit(ctx context.Context, checkType CheckType, frame *camera.Frame) (*Result, error)
}

// Orchestrator drives one check-in attempt at a time through
// Idle -> Capturing -> Submitting -> terminal -> (auto) Idle.
type Orchestrator struct {
	bridge     *capture.Bridge
	submitter  Submitter
	resetDelay time.Duration

	broadcaster

	mu        sync.Mutex
	state     Status
	checkType CheckType
	result    *Result
	timer     *time.Timer
	gen       uint64 // bumped on every reset; invalidates stale auto-reset timers
}

// New creates an idle orchestrator submitting check-ins by default. A
// non-positive resetDelay falls back to DefaultResetDelay.
func New(bridge *capture.Bridge, submitter Submitter, resetDelay time.Duration) *Orchestrator {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Orchestrator{
		bridge:     bridge,
		submitter:  submitter,
		resetDelay: resetDelay,
		state:      StatusIdle,
		checkType:  CheckIn,
	}
}

// Submit runs one attempt to completion. It may only begin from idle; any
// other state returns ErrBusy. An empty capture silently returns to idle
// with no user-visible result. Once submitting, the attempt is not
// cancellable and never retried — a transport failure surfaces as the
// failed terminal state with the underlying message.
func (o *Orchestrator) Submit(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StatusIdle {
		o.mu.Unlock()
		return ErrBusy
	}
	o.state = StatusCapturing
	checkType := o.checkType
	o.mu.Unlock()
	o.send(Event{Type: "state", Status: StatusCapturing, CheckType: string(checkType)})

	frame, ok := o.bridge.Capture()
	if !ok {
		// Silent no-op: nothing ready yet, back to idle.
		o.mu.Lock()
		o.state = StatusIdle
		o.mu.Unlock()
		o.send(Event{Type: "state", Status: StatusIdle, CheckType: string(checkType)})
		return nil
	}

	o.mu.Lock()
	o.state = StatusSubmitting
	o.mu.Unlock()
	o.send(Event{Type: "state", Status: StatusSubmitting, CheckType: string(checkType)})

	result, err := o.submitter.Submit(ctx, checkType, frame)
	if err != nil {
		result = failedResult(checkType, err)
	}

	o.mu.Lock()
	o.state = result.Status
	o.result = result
	gen := o.gen
	o.timer = time.AfterFunc(o.resetDelay, func() { o.autoReset(gen) })
	o.mu.Unlock()
	o.send(Event{Type: "result", Status: result.Status, CheckType: string(checkType), Result: result})
	return nil
}

// autoReset returns to idle after the display delay unless an explicit
// reset or a new attempt intervened.
func (o *Orchestrator) autoReset(gen uint64) {
	o.mu.Lock()
	if o.gen != gen || !o.state.Terminal() {
		o.mu.Unlock()
		return
	}
	o.resetLocked()
	o.mu.Unlock()
	o.send(Event{Type: "state", Status: StatusIdle, CheckType: string(o.CheckType())})
}

// Reset clears any terminal state and returns to idle immediately. A
// pending or in-flight submission is unaffected (submission is not
// cancellable); resetting while submitting is a no-op.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	if o.state == StatusCapturing || o.state == StatusSubmitting {
		o.mu.Unlock()
		return
	}
	o.resetLocked()
	o.mu.Unlock()
	o.send(Event{Type: "state", Status: StatusIdle, CheckType: string(o.CheckType())})
}

func (o *Orchestrator) resetLocked() {
	o.gen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.state = StatusIdle
	o.result = nil
}

// SetCheckType selects check-in or check-out. Switching while a terminal
// state is displayed forces an immediate reset to idle.
func (o *Orchestrator) SetCheckType(t CheckType) {
	o.mu.Lock()
	o.checkType = t
	terminal := o.state.Terminal()
	if terminal {
		o.resetLocked()
	}
	o.mu.Unlock()

	if terminal {
		o.send(Event{Type: "state", Status: StatusIdle, CheckType: string(t)})
	}
}

// State returns the current status and the terminal result, if any.
func (o *Orchestrator) State() (Status, *Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return o.state, nil
	}
	r := *o.result
	return o.state, &r
}

// CheckType returns the currently selected check type.
func (o *Orchestrator) CheckType() CheckType {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.checkType
}
