package checkin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facelogix/kiosk/internal/api"
	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/capture"
)

// fakeSubmitter returns a scripted result or error and records calls.
type fakeSubmitter struct {
	result *Result
	err    error

	mu         sync.Mutex
	calls      int
	gotType    CheckType
	gotFrame   *camera.Frame
	blockUntil chan struct{} // when set, Submit waits before returning
}

func (f *fakeSubmitter) Submit(ctx context.Context, checkType CheckType, frame *camera.Frame) (*Result, error) {
	f.mu.Lock()
	f.calls++
	f.gotType = checkType
	f.gotFrame = frame
	block := f.blockUntil
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSubmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSubmitter) GotType() CheckType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotType
}

func frameBridge() *capture.Bridge {
	bridge := capture.NewBridge()
	bridge.Register(func() (*camera.Frame, bool) {
		return &camera.Frame{JPEG: []byte("jpeg"), CapturedAt: time.Now()}, true
	})
	return bridge
}

func emptyBridge() *capture.Bridge {
	return capture.NewBridge()
}

func TestSubmitSuccess(t *testing.T) {
	submitter := &fakeSubmitter{result: &Result{Status: StatusSuccess, PersonName: "Jana"}}
	orch := New(frameBridge(), submitter, time.Minute)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	state, result := orch.State()
	if state != StatusSuccess {
		t.Errorf("expected success state, got %s", state)
	}
	if result == nil || result.PersonName != "Jana" {
		t.Errorf("unexpected result: %+v", result)
	}
	if submitter.Calls() != 1 {
		t.Errorf("expected 1 submission, got %d", submitter.Calls())
	}
	if submitter.GotType() != CheckIn {
		t.Errorf("expected check_in by default, got %s", submitter.GotType())
	}
}

func TestSubmitEmptyCaptureIsSilent(t *testing.T) {
	submitter := &fakeSubmitter{}
	orch := New(emptyBridge(), submitter, time.Minute)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	state, result := orch.State()
	if state != StatusIdle {
		t.Errorf("expected idle state after empty capture, got %s", state)
	}
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	if submitter.Calls() != 0 {
		t.Errorf("expected no submission for an empty capture, got %d", submitter.Calls())
	}
}

func TestSubmitTransportErrorBecomesFailed(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("backend unreachable")}
	orch := New(frameBridge(), submitter, time.Minute)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	state, result := orch.State()
	if state != StatusFailed {
		t.Errorf("expected failed state, got %s", state)
	}
	if result == nil || result.Message != "backend unreachable" {
		t.Errorf("expected the error message passed through, got %+v", result)
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	release := make(chan struct{})
	submitter := &fakeSubmitter{
		result:     &Result{Status: StatusSuccess},
		blockUntil: release,
	}
	orch := New(frameBridge(), submitter, time.Minute)

	done := make(chan error, 1)
	go func() { done <- orch.Submit(context.Background()) }()

	// Wait for the first attempt to reach the submitter.
	for submitter.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := orch.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while submitting, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	// Terminal state still displayed: also busy.
	if err := orch.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy in terminal state, got %v", err)
	}
}

func TestAutoReset(t *testing.T) {
	submitter := &fakeSubmitter{result: &Result{Status: StatusSuccess}}
	orch := New(frameBridge(), submitter, 30*time.Millisecond)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if state, _ := orch.State(); state != StatusSuccess {
		t.Fatalf("expected success state, got %s", state)
	}

	deadline := time.Now().Add(time.Second)
	for {
		state, result := orch.State()
		if state == StatusIdle {
			if result != nil {
				t.Errorf("expected result cleared on auto-reset, got %+v", result)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("orchestrator never auto-reset")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Idle again: a new attempt may start.
	if err := orch.Submit(context.Background()); err != nil {
		t.Errorf("Submit after auto-reset failed: %v", err)
	}
}

func TestManualResetCancelsAutoReset(t *testing.T) {
	submitter := &fakeSubmitter{result: &Result{Status: StatusNotRecognized}}
	orch := New(frameBridge(), submitter, 20*time.Millisecond)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	orch.Reset()

	if state, _ := orch.State(); state != StatusIdle {
		t.Fatalf("expected idle after reset, got %s", state)
	}

	// Start a new blocking attempt; the stale auto-reset timer must not
	// interfere with it.
	release := make(chan struct{})
	submitter.blockUntil = release
	done := make(chan error, 1)
	go func() { done <- orch.Submit(context.Background()) }()

	time.Sleep(40 * time.Millisecond) // past the original reset delay
	if state, _ := orch.State(); state != StatusSubmitting {
		t.Errorf("expected submitting state, got %s", state)
	}

	close(release)
	<-done
}

func TestResetWhileSubmittingIsNoop(t *testing.T) {
	release := make(chan struct{})
	submitter := &fakeSubmitter{
		result:     &Result{Status: StatusSuccess},
		blockUntil: release,
	}
	orch := New(frameBridge(), submitter, time.Minute)

	done := make(chan error, 1)
	go func() { done <- orch.Submit(context.Background()) }()
	for submitter.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	orch.Reset()
	if state, _ := orch.State(); state != StatusSubmitting {
		t.Errorf("expected reset to be ignored while submitting, got %s", state)
	}

	close(release)
	<-done
}

func TestSetCheckType(t *testing.T) {
	submitter := &fakeSubmitter{result: &Result{Status: StatusSuccess}}
	orch := New(frameBridge(), submitter, time.Minute)

	orch.SetCheckType(CheckOut)
	if orch.CheckType() != CheckOut {
		t.Fatalf("expected check_out, got %s", orch.CheckType())
	}

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitter.GotType() != CheckOut {
		t.Errorf("expected check_out submission, got %s", submitter.GotType())
	}

	// Switching while a terminal state is displayed forces a reset.
	orch.SetCheckType(CheckIn)
	state, result := orch.State()
	if state != StatusIdle || result != nil {
		t.Errorf("expected idle with no result after type switch, got %s %+v", state, result)
	}
}

func TestMapOutcome(t *testing.T) {
	now := time.Now()
	score := 0.97

	tests := []struct {
		name    string
		outcome api.CheckOutcome
		want    Status
	}{
		{"success", api.CheckOutcome{Success: true, UserName: "Jana", CheckInTime: &now, ConfidenceScore: &score}, StatusSuccess},
		{"unknown user", api.CheckOutcome{Status: api.OutcomeUnknownUser}, StatusNotRecognized},
		{"already checked in", api.CheckOutcome{Status: api.OutcomeAlreadyCheckedIn}, StatusAlreadyChecked},
		{"already checked out", api.CheckOutcome{Status: api.OutcomeAlreadyCheckedOut}, StatusAlreadyChecked},
		{"no face detected", api.CheckOutcome{Status: api.OutcomeNoFaceDetected}, StatusNoFaceDetected},
		{"unexpected status", api.CheckOutcome{Status: "gremlins"}, StatusFailed},
		// A failure report with a success-looking status field still maps by
		// the status, never to success.
		{"success status without success flag", api.CheckOutcome{Success: false, Status: api.OutcomeUnknownUser, UserName: "Jana"}, StatusNotRecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapOutcome(CheckIn, &tt.outcome)
			if result.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Status)
			}
			if tt.want == StatusSuccess {
				if result.PersonName != "Jana" {
					t.Errorf("expected person name on success, got %q", result.PersonName)
				}
				if result.Confidence == nil || *result.Confidence != score {
					t.Errorf("expected confidence %v, got %v", score, result.Confidence)
				}
			} else if result.PersonName != "" {
				t.Errorf("expected no person name on %s, got %q", tt.want, result.PersonName)
			}
		})
	}
}

func TestEventsEmittedInOrder(t *testing.T) {
	submitter := &fakeSubmitter{result: &Result{Status: StatusSuccess}}
	orch := New(frameBridge(), submitter, time.Minute)

	ch := orch.AddListener()
	defer orch.RemoveListener(ch)

	if err := orch.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := []Status{StatusCapturing, StatusSubmitting, StatusSuccess}
	for i, expected := range want {
		select {
		case event := <-ch:
			if event.Status != expected {
				t.Errorf("event %d: expected %s, got %s", i, expected, event.Status)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d (%s)", i, expected)
		}
	}
}
