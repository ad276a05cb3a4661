// Package checkin sequences a check-in attempt: capture a frame, submit it
// to the attendance service, translate the outcome into a presentation
// state, and auto-reset after the display delay.
package checkin

import (
	"time"

	"github.com/facelogix/kiosk/internal/api"
)

// Status is the orchestrator's presentation state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusCapturing  Status = "capturing"
	StatusSubmitting Status = "submitting"

	// Terminal display states, shown until reset.
	StatusSuccess        Status = "success"
	StatusFailed         Status = "failed"
	StatusAlreadyChecked Status = "already-checked"
	StatusNotRecognized  Status = "not-recognized"
	StatusNoFaceDetected Status = "no-face-detected"
)

// Terminal reports whether s is a terminal display state.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusAlreadyChecked, StatusNotRecognized, StatusNoFaceDetected:
		return true
	}
	return false
}

// CheckType selects the attendance direction.
type CheckType string

const (
	CheckIn  CheckType = "check_in"
	CheckOut CheckType = "check_out"
)

// Result is a terminal check-in outcome for display. Confidence and
// PersonName are present only on success.
type Result struct {
	Status     Status     `json:"status"`
	Message    string     `json:"message"`
	PersonName string     `json:"person_name,omitempty"`
	CheckType  CheckType  `json:"check_type,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// mapOutcome translates the attendance service's raw outcome into exactly
// one terminal status. Transport failures are mapped by the caller.
func mapOutcome(checkType CheckType, out *api.CheckOutcome) *Result {
	r := &Result{
		Message:   out.Message,
		CheckType: checkType,
	}

	if out.Success {
		r.Status = StatusSuccess
		r.PersonName = out.UserName
		r.Timestamp = out.CheckInTime
		r.Confidence = out.ConfidenceScore
		return r
	}

	switch out.Status {
	case api.OutcomeUnknownUser:
		r.Status = StatusNotRecognized
	case api.OutcomeAlreadyCheckedIn, api.OutcomeAlreadyCheckedOut:
		r.Status = StatusAlreadyChecked
		r.PersonName = "" // name may be echoed by the backend, not shown
	case api.OutcomeNoFaceDetected:
		r.Status = StatusNoFaceDetected
	default:
		r.Status = StatusFailed
	}
	return r
}

// failedResult wraps a transport or service error as a failed terminal
// state with its message passed through.
func failedResult(checkType CheckType, err error) *Result {
	return &Result{
		Status:    StatusFailed,
		Message:   err.Error(),
		CheckType: checkType,
	}
}
