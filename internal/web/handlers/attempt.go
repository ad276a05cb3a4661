package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/facelogix/kiosk/internal/checkin"
)

// AttemptHandler exposes the check-in orchestrator over the local API.
type AttemptHandler struct {
	orch *checkin.Orchestrator
}

// NewAttemptHandler creates an attempt handler for the orchestrator.
func NewAttemptHandler(orch *checkin.Orchestrator) *AttemptHandler {
	return &AttemptHandler{orch: orch}
}

// attemptState is the GET /attempt response body.
type attemptState struct {
	Status    checkin.Status    `json:"status"`
	CheckType checkin.CheckType `json:"check_type"`
	Result    *checkin.Result   `json:"result,omitempty"`
}

func (h *AttemptHandler) state() attemptState {
	status, result := h.orch.State()
	return attemptState{
		Status:    status,
		CheckType: h.orch.CheckType(),
		Result:    result,
	}
}

// Get reports the current attempt state.
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.state())
}

// triggerRequest optionally overrides the check type for this trigger.
type triggerRequest struct {
	Type checkin.CheckType `json:"type,omitempty"`
}

// Trigger starts an attempt. The submission runs in the background —
// once submitted it is not cancellable, so it must not be tied to the
// request context — and clients follow progress via GET /attempt or the
// SSE stream.
func (h *AttemptHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil && r.ContentLength != 0 {
		var req triggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, errInvalidRequestBody)
			return
		}
		if req.Type != "" {
			if req.Type != checkin.CheckIn && req.Type != checkin.CheckOut {
				respondError(w, http.StatusBadRequest, "type must be check_in or check_out")
				return
			}
			h.orch.SetCheckType(req.Type)
		}
	}

	status, _ := h.orch.State()
	if status != checkin.StatusIdle {
		respondError(w, http.StatusConflict, checkin.ErrBusy.Error())
		return
	}

	go func() {
		if err := h.orch.Submit(context.Background()); err != nil && !errors.Is(err, checkin.ErrBusy) {
			log.Printf("check-in attempt failed to start: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, h.state())
}

// Reset clears a terminal display state.
func (h *AttemptHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.orch.Reset()
	respondJSON(w, http.StatusOK, h.state())
}

// setTypeRequest is the body of POST /attempt/type.
type setTypeRequest struct {
	Type checkin.CheckType `json:"type"`
}

// SetType selects check-in or check-out mode.
func (h *AttemptHandler) SetType(w http.ResponseWriter, r *http.Request) {
	var req setTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Type != checkin.CheckIn && req.Type != checkin.CheckOut {
		respondError(w, http.StatusBadRequest, "type must be check_in or check_out")
		return
	}

	h.orch.SetCheckType(req.Type)
	respondJSON(w, http.StatusOK, h.state())
}
