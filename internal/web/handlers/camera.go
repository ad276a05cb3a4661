package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/facelogix/kiosk/internal/camera"
)

// CameraHandler exposes the camera session over the local API.
type CameraHandler struct {
	session *camera.Session
}

// NewCameraHandler creates a camera handler for the given session.
func NewCameraHandler(session *camera.Session) *CameraHandler {
	return &CameraHandler{session: session}
}

// cameraStatus is the GET /camera response body.
type cameraStatus struct {
	State       camera.State      `json:"state"`
	Facing      camera.FacingMode `json:"facing"`
	CameraCount int               `json:"camera_count"`
	CanSwitch   bool              `json:"can_switch"`
	Error       string            `json:"error,omitempty"`
}

func (h *CameraHandler) status() cameraStatus {
	st := cameraStatus{
		State:       h.session.State(),
		Facing:      h.session.Facing(),
		CameraCount: h.session.CameraCount(),
		CanSwitch:   h.session.CanSwitch(),
	}
	if err := h.session.LastError(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// Get reports the camera session state.
func (h *CameraHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.status())
}

// Start acquires the camera stream.
func (h *CameraHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Start(r.Context()); err != nil {
		respondCameraError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.status())
}

// Stop releases the camera stream.
func (h *CameraHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.session.Stop()
	respondJSON(w, http.StatusOK, h.status())
}

// SwitchFacing toggles between the front and back camera.
func (h *CameraHandler) SwitchFacing(w http.ResponseWriter, r *http.Request) {
	// The request context would tear the new stream down when the client
	// disconnects mid-switch; acquisition runs to completion instead.
	if err := h.session.SwitchFacing(context.Background()); err != nil {
		respondCameraError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.status())
}

// Snapshot serves the latest frame as image/jpeg, for the kiosk preview.
func (h *CameraHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	frame, err := h.session.CaptureFrame()
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "camera not ready")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(frame.JPEG)
}

// respondCameraError maps typed camera errors to HTTP statuses.
func respondCameraError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, camera.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, camera.ErrNoDevice):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, camera.ErrInsecureTransport):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, camera.ErrAcquiring):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
