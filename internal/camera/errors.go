package camera

import "errors"

// Typed acquisition and capture failures. Acquisition errors are terminal
// for the current attempt and never retried automatically; the caller
// decides whether to call Start again.
var (
	// ErrPermissionDenied means the camera refused access (HTTP 401/403 on
	// network cameras, OS-level denial otherwise).
	ErrPermissionDenied = errors.New("camera access denied")

	// ErrNoDevice means no camera exists for the requested facing mode.
	ErrNoDevice = errors.New("no camera device found")

	// ErrInsecureTransport means the camera requires a secure transport:
	// credentialed network cameras are not contacted over plaintext HTTP
	// unless the host is loopback.
	ErrInsecureTransport = errors.New("camera requires a secure transport")

	// ErrNotReady is returned by CaptureFrame when there is no active
	// stream or the stream has not yet produced a frame with valid
	// dimensions. It is an expected condition, not a failure.
	ErrNotReady = errors.New("camera not ready")

	// ErrAcquiring is returned by Start while another acquisition is
	// already in progress.
	ErrAcquiring = errors.New("camera acquisition already in progress")
)
