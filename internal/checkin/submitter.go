package checkin

import (
	"context"
	"time"

	"github.com/facelogix/kiosk/internal/api"
	"github.com/facelogix/kiosk/internal/camera"
)

// ClientSubmitter submits frames through the backend API client.
type ClientSubmitter struct {
	Client   *api.Client
	DeviceID string // optional; identifies the kiosk in attendance logs
}

// Submit sends the frame to the endpoint matching checkType and maps the
// outcome. A transport error is returned as-is; the orchestrator turns it
// into the failed state with the message passed through.
func (s *ClientSubmitter) Submit(ctx context.Context, checkType CheckType, frame *camera.Frame) (*Result, error) {
	image := frame.Base64()
	ts := time.Now()

	var outcome *api.CheckOutcome
	var err error
	if checkType == CheckOut {
		outcome, err = s.Client.CheckOut(ctx, image, s.DeviceID, ts)
	} else {
		outcome, err = s.Client.CheckIn(ctx, image, s.DeviceID, ts)
	}
	if err != nil {
		return nil, err
	}
	return mapOutcome(checkType, outcome), nil
}
