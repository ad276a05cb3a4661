package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/facelogix/kiosk/internal/checkin"
)

// Events streams orchestrator transitions as server-sent events until the
// client disconnects. The current state is sent first so late joiners
// render correctly.
func (h *AttemptHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventCh := h.orch.AddListener()
	defer h.orch.RemoveListener(eventCh)

	status, result := h.orch.State()
	sendSSEEvent(w, flusher, "state", checkin.Event{
		Type:      "state",
		Status:    status,
		CheckType: string(h.orch.CheckType()),
		Result:    result,
	})

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event)
		}
	}
}

// sendSSEEvent writes one SSE frame and flushes it.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	flusher.Flush()
}
