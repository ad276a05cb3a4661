package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/capture"
	"github.com/facelogix/kiosk/internal/checkin"
)

// stubSubmitter returns a fixed result for every frame.
type stubSubmitter struct {
	result *checkin.Result
}

func (s *stubSubmitter) Submit(ctx context.Context, checkType checkin.CheckType, frame *camera.Frame) (*checkin.Result, error) {
	return s.result, nil
}

func newAttemptTestHandler(result *checkin.Result) *AttemptHandler {
	bridge := capture.NewBridge()
	bridge.Register(func() (*camera.Frame, bool) {
		return &camera.Frame{JPEG: []byte("jpeg")}, true
	})
	orch := checkin.New(bridge, &stubSubmitter{result: result}, time.Minute)
	return NewAttemptHandler(orch)
}

func decodeAttemptState(t *testing.T, rec *httptest.ResponseRecorder) attemptState {
	t.Helper()
	var state attemptState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	return state
}

func waitForStatus(t *testing.T, handler *AttemptHandler, want checkin.Status) attemptState {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		state := handler.state()
		if state.Status == want {
			return state
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for status %s, last %s", want, state.Status)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestAttemptGetIdle(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attempt", nil))

	state := decodeAttemptState(t, rec)
	if state.Status != checkin.StatusIdle {
		t.Errorf("expected idle, got %s", state.Status)
	}
	if state.CheckType != checkin.CheckIn {
		t.Errorf("expected check_in default, got %s", state.CheckType)
	}
	if state.Result != nil {
		t.Errorf("expected no result, got %+v", state.Result)
	}
}

func TestAttemptTrigger(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{
		Status:     checkin.StatusSuccess,
		PersonName: "Jana",
	})

	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	state := waitForStatus(t, handler, checkin.StatusSuccess)
	if state.Result == nil || state.Result.PersonName != "Jana" {
		t.Errorf("unexpected result: %+v", state.Result)
	}
}

func TestAttemptTriggerWithType(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	body := strings.NewReader(`{"type":"check_out"}`)
	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if state := decodeAttemptState(t, rec); state.CheckType != checkin.CheckOut {
		t.Errorf("expected check_out, got %s", state.CheckType)
	}
	waitForStatus(t, handler, checkin.StatusSuccess)
}

func TestAttemptTriggerInvalidType(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	body := strings.NewReader(`{"type":"sideways"}`)
	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAttemptTriggerWhileBusy(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	waitForStatus(t, handler, checkin.StatusSuccess)

	// Terminal state still displayed: conflict.
	rec = httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while terminal state displayed, got %d", rec.Code)
	}
}

func TestAttemptReset(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusNotRecognized})

	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", nil))
	waitForStatus(t, handler, checkin.StatusNotRecognized)

	rec = httptest.NewRecorder()
	handler.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if state := decodeAttemptState(t, rec); state.Status != checkin.StatusIdle {
		t.Errorf("expected idle after reset, got %s", state.Status)
	}
}

func TestAttemptSetType(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	body := strings.NewReader(`{"type":"check_out"}`)
	rec := httptest.NewRecorder()
	handler.SetType(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt/type", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if state := decodeAttemptState(t, rec); state.CheckType != checkin.CheckOut {
		t.Errorf("expected check_out, got %s", state.CheckType)
	}

	body = strings.NewReader(`{"type":"bogus"}`)
	rec = httptest.NewRecorder()
	handler.SetType(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt/type", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid type, got %d", rec.Code)
	}
}

func TestEventsStream(t *testing.T) {
	handler := newAttemptTestHandler(&checkin.Result{Status: checkin.StatusSuccess})

	server := httptest.NewServer(http.HandlerFunc(handler.Events))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("could not create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("could not connect to event stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var eventType, data string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("could not read stream: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				eventType = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && eventType != "":
				return eventType, data
			}
		}
	}

	// Initial state snapshot arrives first.
	eventType, data := readEvent()
	if eventType != "state" {
		t.Fatalf("expected initial state event, got %s", eventType)
	}
	var initial checkin.Event
	if err := json.Unmarshal([]byte(data), &initial); err != nil {
		t.Fatalf("could not decode initial event: %v", err)
	}
	if initial.Status != checkin.StatusIdle {
		t.Errorf("expected idle in initial event, got %s", initial.Status)
	}

	rec := httptest.NewRecorder()
	handler.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attempt", nil))

	want := []checkin.Status{checkin.StatusCapturing, checkin.StatusSubmitting, checkin.StatusSuccess}
	for _, expected := range want {
		_, data := readEvent()
		var event checkin.Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			t.Fatalf("could not decode event: %v", err)
		}
		if event.Status != expected {
			t.Errorf("expected %s event, got %s", expected, event.Status)
		}
	}
}
