package camera

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facelogix/kiosk/internal/config"
)

func snapshotServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func serveJPEG(t *testing.T) http.HandlerFunc {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, patternImage(32, 24, 0), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("could not encode fixture: %v", err)
	}
	data := buf.Bytes()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(data)
	}
}

func TestIPCameraOpenAndFrame(t *testing.T) {
	server := snapshotServer(t, serveJPEG(t))
	cam := NewIPCamera(server.URL, "", "", "")

	stream, err := cam.Open(context.Background(), FacingFront)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	img, err := stream.Frame()
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("unexpected frame dimensions: %v", img.Bounds())
	}
}

func TestIPCameraOpenMissingFacing(t *testing.T) {
	server := snapshotServer(t, serveJPEG(t))
	cam := NewIPCamera(server.URL, "", "", "")

	if _, err := cam.Open(context.Background(), FacingBack); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice for unconfigured facing, got %v", err)
	}
}

func TestIPCameraAuthRequired(t *testing.T) {
	server := snapshotServer(t, func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		serveJPEG(t)(w, r)
	})

	cam := NewIPCamera(server.URL, "", "", "")
	if _, err := cam.Open(context.Background(), FacingFront); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied without credentials, got %v", err)
	}
}

func TestIPCameraBasicAuthSent(t *testing.T) {
	server := snapshotServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "kiosk" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		serveJPEG(t)(w, r)
	})

	cam := NewIPCamera(server.URL, "", "kiosk", "secret")
	stream, err := cam.Open(context.Background(), FacingFront)
	if err != nil {
		t.Fatalf("Open with credentials failed: %v", err)
	}
	stream.Close()
}

func TestIPCameraInsecureTransport(t *testing.T) {
	// Credentialed plaintext HTTP to a non-loopback host is refused before
	// any request goes out.
	cam := NewIPCamera("http://camera.example/snapshot.jpg", "", "kiosk", "secret")

	if _, err := cam.Open(context.Background(), FacingFront); !errors.Is(err, ErrInsecureTransport) {
		t.Errorf("expected ErrInsecureTransport, got %v", err)
	}
}

func TestIPCameraLoopbackAllowsCredentials(t *testing.T) {
	// httptest binds to 127.0.0.1, so credentials over plain HTTP are fine.
	server := snapshotServer(t, serveJPEG(t))
	cam := NewIPCamera(server.URL, "", "kiosk", "secret")

	stream, err := cam.Open(context.Background(), FacingFront)
	if err != nil {
		t.Fatalf("Open on loopback failed: %v", err)
	}
	stream.Close()
}

func TestIPCameraNotFound(t *testing.T) {
	server := snapshotServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	cam := NewIPCamera(server.URL, "", "", "")
	if _, err := cam.Open(context.Background(), FacingFront); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice for 404, got %v", err)
	}
}

func TestIPStreamKeepsLastGoodFrame(t *testing.T) {
	fail := false
	serve := serveJPEG(t)
	server := snapshotServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		serve(w, r)
	})

	cam := NewIPCamera(server.URL, "", "", "")
	stream, err := cam.Open(context.Background(), FacingFront)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Frame(); err != nil {
		t.Fatalf("first Frame failed: %v", err)
	}

	fail = true
	img, err := stream.Frame()
	if err != nil {
		t.Fatalf("expected last good frame on fetch failure, got error: %v", err)
	}
	if img == nil {
		t.Fatal("expected non-nil frame")
	}
}

func TestIPCameraEnumerate(t *testing.T) {
	cam := NewIPCamera("http://front.local/snap.jpg", "http://back.local/snap.jpg", "", "")

	infos, err := cam.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 cameras, got %d", len(infos))
	}
	if infos[0].Facing != FacingFront || infos[1].Facing != FacingBack {
		t.Errorf("unexpected facing order: %+v", infos)
	}

	empty := NewIPCamera("", "", "", "")
	if _, err := empty.Enumerate(context.Background()); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice with no URLs, got %v", err)
	}
}

func TestNewIPCameraFromProfile(t *testing.T) {
	profile := &config.Profile{
		Cameras: []config.ProfileCamera{
			{Name: "lobby", Facing: "front", URL: "http://front.local/snap.jpg", Username: "kiosk", Password: "secret"},
			{Name: "door", Facing: "back", URL: "http://back.local/snap.jpg"},
			{Name: "spare", Facing: "front", URL: "http://spare.local/snap.jpg"},
			{Name: "bogus", Facing: "sideways", URL: "http://bogus.local/snap.jpg"},
		},
	}

	cam := NewIPCameraFromProfile(profile)

	infos, err := cam.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("expected 2 cameras (first per facing), got %d", len(infos))
	}
	if cam.urls[FacingFront] != "http://front.local/snap.jpg" {
		t.Errorf("expected first front camera to win, got %s", cam.urls[FacingFront])
	}
	if cam.username != "kiosk" {
		t.Errorf("expected credentials from profile, got %q", cam.username)
	}
}

func TestIsLoopbackHost(t *testing.T) {
	tests := []struct {
		host     string
		loopback bool
	}{
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"192.168.1.10", false},
		{"camera.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := isLoopbackHost(tt.host); got != tt.loopback {
				t.Errorf("isLoopbackHost(%q) = %v, want %v", tt.host, got, tt.loopback)
			}
		})
	}
}
