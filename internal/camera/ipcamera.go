package camera

import (
	"context"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/facelogix/kiosk/internal/config"
)

// IPCamera is a Device backed by network cameras that serve JPEG snapshots
// over HTTP, the usual interface of kiosk camera hardware. Each facing mode
// maps to its own snapshot URL; a missing URL means no camera exists for
// that facing.
type IPCamera struct {
	urls     map[FacingMode]string
	username string
	password string
	client   *http.Client
}

// NewIPCamera builds a device from front/back snapshot URLs. Either URL may
// be empty for single-camera kiosks.
func NewIPCamera(frontURL, backURL, username, password string) *IPCamera {
	urls := make(map[FacingMode]string)
	if frontURL != "" {
		urls[FacingFront] = frontURL
	}
	if backURL != "" {
		urls[FacingBack] = backURL
	}
	return &IPCamera{
		urls:     urls,
		username: username,
		password: password,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewIPCameraFromProfile builds a device from a camera profile, taking the
// first camera listed per facing mode.
func NewIPCameraFromProfile(p *config.Profile) *IPCamera {
	cam := &IPCamera{
		urls:   make(map[FacingMode]string),
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, c := range p.Cameras {
		facing := FacingMode(c.Facing)
		if facing != FacingFront && facing != FacingBack {
			continue
		}
		if _, ok := cam.urls[facing]; ok {
			continue
		}
		cam.urls[facing] = c.URL
		if c.Username != "" {
			cam.username = c.Username
			cam.password = c.Password
		}
	}
	return cam
}

// Enumerate lists one Info per configured facing mode.
func (c *IPCamera) Enumerate(ctx context.Context) ([]Info, error) {
	var infos []Info
	for _, facing := range []FacingMode{FacingFront, FacingBack} {
		if u, ok := c.urls[facing]; ok {
			infos = append(infos, Info{Name: hostOf(u), Facing: facing})
		}
	}
	if len(infos) == 0 {
		return nil, ErrNoDevice
	}
	return infos, nil
}

// Open probes the snapshot URL for the facing mode and classifies the
// outcome. Credentialed plaintext connections to non-loopback hosts are
// refused before any request is made.
func (c *IPCamera) Open(ctx context.Context, facing FacingMode) (Stream, error) {
	snapshotURL, ok := c.urls[facing]
	if !ok || snapshotURL == "" {
		return nil, ErrNoDevice
	}

	parsed, err := url.Parse(snapshotURL)
	if err != nil {
		return nil, fmt.Errorf("invalid camera URL: %w", err)
	}
	if c.username != "" && parsed.Scheme == "http" && !isLoopbackHost(parsed.Hostname()) {
		return nil, ErrInsecureTransport
	}

	// Probe once so acquisition failures surface typed from Open rather
	// than later from a capture.
	if err := c.probe(ctx, snapshotURL); err != nil {
		return nil, err
	}

	return &ipStream{cam: c, url: snapshotURL}, nil
}

func (c *IPCamera) probe(ctx context.Context, snapshotURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrNoDevice, err)
		}
		return fmt.Errorf("camera unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNoDevice
	default:
		return fmt.Errorf("camera returned status %d", resp.StatusCode)
	}
}

// ipStream fetches a fresh snapshot per Frame call and remembers the last
// good frame so a transient fetch failure does not blank the stream.
type ipStream struct {
	cam *IPCamera
	url string

	mu     sync.Mutex
	last   image.Image
	closed bool
}

func (s *ipStream) Frame() (image.Image, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if s.cam.username != "" {
		req.SetBasicAuth(s.cam.username, s.cam.password)
	}

	resp, err := s.cam.client.Do(req)
	if err != nil {
		return s.lastOr(fmt.Errorf("snapshot fetch failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.lastOr(fmt.Errorf("snapshot fetch returned status %d", resp.StatusCode))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return s.lastOr(fmt.Errorf("could not decode snapshot: %w", err))
	}

	s.mu.Lock()
	s.last = img
	s.mu.Unlock()
	return img, nil
}

// lastOr returns the last good frame if one exists, otherwise err.
func (s *ipStream) lastOr(err error) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		return s.last, nil
	}
	return nil, err
}

func (s *ipStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.last = nil
	s.mu.Unlock()
	return nil
}

func hostOf(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return rawURL
}

// isLoopbackHost reports whether host resolves trivially to loopback.
func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// isConnectionError reports whether err is a dial-level failure, meaning
// nothing is listening where a camera was expected.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable")
}
