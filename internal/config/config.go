package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend Backend
	Device  Device
	Camera  Camera
	Kiosk   Kiosk
	Web     Web
}

type Backend struct {
	URL       string // base URL of the FaceLogix backend (e.g., https://attendance.example.com)
	StateFile string // path of the persisted session state file
}

// StatePath returns the session state file path, falling back to
// <user config dir>/facelogix/session.json when unset.
func (b *Backend) StatePath() (string, error) {
	if b.StateFile != "" {
		return b.StateFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve config dir: %w", err)
	}
	return filepath.Join(dir, "facelogix", "session.json"), nil
}

type Device struct {
	ID     string // device UUID registered with the backend (optional)
	Secret string // device secret for headless device login (optional)
}

type Camera struct {
	FrontURL    string // snapshot URL of the user-facing camera
	BackURL     string // snapshot URL of the environment-facing camera
	Username    string
	Password    string
	ProfilePath string        // optional YAML camera profile, overrides the URL fields
	Warmup      time.Duration // max wait for the first decodable frame
	JPEGQuality int
}

type Kiosk struct {
	CaptureInterval time.Duration // continuous capture period
	ResultReset     time.Duration // terminal display state auto-reset delay
}

type Web struct {
	Port int
	Host string
}

// Profile is the optional YAML camera profile. It describes the kiosk's
// cameras when the env vars are not enough (named devices, front-only
// kiosks, per-camera credentials).
type Profile struct {
	Cameras []ProfileCamera `yaml:"cameras"`
}

type ProfileCamera struct {
	Name     string `yaml:"name"`
	Facing   string `yaml:"facing"` // "front" or "back"
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envSeconds reads an env var holding a whole number of seconds.
func envSeconds(key string, defaultVal time.Duration) time.Duration {
	if n := envInt(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

// envMillis reads an env var holding a whole number of milliseconds.
func envMillis(key string, defaultVal time.Duration) time.Duration {
	if n := envInt(key, 0); n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return defaultVal
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Backend: Backend{
			URL:       os.Getenv("FACELOGIX_URL"),
			StateFile: os.Getenv("FACELOGIX_STATE_FILE"),
		},
		Device: Device{
			ID:     os.Getenv("FACELOGIX_DEVICE_ID"),
			Secret: os.Getenv("FACELOGIX_DEVICE_SECRET"),
		},
		Camera: Camera{
			FrontURL:    os.Getenv("CAMERA_FRONT_URL"),
			BackURL:     os.Getenv("CAMERA_BACK_URL"),
			Username:    os.Getenv("CAMERA_USERNAME"),
			Password:    os.Getenv("CAMERA_PASSWORD"),
			ProfilePath: os.Getenv("CAMERA_PROFILE"),
			Warmup:      envSeconds("CAMERA_WARMUP_SECONDS", 5*time.Second),
			JPEGQuality: envInt("JPEG_QUALITY", 90),
		},
		Kiosk: Kiosk{
			CaptureInterval: envMillis("CAPTURE_INTERVAL_MS", 500*time.Millisecond),
			ResultReset:     envSeconds("RESULT_RESET_SECONDS", 5*time.Second),
		},
		Web: Web{
			Port: envInt("WEB_PORT", 8080),
			Host: envOr("WEB_HOST", "0.0.0.0"),
		},
	}
}

// LoadProfile reads and parses the camera profile YAML at path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read camera profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not parse camera profile: %w", err)
	}
	return &p, nil
}
