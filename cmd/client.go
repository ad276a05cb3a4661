package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/facelogix/kiosk/internal/api"
	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/config"
	"github.com/facelogix/kiosk/internal/session"
)

// newBackendClient builds the API client and session store pair and wires
// them together. The store restores any persisted session from disk.
func newBackendClient(cfg *config.Config) (*api.Client, *session.Store, error) {
	if cfg.Backend.URL == "" {
		return nil, nil, errors.New("FACELOGIX_URL environment variable is required")
	}

	client, err := api.New(cfg.Backend.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	statePath, err := cfg.Backend.StatePath()
	if err != nil {
		return nil, nil, err
	}

	store := session.NewStore(client, statePath)
	client.SetTokenSource(store)
	return client, store, nil
}

// newCameraDevice builds the camera device from the config: the YAML
// profile when one is configured, the snapshot URL env vars otherwise.
func newCameraDevice(cfg *config.Config) (camera.Device, error) {
	if cfg.Camera.ProfilePath != "" {
		profile, err := config.LoadProfile(cfg.Camera.ProfilePath)
		if err != nil {
			return nil, err
		}
		return camera.NewIPCameraFromProfile(profile), nil
	}
	if cfg.Camera.FrontURL == "" && cfg.Camera.BackURL == "" {
		return nil, errors.New("no camera configured: set CAMERA_FRONT_URL, CAMERA_BACK_URL or CAMERA_PROFILE")
	}
	return camera.NewIPCamera(cfg.Camera.FrontURL, cfg.Camera.BackURL, cfg.Camera.Username, cfg.Camera.Password), nil
}

// resolveDeviceID returns the configured device ID, or generates a
// throwaway one so attendance logs still distinguish this kiosk.
func resolveDeviceID(cfg *config.Config) string {
	if cfg.Device.ID != "" {
		return cfg.Device.ID
	}
	return "ephemeral-" + uuid.NewString()
}
