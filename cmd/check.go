package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/api"
	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/checkin"
	"github.com/facelogix/kiosk/internal/config"
	"github.com/facelogix/kiosk/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Capture one frame and submit it for attendance",
	Long: `Capture a single frame from the configured camera and submit it to
the backend for face-recognition check-in or check-out. Useful for
verifying the camera and backend wiring before running the kiosk.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("type", "check_in", "Attendance direction: check_in or check_out")
	checkCmd.Flags().String("out", "", "Also save the captured JPEG to this file")
	checkCmd.Flags().Bool("demo", false, "Use a synthetic test-pattern camera instead of real hardware")
}

// ensureAuthenticated falls back to a device login when no operator
// session exists and device credentials are configured.
func ensureAuthenticated(ctx context.Context, client *api.Client, store *session.Store, cfg *config.Config) error {
	if store.Authenticated() {
		return nil
	}
	if cfg.Device.ID == "" || cfg.Device.Secret == "" {
		return errors.New("not logged in: run `facelogix-kiosk login` or set FACELOGIX_DEVICE_ID and FACELOGIX_DEVICE_SECRET")
	}

	resp, err := client.DeviceLogin(ctx, cfg.Device.ID, cfg.Device.Secret)
	if err != nil {
		return fmt.Errorf("device login failed: %w", err)
	}
	store.SetUser(session.Identity{
		UserID: "device:" + cfg.Device.ID,
		Name:   resp.DeviceName,
		Role:   "device",
		OrgID:  resp.OrgID,
	})
	store.SetTokens(session.Tokens{
		AccessToken: resp.DeviceToken,
		TokenType:   resp.TokenType,
	})
	return nil
}

func checkTypeFromFlag(cmd *cobra.Command) (checkin.CheckType, error) {
	switch t := mustGetString(cmd, "type"); t {
	case string(checkin.CheckIn):
		return checkin.CheckIn, nil
	case string(checkin.CheckOut):
		return checkin.CheckOut, nil
	default:
		return "", fmt.Errorf("unknown check type: %s (supported: check_in, check_out)", t)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	checkType, err := checkTypeFromFlag(cmd)
	if err != nil {
		return err
	}

	client, store, err := newBackendClient(cfg)
	if err != nil {
		return err
	}
	if err := ensureAuthenticated(ctx, client, store, cfg); err != nil {
		return err
	}

	var device camera.Device
	if mustGetBool(cmd, "demo") {
		device = &camera.TestPattern{}
	} else {
		device, err = newCameraDevice(cfg)
		if err != nil {
			return err
		}
	}

	cam := camera.NewSession(ctx, device, camera.Options{
		Warmup:      cfg.Camera.Warmup,
		JPEGQuality: cfg.Camera.JPEGQuality,
	})
	if err := cam.Start(ctx); err != nil {
		return fmt.Errorf("failed to start camera: %w", err)
	}
	defer cam.Stop()

	frame, err := cam.CaptureFrame()
	if err != nil {
		return fmt.Errorf("failed to capture frame: %w", err)
	}

	if out := mustGetString(cmd, "out"); out != "" {
		if err := os.WriteFile(out, frame.JPEG, 0o644); err != nil {
			return fmt.Errorf("failed to save frame: %w", err)
		}
		fmt.Printf("Saved frame to %s (%d bytes)\n", out, len(frame.JPEG))
	}

	submitter := &checkin.ClientSubmitter{Client: client, DeviceID: resolveDeviceID(cfg)}
	result, err := submitter.Submit(ctx, checkType, frame)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	fmt.Printf("Status: %s\n", result.Status)
	if result.Message != "" {
		fmt.Printf("Message: %s\n", result.Message)
	}
	if result.PersonName != "" {
		fmt.Printf("Recognized: %s\n", result.PersonName)
	}
	if result.Confidence != nil {
		fmt.Printf("Confidence: %.1f%%\n", *result.Confidence*100)
	}
	return nil
}
