package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/api"
	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/config"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [user-id]",
	Short: "Capture frames and enroll a user's face",
	Long: `Capture several frames from the camera and submit them to the backend
as face enrollment images for the given user. The user should move their
head slightly between captures.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Int("count", 3, fmt.Sprintf("Number of frames to capture (1-%d)", api.MaxEnrollImages))
	enrollCmd.Flags().Int("max-size", 800, "Downscale frames so the longest edge fits this many pixels")
	enrollCmd.Flags().Bool("demo", false, "Use a synthetic test-pattern camera instead of real hardware")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	userID := args[0]
	cfg := config.Load()
	ctx := context.Background()

	count := mustGetInt(cmd, "count")
	if count < 1 || count > api.MaxEnrollImages {
		return fmt.Errorf("--count must be between 1 and %d", api.MaxEnrollImages)
	}
	maxSize := mustGetInt(cmd, "max-size")

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

	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription("Capturing frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	images := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i > 0 {
			// Give the subject a moment to shift pose between frames.
			time.Sleep(400 * time.Millisecond)
		}
		frame, err := cam.CaptureFrame()
		if err != nil {
			return fmt.Errorf("failed to capture frame %d: %w", i+1, err)
		}
		resized, err := camera.ResizeJPEG(frame.JPEG, maxSize, cfg.Camera.JPEGQuality)
		if err != nil {
			return fmt.Errorf("failed to resize frame %d: %w", i+1, err)
		}
		images = append(images, base64.StdEncoding.EncodeToString(resized))
		_ = bar.Add(1)
	}
	fmt.Println()

	resp, err := client.EnrollFace(ctx, userID, images)
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	fmt.Printf("Enrolled %d face(s) for user %s\n", resp.FacesEnrolled, resp.UserID)
	return nil
}
