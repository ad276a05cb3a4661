package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/capture"
	"github.com/facelogix/kiosk/internal/checkin"
	"github.com/facelogix/kiosk/internal/config"
	"github.com/facelogix/kiosk/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the kiosk",
	Long: `Run the kiosk: manage the camera stream, accept check-in attempts,
and serve the local API the kiosk display talks to.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().Bool("demo", false, "Use a synthetic test-pattern camera instead of real hardware")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
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
		fmt.Println("Using test-pattern camera (demo mode)")
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

	bridge := capture.NewBridge()
	bridge.Register(capture.SessionProvider(cam))

	submitter := &checkin.ClientSubmitter{Client: client, DeviceID: resolveDeviceID(cfg)}
	orch := checkin.New(bridge, submitter, cfg.Kiosk.ResultReset)

	// The continuous loop polls the camera while it is active. Network
	// cameras serve the last-good frame on a failed fetch; polling keeps
	// that cache fresh so snapshot and check-in captures stay recent.
	continuous := capture.NewContinuous(bridge, cfg.Kiosk.CaptureInterval, func(*camera.Frame) {})
	continuous.Start(ctx)

	server := web.NewServer(cfg, cam, orch)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		continuous.Stop()
		bridge.Unregister()
		cam.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting FaceLogix kiosk on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
