package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/config"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List the configured camera devices",
	RunE:  runCameras,
}

func init() {
	rootCmd.AddCommand(camerasCmd)
}

func runCameras(cmd *cobra.Command, args []string) error {
	device, err := newCameraDevice(config.Load())
	if err != nil {
		return err
	}

	infos, err := device.Enumerate(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate cameras: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No cameras configured")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%s (%s)\n", info.Name, info.Facing)
	}
	return nil
}
