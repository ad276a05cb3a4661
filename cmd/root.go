package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facelogix-kiosk",
	Short: "A kiosk client for FaceLogix face-recognition attendance",
	Long: `FaceLogix Kiosk connects a camera to a FaceLogix attendance backend.
It captures frames, submits them for face-recognition check-in and
check-out, and serves a local API for the kiosk display.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
