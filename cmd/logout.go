package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the persisted session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, store, err := newBackendClient(config.Load())
	if err != nil {
		return err
	}

	if !store.Authenticated() {
		fmt.Println("Not logged in")
		return nil
	}

	store.Logout(context.Background())
	fmt.Println("Logged out")
	return nil
}
