package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facelogix/kiosk/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the FaceLogix backend",
	Long: `Log in to the FaceLogix backend with an operator account.
The session is persisted to the state file and reused by the other
commands until it expires or you log out.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("password", "", "Password (defaults to FACELOGIX_PASSWORD, then an interactive prompt)")
}

func readPassword(cmd *cobra.Command) (string, error) {
	if p := mustGetString(cmd, "password"); p != "" {
		return p, nil
	}
	if p := os.Getenv("FACELOGIX_PASSWORD"); p != "" {
		return p, nil
	}
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(raw), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]

	_, store, err := newBackendClient(config.Load())
	if err != nil {
		return err
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	if err := store.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	id := store.Identity()
	fmt.Printf("Logged in as %s (%s)\n", id.Name, id.Role)
	return nil
}
