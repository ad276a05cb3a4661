package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state and today's attendance summary",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("summary", false, "Also fetch today's attendance summary from the backend")
	statusCmd.Flags().String("day", "", "Day for the summary in YYYY-MM-DD format (defaults to today)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, store, err := newBackendClient(config.Load())
	if err != nil {
		return err
	}

	if !store.Authenticated() {
		fmt.Println("Session: logged out")
		return nil
	}

	id := store.Identity()
	fmt.Println("Session: authenticated")
	fmt.Printf("  User: %s (%s)\n", id.Name, id.Role)
	fmt.Printf("  Org:  %s\n", id.OrgID)

	if !mustGetBool(cmd, "summary") {
		return nil
	}

	day := time.Now()
	if d := mustGetString(cmd, "day"); d != "" {
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			return fmt.Errorf("invalid --day: %w", err)
		}
	}

	summary, err := client.GetDailySummary(context.Background(), day)
	if err != nil {
		return fmt.Errorf("failed to fetch daily summary: %w", err)
	}

	fmt.Printf("\nSummary for %s:\n", summary.Date)
	fmt.Printf("  Checked in: %d / %d\n", summary.CheckedIn, summary.TotalUsers)
	fmt.Printf("  On time:    %d\n", summary.OnTime)
	fmt.Printf("  Late:       %d\n", summary.Late)
	fmt.Printf("  Absent:     %d\n", summary.Absent)
	if summary.UnknownAttempts > 0 {
		fmt.Printf("  Unknown attempts: %d\n", summary.UnknownAttempts)
	}
	return nil
}
