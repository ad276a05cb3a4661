package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facelogix/kiosk/internal/attendance"
	"github.com/facelogix/kiosk/internal/config"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export attendance logs as CSV",
	Long: `Fetch attendance logs from the backend and write them as CSV.
The --user filter matches case-insensitively and ignores diacritics,
so "dvorak" finds "Dvořák".`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("from", "", "Start date in YYYY-MM-DD format")
	reportCmd.Flags().String("to", "", "End date in YYYY-MM-DD format")
	reportCmd.Flags().String("user", "", "Filter by user name (substring match)")
	reportCmd.Flags().String("type", "", "Filter by attendance type: check_in or check_out")
	reportCmd.Flags().String("output", "", "Output file (defaults to stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	client, store, err := newBackendClient(cfg)
	if err != nil {
		return err
	}
	if err := ensureAuthenticated(ctx, client, store, cfg); err != nil {
		return err
	}

	output := mustGetString(cmd, "output")

	var bar *progressbar.ProgressBar
	if output != "" {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Fetching logs"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("logs"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	logs, err := attendance.FetchLogs(ctx, client, attendance.ReportOptions{
		FromDate: mustGetString(cmd, "from"),
		ToDate:   mustGetString(cmd, "to"),
		UserName: mustGetString(cmd, "user"),
		Type:     mustGetString(cmd, "type"),
	}, func(fetched, total int) {
		if bar != nil {
			bar.ChangeMax(total)
			_ = bar.Set(fetched)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}
	if bar != nil {
		fmt.Println()
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := attendance.WriteCSV(out, logs); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if output != "" {
		fmt.Printf("Wrote %d logs to %s\n", len(logs), output)
	}
	return nil
}
