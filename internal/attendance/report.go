package attendance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/facelogix/kiosk/internal/api"
)

// reportPageSize is the page size used when walking the log endpoint.
const reportPageSize = 100

// LogLister is the slice of the backend client the report needs.
type LogLister interface {
	ListLogs(ctx context.Context, q api.LogQuery) (*api.LogPage, error)
}

// ReportOptions filters an attendance report.
type ReportOptions struct {
	FromDate string // YYYY-MM-DD, optional
	ToDate   string // YYYY-MM-DD, optional
	UserName string // diacritics- and case-insensitive substring filter
	Type     string // check_in / check_out, optional
}

// FetchLogs walks all pages of attendance logs matching opts. The page
// callback runs after each fetched page with (fetched, total) for
// progress reporting; it may be nil.
func FetchLogs(ctx context.Context, lister LogLister, opts ReportOptions, page func(fetched, total int)) ([]api.AttendanceLog, error) {
	var logs []api.AttendanceLog

	for p := 1; ; p++ {
		res, err := lister.ListLogs(ctx, api.LogQuery{
			FromDate: opts.FromDate,
			ToDate:   opts.ToDate,
			Type:     opts.Type,
			Page:     p,
			PageSize: reportPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("could not fetch attendance logs page %d: %w", p, err)
		}

		for _, item := range res.Items {
			if NameMatches(item.UserName, opts.UserName) {
				logs = append(logs, item)
			}
		}

		fetched := (p-1)*reportPageSize + len(res.Items)
		if page != nil {
			page(fetched, res.Total)
		}
		if len(res.Items) == 0 || fetched >= res.Total {
			return logs, nil
		}
	}
}

// WriteCSV writes logs as CSV with a header row.
func WriteCSV(w io.Writer, logs []api.AttendanceLog) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "type", "status", "user_id", "user_name", "device_name", "confidence"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("could not write CSV header: %w", err)
	}

	for _, l := range logs {
		confidence := ""
		if l.ConfidenceScore != nil {
			confidence = strconv.FormatFloat(*l.ConfidenceScore, 'f', 4, 64)
		}
		row := []string{
			l.Timestamp.Format(time.RFC3339),
			l.Type,
			l.Status,
			l.UserID,
			l.UserName,
			l.DeviceName,
			confidence,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("could not write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
