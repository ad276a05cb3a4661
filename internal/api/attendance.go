package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// checkRequest is the body of POST /attendance/check-in and /check-out.
type checkRequest struct {
	Image     string    `json:"image"` // base64-encoded JPEG
	DeviceID  string    `json:"device_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckIn submits a captured frame for check-in.
func (c *Client) CheckIn(ctx context.Context, imageBase64, deviceID string, ts time.Time) (*CheckOutcome, error) {
	return doPostJSON[CheckOutcome](ctx, c, "attendance/check-in", checkRequest{
		Image:     imageBase64,
		DeviceID:  deviceID,
		Timestamp: ts,
	})
}

// CheckOut submits a captured frame for check-out.
func (c *Client) CheckOut(ctx context.Context, imageBase64, deviceID string, ts time.Time) (*CheckOutcome, error) {
	return doPostJSON[CheckOutcome](ctx, c, "attendance/check-out", checkRequest{
		Image:     imageBase64,
		DeviceID:  deviceID,
		Timestamp: ts,
	})
}

// ListLogs fetches a page of attendance logs.
func (c *Client) ListLogs(ctx context.Context, q LogQuery) (*LogPage, error) {
	params := url.Values{}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if q.DeviceID != "" {
		params.Set("device_id", q.DeviceID)
	}
	if q.FromDate != "" {
		params.Set("from_date", q.FromDate)
	}
	if q.ToDate != "" {
		params.Set("to_date", q.ToDate)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}

	endpoint := "attendance/logs"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return doGetJSON[LogPage](ctx, c, endpoint)
}

// GetDailySummary fetches the attendance summary for one day.
func (c *Client) GetDailySummary(ctx context.Context, day time.Time) (*DailySummary, error) {
	endpoint := fmt.Sprintf("attendance/summary/daily?date=%s", day.Format("2006-01-02"))
	return doGetJSON[DailySummary](ctx, c, endpoint)
}
