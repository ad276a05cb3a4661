package api

import "time"

// LoginResponse is the backend's answer to POST /auth/login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
	OrgID        string `json:"org_id"`
	Role         string `json:"role"`
	Name         string `json:"name"`
}

// RefreshResponse is the backend's answer to POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// DeviceLoginResponse is the backend's answer to POST /auth/device.
// Device tokens let a kiosk run headless without a user account.
type DeviceLoginResponse struct {
	DeviceToken string `json:"device_token"`
	TokenType   string `json:"token_type"`
	OrgID       string `json:"org_id"`
	DeviceName  string `json:"device_name"`
}

// CheckOutcome is the raw attendance service outcome for a submitted
// frame. The orchestrator maps it to a presentation status; this type
// stays faithful to the wire format.
type CheckOutcome struct {
	Success         bool       `json:"success"`
	Status          string     `json:"status"`
	Message         string     `json:"message"`
	UserID          string     `json:"user_id,omitempty"`
	UserName        string     `json:"user_name,omitempty"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
}

// Outcome statuses emitted by the backend.
const (
	OutcomeUnknownUser       = "unknown_user"
	OutcomeAlreadyCheckedIn  = "already_checked_in"
	OutcomeAlreadyCheckedOut = "already_checked_out"
	OutcomeNoFaceDetected    = "no_face_detected"
)

// AttendanceLog is one attendance record from GET /attendance/logs.
type AttendanceLog struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id,omitempty"`
	UserName        string     `json:"user_name,omitempty"`
	DeviceID        string     `json:"device_id,omitempty"`
	DeviceName      string     `json:"device_name,omitempty"`
	Timestamp       time.Time  `json:"ts"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
}

// LogPage is a page of attendance logs.
type LogPage struct {
	Items    []AttendanceLog `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// LogQuery filters GET /attendance/logs.
type LogQuery struct {
	UserID   string
	DeviceID string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
	Status   string
	Type     string
	Page     int
	PageSize int
}

// DailySummary aggregates one day of attendance.
type DailySummary struct {
	Date            string `json:"date"`
	TotalUsers      int    `json:"total_users"`
	CheckedIn       int    `json:"checked_in"`
	OnTime          int    `json:"on_time"`
	Late            int    `json:"late"`
	Absent          int    `json:"absent"`
	UnknownAttempts int    `json:"unknown_attempts"`
}

// EnrollResponse confirms a face enrollment.
type EnrollResponse struct {
	UserID        string     `json:"user_id"`
	FacesEnrolled int        `json:"faces_enrolled"`
	EnrolledAt    *time.Time `json:"enrolled_at,omitempty"`
}
