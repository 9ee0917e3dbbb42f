package status

import (
	"errors"
	"strings"
	"time"
)

// Status is the closed set of availability values a user can report.
type Status string

const (
	Working         Status = "working"
	WorkingRemotely Status = "working_remotely"
	OnVacation      Status = "on_vacation"
	BusinessTrip    Status = "business_trip"
)

var ErrInvalidStatus = errors.New("status must be one of: business_trip, on_vacation, working, working_remotely")

// Parse validates a raw status value once at the boundary. Input is
// trimmed and lowercased before matching.
func Parse(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case Working, WorkingRemotely, OnVacation, BusinessTrip:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Record is one user's current status row; one row per user.
type Record struct {
	UserID    int64     `json:"user_id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
