package model

import "fmt"

// BookingStatus is the closed set of states a booking can be in.  The
// underlying strings are the Thai labels the shop has always stored in
// bookings.status, so existing rows keep working; code never compares
// against raw strings outside this type.
type BookingStatus string

const (
	StatusPending   BookingStatus = "รอดำเนินการ" // awaiting service
	StatusCompleted BookingStatus = "สำเร็จ"      // service finished
	StatusCancelled BookingStatus = "ยกเลิก"      // booking cancelled
)

// BookingStatuses lists the known statuses in workflow order.
var BookingStatuses = []BookingStatus{StatusPending, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the three known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// English returns the API-facing english name for the status.
func (s BookingStatus) English() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "done"
	case StatusCancelled:
		return "cancelled"
	}
	return string(s)
}

// ParseBookingStatus converts a submitted status value into a
// BookingStatus.  Both the stored Thai labels and the english aliases used
// by API clients are accepted; anything else is rejected so arbitrary
// strings can no longer reach the status column.
func ParseBookingStatus(v string) (BookingStatus, error) {
	switch v {
	case string(StatusPending), "pending":
		return StatusPending, nil
	case string(StatusCompleted), "done", "completed":
		return StatusCompleted, nil
	case string(StatusCancelled), "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown booking status %q", v)
}
