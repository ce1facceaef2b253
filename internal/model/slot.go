package model

import (
	"fmt"
	"strings"
)

// SlotCapacity is the informal cap on bookings sharing one time slot.
const SlotCapacity = 3

// DefaultServiceTime is applied when a booking form omits the time.
const DefaultServiceTime = "09:00"

// SlotTimes lists the bookable service slots.  The shop closes the
// 12:00 hour for lunch.
var SlotTimes = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00"}

// SlotAvailability describes one slot's remaining capacity.
type SlotAvailability struct {
	Available       bool `json:"available"`
	CurrentBookings int  `json:"current_bookings"`
	MaxBookings     int  `json:"max_bookings"`
	Remaining       int  `json:"remaining"`
}

// BuildAvailability maps every bookable slot to its availability given the
// current non-cancelled booking counts per normalized slot time.  Slots
// absent from counts are fully free.
func BuildAvailability(counts map[string]int) map[string]SlotAvailability {
	out := make(map[string]SlotAvailability, len(SlotTimes))
	for _, slot := range SlotTimes {
		n := counts[slot]
		remaining := SlotCapacity - n
		if remaining < 0 {
			remaining = 0
		}
		out[slot] = SlotAvailability{
			Available:       n < SlotCapacity,
			CurrentBookings: n,
			MaxBookings:     SlotCapacity,
			Remaining:       remaining,
		}
	}
	return out
}

// NormalizeSlotTime converts the various shapes MySQL TIME values come back
// in ("9:0:0", "09:00:00", "10:00") into the canonical HH:MM form used as
// slot keys.  Unparseable values are returned unchanged.
func NormalizeSlotTime(v string) string {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 {
		return v
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return v
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return v
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
