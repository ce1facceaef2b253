// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking commits. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64   `json:"booking_id"`
	CustomerID   uint64   `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	VehicleID    uint64   `json:"vehicle_id"`
	LicensePlate string   `json:"license_plate"`
	ServiceDate  string   `json:"service_date"`
	ServiceTime  string   `json:"service_time"`
	Services     []string `json:"services"`
	Status       string   `json:"status"`
	ConfirmedAt  string   `json:"confirmed_at"`
}
