package model

import "time"

// Wheel position labels stored in service_tires.position.  Every booking
// carries exactly one service-tire row per position, in this order.
const (
	PositionFrontLeft  = "front_left"
	PositionFrontRight = "front_right"
	PositionRearLeft   = "rear_left"
	PositionRearRight  = "rear_right"
)

// TirePositions lists the four wheel positions in persistence order.
var TirePositions = []string{
	PositionFrontLeft,
	PositionFrontRight,
	PositionRearLeft,
	PositionRearRight,
}

// Booking is a customer's reservation for shop services on a given
// date/time.
//
// Fields:
//
//	ID          – primary key identifier.
//	CustomerID  – customer who made the booking.
//	VehicleID   – vehicle the service is for.
//	BookingDate – when the booking was placed.
//	ServiceDate – requested service date (YYYY-MM-DD).
//	ServiceTime – requested slot time (HH:MM).
//	Status      – booking state (closed enum).
//	Note        – free-text note from the customer.
type Booking struct {
	ID          uint64        // bookings.booking_id
	CustomerID  uint64        // bookings.customer_id
	VehicleID   uint64        // bookings.vehicle_id
	BookingDate time.Time     // bookings.booking_date
	ServiceDate string        // bookings.service_date
	ServiceTime string        // bookings.service_time
	Status      BookingStatus // bookings.status
	Note        string        // bookings.note
}

// BookingItem is one selected service line within a booking.
//
// Fields:
//
//	ID        – primary key identifier.
//	BookingID – owning booking.
//	ServiceID – selected service.
//	Quantity  – always 1 in the current form, kept for the schema.
type BookingItem struct {
	ID        uint64 // booking_items.item_id
	BookingID uint64 // booking_items.booking_id
	ServiceID uint64 // booking_items.service_id
	Quantity  uint32 // booking_items.quantity
}

// BookingItemOption links a booking item to one of its service's options.
type BookingItemOption struct {
	ID       uint64 // booking_item_options.id
	ItemID   uint64 // booking_item_options.item_id
	OptionID uint64 // booking_item_options.option_id
}

// ServiceTire is a per-wheel-position tire descriptor attached to a
// booking.  Brand and model are denormalized snapshots of the catalog
// names resolved at write time, not foreign keys: later catalog renames
// deliberately do not rewrite historical bookings.
//
// Fields:
//
//	ID        – primary key identifier.
//	BookingID – owning booking.
//	Position  – wheel position label (see TirePositions).
//	Brand     – tire brand name at booking time ("" when unknown).
//	Model     – tire model name at booking time ("" when unknown).
//	Size      – tire size string, e.g. "195/65R15".
//	DOT       – DOT week/year code read off the tire.
type ServiceTire struct {
	ID        uint64 // service_tires.id
	BookingID uint64 // service_tires.booking_id
	Position  string // service_tires.position
	Brand     string // service_tires.brand
	Model     string // service_tires.model
	Size      string // service_tires.size
	DOT       string // service_tires.dot
}
