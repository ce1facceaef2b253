// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting database driver errors directly.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSlotFull is returned when a booking cannot be created or moved
// because the requested service date and time already holds the
// maximum number of bookings.
var ErrSlotFull = errors.New("slot full")

// ErrVehicleRequired is returned when a booking request carries no
// usable vehicle information (neither an existing vehicle ID nor a
// license plate to register a new vehicle under).
var ErrVehicleRequired = errors.New("vehicle information required")
