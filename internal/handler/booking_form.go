package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// tireSpec describes the tires requested for one axle. DOT codes are per
// wheel; brand and model reference the catalog and are resolved to name
// snapshots at write time.
type tireSpec struct {
	Size     string `json:"size"`
	BrandID  uint64 `json:"brand_id"`
	ModelID  uint64 `json:"model_id"`
	DOTLeft  string `json:"dot_left"`
	DOTRight string `json:"dot_right"`
}

// serviceSelection is one chosen service with its option ids.
type serviceSelection struct {
	ServiceID uint64   `json:"service_id"`
	OptionIDs []uint64 `json:"option_ids"`
}

// vehicleForm carries either an existing vehicle id or the fields needed
// to register a new vehicle under the customer.
type vehicleForm struct {
	VehicleID       uint64 `json:"vehicle_id"`
	LicensePlate    string `json:"license_plate"`
	LicenseProvince string `json:"license_province"`
	CarBrandID      uint64 `json:"car_brand_id"`
	ModelName       string `json:"model_name"`
	EngineTypeName  string `json:"engine_type_name"`
	Color           string `json:"color"`
	ProductionYear  int    `json:"production_year"`
}

// bookingForm is the request body for creating or replacing a booking.
type bookingForm struct {
	ServiceDate string             `json:"service_date"`
	ServiceTime string             `json:"service_time"`
	Note        string             `json:"note"`
	Services    []serviceSelection `json:"services"`
	Vehicle     vehicleForm        `json:"vehicle"`
	FrontTire   *tireSpec          `json:"front_tire"`
	RearTire    *tireSpec          `json:"rear_tire"`
}

var (
	errServiceDateRequired = errors.New("service_date required")
	errServiceDateInvalid  = errors.New("service_date must be YYYY-MM-DD")
	errServiceTimeInvalid  = errors.New("service_time outside bookable slots")
	errServiceIDRequired   = errors.New("service_id required for each selected service")
)

// normalize trims the form in place, applies the default slot time and
// validates shape. It does not touch the database; vehicle and catalog
// resolution happen inside the write transaction.
func (f *bookingForm) normalize() error {
	f.ServiceDate = strings.TrimSpace(f.ServiceDate)
	if f.ServiceDate == "" {
		return errServiceDateRequired
	}
	if _, err := time.Parse("2006-01-02", f.ServiceDate); err != nil {
		return errServiceDateInvalid
	}
	f.ServiceTime = strings.TrimSpace(f.ServiceTime)
	if f.ServiceTime == "" {
		f.ServiceTime = model.DefaultServiceTime
	}
	f.ServiceTime = model.NormalizeSlotTime(f.ServiceTime)
	if !validSlot(f.ServiceTime) {
		return errServiceTimeInvalid
	}
	f.Note = strings.TrimSpace(f.Note)
	// An empty service list is a valid booking (tires only); entries that
	// are present must reference a service.
	for _, sel := range f.Services {
		if sel.ServiceID == 0 {
			return errServiceIDRequired
		}
	}
	f.Vehicle.LicensePlate = strings.TrimSpace(f.Vehicle.LicensePlate)
	f.Vehicle.LicenseProvince = strings.TrimSpace(f.Vehicle.LicenseProvince)
	f.Vehicle.ModelName = strings.TrimSpace(f.Vehicle.ModelName)
	f.Vehicle.EngineTypeName = strings.TrimSpace(f.Vehicle.EngineTypeName)
	f.Vehicle.Color = strings.TrimSpace(f.Vehicle.Color)
	trimSpec(f.FrontTire)
	trimSpec(f.RearTire)
	return nil
}

func trimSpec(s *tireSpec) {
	if s == nil {
		return
	}
	s.Size = strings.TrimSpace(s.Size)
	s.DOTLeft = strings.TrimSpace(s.DOTLeft)
	s.DOTRight = strings.TrimSpace(s.DOTRight)
}

func validSlot(t string) bool {
	for _, s := range model.SlotTimes {
		if s == t {
			return true
		}
	}
	return false
}

// hasVehicleInfo reports whether the form carries enough to resolve a
// vehicle: an existing id or at least a license plate.
func (f *bookingForm) hasVehicleInfo() bool {
	return f.Vehicle.VehicleID != 0 || f.Vehicle.LicensePlate != ""
}

// axleTires holds one axle's descriptor with catalog names already
// resolved to snapshot strings.
type axleTires struct {
	Brand    string
	Model    string
	Size     string
	DOTLeft  string
	DOTRight string
}

// assembleServiceTires builds exactly one service tire row per wheel
// position for a booking. Axles without data yield rows with empty
// strings so the four-row shape always holds.
func assembleServiceTires(bookingID uint64, front, rear axleTires) []model.ServiceTire {
	rows := make([]model.ServiceTire, 0, len(model.TirePositions))
	for _, pos := range model.TirePositions {
		t := model.ServiceTire{BookingID: bookingID, Position: pos}
		switch pos {
		case model.PositionFrontLeft:
			t.Brand, t.Model, t.Size, t.DOT = front.Brand, front.Model, front.Size, front.DOTLeft
		case model.PositionFrontRight:
			t.Brand, t.Model, t.Size, t.DOT = front.Brand, front.Model, front.Size, front.DOTRight
		case model.PositionRearLeft:
			t.Brand, t.Model, t.Size, t.DOT = rear.Brand, rear.Model, rear.Size, rear.DOTLeft
		case model.PositionRearRight:
			t.Brand, t.Model, t.Size, t.DOT = rear.Brand, rear.Model, rear.Size, rear.DOTRight
		}
		rows = append(rows, t)
	}
	return rows
}
