package model

import "time"

// Customer holds the identity and contact details of a shop customer.
// Customer accounts are linked to a login row in `users` via UserID.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – login account (0 for legacy rows without one).
//	FirstName – given name.
//	LastName  – family name.
//	Email     – contact email.
//	Phone     – contact phone number.
//	Gender    – free-form gender label.
//	Birthdate – date of birth (nullable).
//	AvatarURL – uploaded profile image path ("" when unset).
//	CreatedAt – registration timestamp.
type Customer struct {
	ID        uint64     // customers.customer_id
	UserID    uint64     // customers.user_id
	FirstName string     // customers.first_name
	LastName  string     // customers.last_name
	Email     string     // customers.email
	Phone     string     // customers.phone
	Gender    string     // customers.gender
	Birthdate *time.Time // customers.birthdate (nullable)
	AvatarURL string     // customers.avatar_url
	CreatedAt time.Time  // customers.created_at
}

// Vehicle belongs to one customer.  Vehicles are identified loosely by
// license plate + province: duplicate detection is a best-effort SELECT
// before INSERT scoped to the customer, not a unique constraint.
//
// Fields:
//
//	ID              – primary key identifier.
//	CustomerID      – owning customer.
//	VehicleTypeID   – vehicle body type lookup id (0 when unset).
//	EngineTypeName  – engine type label.
//	LicensePlate    – plate number.
//	LicenseProvince – province the plate was issued in.
//	BrandName       – car brand name resolved at creation time.
//	ModelName       – car model name.
//	Color           – body color.
//	ProductionYear  – model year (0 when unset).
//	CreatedAt       – creation timestamp.
type Vehicle struct {
	ID              uint64    // vehicles.vehicle_id
	CustomerID      uint64    // vehicles.customer_id
	VehicleTypeID   uint64    // vehicles.vehicle_type_id
	EngineTypeName  string    // vehicles.engine_type_name
	LicensePlate    string    // vehicles.license_plate
	LicenseProvince string    // vehicles.license_province
	BrandName       string    // vehicles.brand_name
	ModelName       string    // vehicles.model_name
	Color           string    // vehicles.color
	ProductionYear  int       // vehicles.production_year
	CreatedAt       time.Time // vehicles.created_at
}
