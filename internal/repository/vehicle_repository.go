package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// VehicleRepo provides access to the 'vehicles' table. Vehicles are
// deduplicated per customer by license plate + province with a best-effort
// SELECT before INSERT; there is no unique constraint.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

const vehicleCols = `vehicle_id, customer_id, vehicle_type_id, engine_type_name, license_plate,
	license_province, brand_name, model_name, color, production_year, created_at`

func scanVehicle(row interface{ Scan(...interface{}) error }) (model.Vehicle, error) {
	var v model.Vehicle
	var typeID, year sql.NullInt64
	var engine, province, brand, modelName, color sql.NullString
	err := row.Scan(&v.ID, &v.CustomerID, &typeID, &engine, &v.LicensePlate,
		&province, &brand, &modelName, &color, &year, &v.CreatedAt)
	if err != nil {
		return v, err
	}
	if typeID.Valid {
		v.VehicleTypeID = uint64(typeID.Int64)
	}
	v.EngineTypeName = engine.String
	v.LicenseProvince = province.String
	v.BrandName = brand.String
	v.ModelName = modelName.String
	v.Color = color.String
	v.ProductionYear = int(year.Int64)
	return v, nil
}

// FindByPlateTx looks up a vehicle for the customer by plate and province
// within a transaction. Returns sql.ErrNoRows when none matches.
func (r *VehicleRepo) FindByPlateTx(ctx context.Context, tx *sql.Tx, customerID uint64, plate, province string) (model.Vehicle, error) {
	const q = `SELECT ` + vehicleCols + `
	           FROM vehicles
	           WHERE customer_id = ? AND license_plate = ? AND license_province = ?
	           ORDER BY vehicle_id
	           LIMIT 1`
	return scanVehicle(tx.QueryRowContext(ctx, q, customerID, strings.TrimSpace(plate), strings.TrimSpace(province)))
}

// CreateTx inserts a vehicle within a transaction and populates its ID.
func (r *VehicleRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Vehicle) error {
	const q = `INSERT INTO vehicles (customer_id, vehicle_type_id, engine_type_name, license_plate,
	           license_province, brand_name, model_name, color, production_year)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var typeID interface{}
	if v.VehicleTypeID != 0 {
		typeID = v.VehicleTypeID
	}
	var year interface{}
	if v.ProductionYear != 0 {
		year = v.ProductionYear
	}
	res, err := tx.ExecContext(ctx, q, v.CustomerID, typeID, nullStr(v.EngineTypeName),
		strings.TrimSpace(v.LicensePlate), nullStr(v.LicenseProvince), nullStr(v.BrandName),
		nullStr(v.ModelName), nullStr(v.Color), year)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// UpdateTx rewrites the descriptive fields of an existing vehicle inside a
// transaction. Booking edits use this to keep the vehicle in step with the
// submitted form.
func (r *VehicleRepo) UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Vehicle) error {
	const q = `UPDATE vehicles
	           SET engine_type_name = ?, license_plate = ?, license_province = ?,
	               brand_name = ?, model_name = ?, color = ?, production_year = ?
	           WHERE vehicle_id = ?`
	var year interface{}
	if v.ProductionYear != 0 {
		year = v.ProductionYear
	}
	_, err := tx.ExecContext(ctx, q, nullStr(v.EngineTypeName), strings.TrimSpace(v.LicensePlate),
		nullStr(v.LicenseProvince), nullStr(v.BrandName), nullStr(v.ModelName), nullStr(v.Color),
		year, v.ID)
	return err
}

// GetByID fetches a single vehicle.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
	const q = `SELECT ` + vehicleCols + ` FROM vehicles WHERE vehicle_id = ? LIMIT 1`
	return scanVehicle(r.DB.QueryRowContext(ctx, q, id))
}

// ListByCustomer returns a customer's vehicles ordered by newest first.
func (r *VehicleRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Vehicle, error) {
	const q = `SELECT ` + vehicleCols + ` FROM vehicles WHERE customer_id = ? ORDER BY vehicle_id DESC`
	rows, err := r.DB.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
