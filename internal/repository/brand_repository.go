package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// BrandRepo provides CRUD for tire brands plus the car_brands lookup used
// when registering vehicles.
type BrandRepo struct{ DB *sql.DB }

func NewBrandRepo(db *sql.DB) *BrandRepo { return &BrandRepo{DB: db} }

// List returns all tire brands ordered by name.
func (r *BrandRepo) List(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT brand_id, brand_name FROM brands ORDER BY brand_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Brand, 0)
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches one tire brand.
func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (model.Brand, error) {
	var b model.Brand
	err := r.DB.QueryRowContext(ctx,
		`SELECT brand_id, brand_name FROM brands WHERE brand_id = ? LIMIT 1`, id).
		Scan(&b.ID, &b.Name)
	return b, err
}

// Create inserts a tire brand and returns its ID.
func (r *BrandRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO brands (brand_name) VALUES (?)`, strings.TrimSpace(name))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update renames a tire brand.
func (r *BrandRepo) Update(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE brands SET brand_name = ? WHERE brand_id = ?`, strings.TrimSpace(name), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM brands WHERE brand_id = ?`, id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a brand. Brands still referenced by tire models return
// ErrConflict so the caller can answer 409.
func (r *BrandRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tire_models WHERE brand_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM brands WHERE brand_id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListCarBrands returns the vehicle manufacturer lookup ordered by name.
func (r *BrandRepo) ListCarBrands(ctx context.Context) ([]model.CarBrand, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT car_brand_id, car_brand_name FROM car_brands ORDER BY car_brand_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CarBrand, 0)
	for rows.Next() {
		var b model.CarBrand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CarBrandNameTx resolves a car brand id to its name within a transaction.
// Unknown ids return "" with no error; vehicle creation stores the empty
// string rather than failing the booking.
func (r *BrandRepo) CarBrandNameTx(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT car_brand_name FROM car_brands WHERE car_brand_id = ? LIMIT 1`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// BrandNameTx resolves a tire brand id to its name within a transaction,
// "" when unknown.
func (r *BrandRepo) BrandNameTx(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT brand_name FROM brands WHERE brand_id = ? LIMIT 1`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
