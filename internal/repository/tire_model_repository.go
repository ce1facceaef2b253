package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// TireModelRepo provides CRUD for tire models (product lines under a
// brand).
type TireModelRepo struct{ DB *sql.DB }

func NewTireModelRepo(db *sql.DB) *TireModelRepo { return &TireModelRepo{DB: db} }

// ListByBrand returns a brand's models ordered by name.
func (r *TireModelRepo) ListByBrand(ctx context.Context, brandID uint64) ([]model.TireModel, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT model_id, brand_id, model_name FROM tire_models WHERE brand_id = ? ORDER BY model_name`,
		brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TireModel, 0)
	for rows.Next() {
		var m model.TireModel
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches one tire model.
func (r *TireModelRepo) GetByID(ctx context.Context, id uint64) (model.TireModel, error) {
	var m model.TireModel
	err := r.DB.QueryRowContext(ctx,
		`SELECT model_id, brand_id, model_name FROM tire_models WHERE model_id = ? LIMIT 1`, id).
		Scan(&m.ID, &m.BrandID, &m.Name)
	return m, err
}

// Create inserts a tire model and returns its ID.
func (r *TireModelRepo) Create(ctx context.Context, brandID uint64, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO tire_models (brand_id, model_name) VALUES (?, ?)`,
		brandID, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update renames a tire model or moves it to another brand.
func (r *TireModelRepo) Update(ctx context.Context, id, brandID uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tire_models SET brand_id = ?, model_name = ? WHERE model_id = ?`,
		brandID, strings.TrimSpace(name), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM tire_models WHERE model_id = ?`, id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a tire model. Models still referenced by tires return
// ErrConflict.
func (r *TireModelRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tires WHERE model_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tire_models WHERE model_id = ?`, id)
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

// ModelNameTx resolves a tire model id to its name within a transaction,
// "" when unknown. Booking writes snapshot this name into service_tires.
func (r *TireModelRepo) ModelNameTx(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT model_name FROM tire_models WHERE model_id = ? LIMIT 1`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
