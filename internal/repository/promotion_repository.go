package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// PromotionRepo provides CRUD for marketing promotions.
type PromotionRepo struct{ DB *sql.DB }

func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{DB: db} }

const promotionCols = `promotion_id, title, description, image_url, start_date, end_date, is_active, created_at`

func scanPromotion(row interface{ Scan(...interface{}) error }) (model.Promotion, error) {
	var p model.Promotion
	var desc, img sql.NullString
	var start, end sql.NullTime
	err := row.Scan(&p.ID, &p.Title, &desc, &img, &start, &end, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	p.Description = desc.String
	p.ImageURL = img.String
	if start.Valid {
		p.StartDate = start.Time.Format("2006-01-02")
	}
	if end.Valid {
		p.EndDate = end.Time.Format("2006-01-02")
	}
	return p, nil
}

// ListActive returns promotions that are flagged active and whose date
// window covers today, newest first.
func (r *PromotionRepo) ListActive(ctx context.Context) ([]model.Promotion, error) {
	const q = `SELECT ` + promotionCols + `
	           FROM promotions
	           WHERE is_active = 1
	             AND (start_date IS NULL OR start_date <= CURDATE())
	             AND (end_date IS NULL OR end_date >= CURDATE())
	           ORDER BY promotion_id DESC`
	return r.list(ctx, q)
}

// ListAll returns every promotion, newest first, for the back office.
func (r *PromotionRepo) ListAll(ctx context.Context) ([]model.Promotion, error) {
	return r.list(ctx, `SELECT `+promotionCols+` FROM promotions ORDER BY promotion_id DESC`)
}

func (r *PromotionRepo) list(ctx context.Context, q string) ([]model.Promotion, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches one promotion.
func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (model.Promotion, error) {
	const q = `SELECT ` + promotionCols + ` FROM promotions WHERE promotion_id = ? LIMIT 1`
	return scanPromotion(r.DB.QueryRowContext(ctx, q, id))
}

// Create inserts a promotion and populates its ID.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	const q = `INSERT INTO promotions (title, description, image_url, start_date, end_date, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, strings.TrimSpace(p.Title), nullStr(p.Description),
		nullStr(p.ImageURL), nullStr(p.StartDate), nullStr(p.EndDate), p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update rewrites a promotion row.
func (r *PromotionRepo) Update(ctx context.Context, p *model.Promotion) error {
	const q = `UPDATE promotions
	           SET title = ?, description = ?, image_url = ?, start_date = ?, end_date = ?, is_active = ?
	           WHERE promotion_id = ?`
	res, err := r.DB.ExecContext(ctx, q, strings.TrimSpace(p.Title), nullStr(p.Description),
		nullStr(p.ImageURL), nullStr(p.StartDate), nullStr(p.EndDate), p.IsActive, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM promotions WHERE promotion_id = ?`, p.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a promotion.
func (r *PromotionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM promotions WHERE promotion_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
