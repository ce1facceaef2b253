package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// TireRepo provides catalog search and CRUD for sellable tires.
type TireRepo struct{ DB *sql.DB }

func NewTireRepo(db *sql.DB) *TireRepo { return &TireRepo{DB: db} }

// TireDetail is a tire row joined with its model and brand names for
// catalog listings.
type TireDetail struct {
	ID              uint64  `json:"id"`
	BrandID         uint64  `json:"brand_id"`
	BrandName       string  `json:"brand_name"`
	ModelID         uint64  `json:"model_id"`
	ModelName       string  `json:"model_name"`
	Width           int     `json:"width"`
	AspectRatio     int     `json:"aspect_ratio"`
	RimDiameter     int     `json:"rim_diameter"`
	FullSize        string  `json:"full_size"`
	LoadIndex       string  `json:"load_index"`
	HighSpeedRating string  `json:"high_speed_rating"`
	PriceEach       float64 `json:"price_each"`
	PriceSet        float64 `json:"price_set"`
	ProductDate     string  `json:"product_date"`
	ImageURL        string  `json:"image_url"`
}

// TireFilter narrows catalog searches. Zero values mean no filtering.
type TireFilter struct {
	BrandID     uint64
	ModelID     uint64
	FullSize    string
	Width       int
	AspectRatio int
	RimDiameter int
	Sort        string
	Page        int
	PerPage     int
}

// tireSorts whitelists the ORDER BY expressions reachable from the query
// string. Anything else falls back to newest-first.
var tireSorts = map[string]string{
	"price_asc":  "t.price_each ASC",
	"price_desc": "t.price_each DESC",
	"brand":      "b.brand_name ASC, m.model_name ASC",
	"size":       "t.width ASC, t.aspect_ratio ASC, t.rim_diameter ASC",
	"newest":     "t.tire_id DESC",
}

const tireDetailQuery = `SELECT t.tire_id, b.brand_id, b.brand_name, m.model_id, m.model_name,
	       t.width, t.aspect_ratio, t.rim_diameter, t.full_size,
	       t.load_index, t.high_speed_rating, t.price_each, t.price_set,
	       t.product_date, t.tire_image_url
	FROM tires t
	JOIN tire_models m ON m.model_id = t.model_id
	JOIN brands b ON b.brand_id = m.brand_id`

func scanTireDetail(row interface{ Scan(...interface{}) error }) (TireDetail, error) {
	var t TireDetail
	var loadIdx, speed, prodDate, img sql.NullString
	err := row.Scan(&t.ID, &t.BrandID, &t.BrandName, &t.ModelID, &t.ModelName,
		&t.Width, &t.AspectRatio, &t.RimDiameter, &t.FullSize,
		&loadIdx, &speed, &t.PriceEach, &t.PriceSet, &prodDate, &img)
	if err != nil {
		return t, err
	}
	t.LoadIndex = loadIdx.String
	t.HighSpeedRating = speed.String
	t.ProductDate = prodDate.String
	t.ImageURL = img.String
	return t, nil
}

// Search returns a filtered, paginated page of the tire catalog plus the
// total matching count.
func (r *TireRepo) Search(ctx context.Context, f TireFilter) ([]TireDetail, int, error) {
	where := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	if f.BrandID != 0 {
		where = append(where, "b.brand_id = ?")
		args = append(args, f.BrandID)
	}
	if f.ModelID != 0 {
		where = append(where, "m.model_id = ?")
		args = append(args, f.ModelID)
	}
	if s := strings.TrimSpace(f.FullSize); s != "" {
		where = append(where, "t.full_size = ?")
		args = append(args, s)
	}
	if f.Width != 0 {
		where = append(where, "t.width = ?")
		args = append(args, f.Width)
	}
	if f.AspectRatio != 0 {
		where = append(where, "t.aspect_ratio = ?")
		args = append(args, f.AspectRatio)
	}
	if f.RimDiameter != 0 {
		where = append(where, "t.rim_diameter = ?")
		args = append(args, f.RimDiameter)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}
	countQ := `SELECT COUNT(*)
	           FROM tires t
	           JOIN tire_models m ON m.model_id = t.model_id
	           JOIN brands b ON b.brand_id = m.brand_id` + cond
	var total int
	if err := r.DB.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	order, ok := tireSorts[f.Sort]
	if !ok {
		order = tireSorts["newest"]
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	q := tireDetailQuery + cond + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), f.PerPage, (f.Page-1)*f.PerPage)
	rows, err := r.DB.QueryContext(ctx, q, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]TireDetail, 0)
	for rows.Next() {
		t, err := scanTireDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches one tire with brand and model names.
func (r *TireRepo) GetByID(ctx context.Context, id uint64) (TireDetail, error) {
	return scanTireDetail(r.DB.QueryRowContext(ctx, tireDetailQuery+` WHERE t.tire_id = ?`, id))
}

// Create inserts a tire and populates its ID.
func (r *TireRepo) Create(ctx context.Context, t *model.Tire) error {
	const q = `INSERT INTO tires (model_id, width, aspect_ratio, rim_diameter, full_size,
	           load_index, high_speed_rating, price_each, price_set, product_date, tire_image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, t.ModelID, t.Width, t.AspectRatio, t.RimDiameter,
		t.FullSize, nullStr(t.LoadIndex), nullStr(t.HighSpeedRating), t.PriceEach, t.PriceSet,
		nullStr(t.ProductDate), nullStr(t.ImageURL))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update rewrites a tire row.
func (r *TireRepo) Update(ctx context.Context, t *model.Tire) error {
	const q = `UPDATE tires
	           SET model_id = ?, width = ?, aspect_ratio = ?, rim_diameter = ?, full_size = ?,
	               load_index = ?, high_speed_rating = ?, price_each = ?, price_set = ?,
	               product_date = ?, tire_image_url = ?
	           WHERE tire_id = ?`
	res, err := r.DB.ExecContext(ctx, q, t.ModelID, t.Width, t.AspectRatio, t.RimDiameter,
		t.FullSize, nullStr(t.LoadIndex), nullStr(t.HighSpeedRating), t.PriceEach, t.PriceSet,
		nullStr(t.ProductDate), nullStr(t.ImageURL), t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM tires WHERE tire_id = ?`, t.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a tire row.
func (r *TireRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tires WHERE tire_id = ?`, id)
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

// DistinctSizes returns the distinct full_size values in the catalog.
func (r *TireRepo) DistinctSizes(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx,
		`SELECT DISTINCT full_size FROM tires ORDER BY full_size`)
}

// DistinctWidths returns the distinct section widths.
func (r *TireRepo) DistinctWidths(ctx context.Context) ([]int, error) {
	return r.distinctInts(ctx, `SELECT DISTINCT width FROM tires ORDER BY width`)
}

// DistinctAspects returns the distinct aspect ratios.
func (r *TireRepo) DistinctAspects(ctx context.Context) ([]int, error) {
	return r.distinctInts(ctx, `SELECT DISTINCT aspect_ratio FROM tires ORDER BY aspect_ratio`)
}

// DistinctRims returns the distinct rim diameters.
func (r *TireRepo) DistinctRims(ctx context.Context) ([]int, error) {
	return r.distinctInts(ctx, `SELECT DISTINCT rim_diameter FROM tires ORDER BY rim_diameter`)
}

func (r *TireRepo) distinctStrings(ctx context.Context, q string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *TireRepo) distinctInts(ctx context.Context, q string) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
