package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// CustomerRepo provides CRUD operations for customer profiles. A customer
// row owns vehicles, bookings and service records; removal goes through
// DeleteCascadeTx so no orphan rows survive.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

func scanCustomer(row interface{ Scan(...interface{}) error }) (model.Customer, error) {
	var c model.Customer
	var userID sql.NullInt64
	var gender, avatar sql.NullString
	var birth sql.NullTime
	err := row.Scan(&c.ID, &userID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&gender, &birth, &avatar, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if userID.Valid {
		c.UserID = uint64(userID.Int64)
	}
	c.Gender = gender.String
	c.AvatarURL = avatar.String
	if birth.Valid {
		b := birth.Time
		c.Birthdate = &b
	}
	return c, nil
}

const customerCols = `customer_id, user_id, first_name, last_name, email, phone, gender, birthdate, avatar_url, created_at`

// CreateTx inserts a customer profile within an existing transaction and
// populates the generated ID. Registration uses this so the users row and
// the customer row commit together.
func (r *CustomerRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Customer) error {
	const q = `INSERT INTO customers (user_id, first_name, last_name, email, phone, gender, birthdate, avatar_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var userID interface{}
	if c.UserID != 0 {
		userID = c.UserID
	}
	var birth interface{}
	if c.Birthdate != nil {
		birth = c.Birthdate.Format("2006-01-02")
	}
	res, err := tx.ExecContext(ctx, q, userID, c.FirstName, c.LastName, c.Email, c.Phone,
		nullStr(c.Gender), birth, nullStr(c.AvatarURL))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Create inserts a customer profile outside a transaction (back-office
// manual registration without a login account).
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.CreateTx(ctx, tx, c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single customer profile.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	const q = `SELECT ` + customerCols + ` FROM customers WHERE customer_id = ? LIMIT 1`
	return scanCustomer(r.DB.QueryRowContext(ctx, q, id))
}

// GetByUserID fetches the customer profile linked to a login account.
func (r *CustomerRepo) GetByUserID(ctx context.Context, userID uint64) (model.Customer, error) {
	const q = `SELECT ` + customerCols + ` FROM customers WHERE user_id = ? LIMIT 1`
	return scanCustomer(r.DB.QueryRowContext(ctx, q, userID))
}

// List returns customers ordered by newest first. A non-empty search term
// matches name, email or phone.
func (r *CustomerRepo) List(ctx context.Context, search string) ([]model.Customer, error) {
	q := `SELECT ` + customerCols + ` FROM customers`
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE CONCAT(first_name, ' ', last_name) LIKE ? OR email LIKE ? OR phone LIKE ?`
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	q += ` ORDER BY customer_id DESC`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the editable profile fields.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	const q = `UPDATE customers
	           SET first_name = ?, last_name = ?, email = ?, phone = ?, gender = ?, birthdate = ?, avatar_url = ?
	           WHERE customer_id = ?`
	var birth interface{}
	if c.Birthdate != nil {
		birth = c.Birthdate.Format("2006-01-02")
	}
	res, err := r.DB.ExecContext(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone,
		nullStr(c.Gender), birth, nullStr(c.AvatarURL), c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Row may exist with identical values; confirm it is there.
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE customer_id = ?`, c.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCascadeTx removes a customer and every dependent row inside the
// given transaction. Child rows go before their parents:
// service_tires, booking_item_options and booking_items before bookings;
// service_record_items before service_records; vehicles before the
// customer; the login user row last.
func (r *CustomerRepo) DeleteCascadeTx(ctx context.Context, tx *sql.Tx, customerID uint64) error {
	var userID sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT user_id FROM customers WHERE customer_id = ? FOR UPDATE`, customerID).Scan(&userID)
	if err != nil {
		return err
	}
	steps := []string{
		`DELETE st FROM service_tires st
		 JOIN bookings b ON b.booking_id = st.booking_id
		 WHERE b.customer_id = ?`,
		`DELETE bio FROM booking_item_options bio
		 JOIN booking_items bi ON bi.item_id = bio.item_id
		 JOIN bookings b ON b.booking_id = bi.booking_id
		 WHERE b.customer_id = ?`,
		`DELETE bi FROM booking_items bi
		 JOIN bookings b ON b.booking_id = bi.booking_id
		 WHERE b.customer_id = ?`,
		`DELETE FROM bookings WHERE customer_id = ?`,
		`DELETE sri FROM service_record_items sri
		 JOIN service_records sr ON sr.service_record_id = sri.service_record_id
		 JOIN vehicles v ON v.vehicle_id = sr.vehicle_id
		 WHERE v.customer_id = ?`,
		`DELETE sr FROM service_records sr
		 JOIN vehicles v ON v.vehicle_id = sr.vehicle_id
		 WHERE v.customer_id = ?`,
		`DELETE FROM vehicles WHERE customer_id = ?`,
		`DELETE FROM customers WHERE customer_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, customerID); err != nil {
			return err
		}
	}
	if userID.Valid {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE user_id = ?`, uint64(userID.Int64)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE user_id = ?`, uint64(userID.Int64)); err != nil {
			return err
		}
	}
	return nil
}

// MonthlyNewCustomers returns per-month registration counts for the last
// twelve months keyed "YYYY-MM".
func (r *CustomerRepo) MonthlyNewCustomers(ctx context.Context) (map[string]int, error) {
	const q = `SELECT DATE_FORMAT(created_at, '%Y-%m') AS ym, COUNT(*)
	           FROM customers
	           WHERE created_at >= DATE_SUB(CURDATE(), INTERVAL 12 MONTH)
	           GROUP BY ym`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var ym string
		var n int
		if err := rows.Scan(&ym, &n); err != nil {
			return nil, err
		}
		out[ym] = n
	}
	return out, rows.Err()
}

func nullStr(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
