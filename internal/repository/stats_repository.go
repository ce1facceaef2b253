package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// StatsRepo serves the aggregate queries behind owner and admin
// dashboards and the booking report.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// CountByStatus returns total booking counts keyed by status string.
func (r *StatsRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM bookings GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// Totals holds the headline dashboard numbers.
type Totals struct {
	Bookings  int `json:"bookings"`
	Customers int `json:"customers"`
	Vehicles  int `json:"vehicles"`
	Tires     int `json:"tires"`
}

// DashboardTotals returns overall row counts for the owner dashboard.
func (r *StatsRepo) DashboardTotals(ctx context.Context) (Totals, error) {
	const q = `SELECT
	               (SELECT COUNT(*) FROM bookings),
	               (SELECT COUNT(*) FROM customers),
	               (SELECT COUNT(*) FROM vehicles),
	               (SELECT COUNT(*) FROM tires)`
	var t Totals
	err := r.DB.QueryRowContext(ctx, q).Scan(&t.Bookings, &t.Customers, &t.Vehicles, &t.Tires)
	return t, err
}

// MonthlyBookings returns per-month booking counts for the last twelve
// months keyed "YYYY-MM", counting by service date.
func (r *StatsRepo) MonthlyBookings(ctx context.Context) (map[string]int, error) {
	const q = `SELECT DATE_FORMAT(service_date, '%Y-%m') AS ym, COUNT(*)
	           FROM bookings
	           WHERE service_date >= DATE_SUB(CURDATE(), INTERVAL 12 MONTH)
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

// ReportRow is one line of the owner booking report.
type ReportRow struct {
	BookingID    uint64 `json:"booking_id"`
	CustomerName string `json:"customer_name"`
	LicensePlate string `json:"license_plate"`
	ServiceDate  string `json:"service_date"`
	ServiceTime  string `json:"service_time"`
	Status       string `json:"status"`
	Services     string `json:"services"`
}

// BookingReport returns report rows for service dates in [from, to],
// oldest first. Services is a comma-joined list of service names.
func (r *StatsRepo) BookingReport(ctx context.Context, from, to string) ([]ReportRow, error) {
	const q = `SELECT b.booking_id,
	                  CONCAT(c.first_name, ' ', c.last_name),
	                  v.license_plate, b.service_date, b.service_time, b.status,
	                  COALESCE(GROUP_CONCAT(s.service_name ORDER BY s.service_name SEPARATOR ', '), '')
	           FROM bookings b
	           JOIN customers c ON c.customer_id = b.customer_id
	           JOIN vehicles v ON v.vehicle_id = b.vehicle_id
	           LEFT JOIN booking_items bi ON bi.booking_id = b.booking_id
	           LEFT JOIN services s ON s.service_id = bi.service_id
	           WHERE b.service_date BETWEEN ? AND ?
	           GROUP BY b.booking_id, c.first_name, c.last_name, v.license_plate,
	                    b.service_date, b.service_time, b.status
	           ORDER BY b.service_date, b.service_time, b.booking_id`
	rows, err := r.DB.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReportRow, 0)
	for rows.Next() {
		var row ReportRow
		var serviceDate time.Time
		if err := rows.Scan(&row.BookingID, &row.CustomerName, &row.LicensePlate,
			&serviceDate, &row.ServiceTime, &row.Status, &row.Services); err != nil {
			return nil, err
		}
		row.ServiceDate = serviceDate.Format("2006-01-02")
		row.ServiceTime = model.NormalizeSlotTime(row.ServiceTime)
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyReport returns per-month booking counts within [from, to] keyed
// "YYYY-MM".
func (r *StatsRepo) MonthlyReport(ctx context.Context, from, to string) (map[string]int, error) {
	const q = `SELECT DATE_FORMAT(service_date, '%Y-%m') AS ym, COUNT(*)
	           FROM bookings
	           WHERE service_date BETWEEN ? AND ?
	           GROUP BY ym
	           ORDER BY ym`
	rows, err := r.DB.QueryContext(ctx, q, from, to)
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
