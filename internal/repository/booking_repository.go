package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their dependent
// rows (items, item options, service tires). Writes that touch more than
// one table run inside a caller-owned transaction; the Tx variants never
// commit or roll back themselves.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// CreateTx inserts a booking header within the given transaction and
// populates the generated ID. booking_date is set by the database.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (customer_id, vehicle_id, booking_date, service_date, service_time, status, note)
	           VALUES (?, ?, NOW(), ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.CustomerID, b.VehicleID, b.ServiceDate, b.ServiceTime,
		string(b.Status), nullStr(b.Note))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UpdateTx rewrites the editable header fields of an existing booking.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET vehicle_id = ?, service_date = ?, service_time = ?, status = ?, note = ?
	           WHERE booking_id = ?`
	_, err := tx.ExecContext(ctx, q, b.VehicleID, b.ServiceDate, b.ServiceTime,
		string(b.Status), nullStr(b.Note), b.ID)
	return err
}

// CreateItemTx inserts one booking item and populates its generated ID so
// the caller can attach option rows to it.
func (r *BookingRepo) CreateItemTx(ctx context.Context, tx *sql.Tx, it *model.BookingItem) error {
	const q = `INSERT INTO booking_items (booking_id, service_id, quantity) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, it.BookingID, it.ServiceID, it.Quantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// CreateItemOptionsTx bulk-inserts option rows for one booking item.
// Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateItemOptionsTx(ctx context.Context, tx *sql.Tx, itemID uint64, optionIDs []uint64) error {
	if len(optionIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_item_options (item_id, option_id) VALUES `
	args := make([]interface{}, 0, len(optionIDs)*2)
	for i, oid := range optionIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, itemID, oid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateServiceTiresTx bulk-inserts service tire rows for a booking. The
// caller supplies exactly one row per wheel position.
func (r *BookingRepo) CreateServiceTiresTx(ctx context.Context, tx *sql.Tx, tires []model.ServiceTire) error {
	if len(tires) == 0 {
		return nil
	}
	query := `INSERT INTO service_tires (booking_id, position, brand, model, size, dot) VALUES `
	args := make([]interface{}, 0, len(tires)*6)
	for i, t := range tires {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, t.BookingID, t.Position, t.Brand, t.Model, t.Size, t.DOT)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteItemsTx removes a booking's item option rows and then its items.
// Edits call this before re-inserting the submitted form.
func (r *BookingRepo) DeleteItemsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const optQ = `DELETE bio FROM booking_item_options bio
	              JOIN booking_items bi ON bi.item_id = bio.item_id
	              WHERE bi.booking_id = ?`
	if _, err := tx.ExecContext(ctx, optQ, bookingID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM booking_items WHERE booking_id = ?`, bookingID)
	return err
}

// DeleteServiceTiresTx removes a booking's service tire rows.
func (r *BookingRepo) DeleteServiceTiresTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM service_tires WHERE booking_id = ?`, bookingID)
	return err
}

// DeleteCascadeTx removes one booking and all its dependent rows inside
// the given transaction, children first.
func (r *BookingRepo) DeleteCascadeTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	if err := r.DeleteServiceTiresTx(ctx, tx, bookingID); err != nil {
		return err
	}
	if err := r.DeleteItemsTx(ctx, tx, bookingID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = ?`, bookingID)
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

// CountBySlotTx counts non-cancelled bookings occupying one slot, locking
// the matched rows so a concurrent insert into the same slot serializes
// behind this transaction. excludeID skips the booking being edited
// (0 to count all).
func (r *BookingRepo) CountBySlotTx(ctx context.Context, tx *sql.Tx, serviceDate, serviceTime string, excludeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM (
	               SELECT booking_id FROM bookings
	               WHERE service_date = ? AND service_time = ? AND status <> ? AND booking_id <> ?
	               FOR UPDATE
	           ) occupied`
	var n int
	err := tx.QueryRowContext(ctx, q, serviceDate, serviceTime, string(model.StatusCancelled), excludeID).Scan(&n)
	return n, err
}

// CountsByDate returns non-cancelled booking counts per slot time for one
// service date. Keys are normalized to HH:MM. This read is advisory; the
// authoritative check happens in CountBySlotTx at write time.
func (r *BookingRepo) CountsByDate(ctx context.Context, serviceDate string) (map[string]int, error) {
	const q = `SELECT service_time, COUNT(*)
	           FROM bookings
	           WHERE service_date = ? AND status <> ?
	           GROUP BY service_time`
	rows, err := r.DB.QueryContext(ctx, q, serviceDate, string(model.StatusCancelled))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[model.NormalizeSlotTime(t)] += n
	}
	return counts, rows.Err()
}

// GetHeader fetches one booking header row.
func (r *BookingRepo) GetHeader(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT booking_id, customer_id, vehicle_id, booking_date, service_date, service_time, status, note
	           FROM bookings WHERE booking_id = ? LIMIT 1`
	return scanBookingHeader(r.DB.QueryRowContext(ctx, q, id))
}

// GetHeaderTx is GetHeader within a transaction, locking the row so edits
// and deletes serialize.
func (r *BookingRepo) GetHeaderTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	const q = `SELECT booking_id, customer_id, vehicle_id, booking_date, service_date, service_time, status, note
	           FROM bookings WHERE booking_id = ? FOR UPDATE`
	return scanBookingHeader(tx.QueryRowContext(ctx, q, id))
}

func scanBookingHeader(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var b model.Booking
	var note sql.NullString
	var status string
	var serviceDate time.Time
	err := row.Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.BookingDate,
		&serviceDate, &b.ServiceTime, &status, &note)
	if err != nil {
		return b, err
	}
	b.ServiceDate = serviceDate.Format("2006-01-02")
	b.Status = model.BookingStatus(status)
	b.ServiceTime = model.NormalizeSlotTime(b.ServiceTime)
	b.Note = note.String
	return b, nil
}

// UpdateStatus sets a booking's status. The caller validates the value
// against the closed enum first.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE booking_id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE booking_id = ?`, id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// BookingItemDetail is one service line of a booking with its resolved
// service name and selected options.
type BookingItemDetail struct {
	ItemID      uint64 `json:"item_id"`
	ServiceID   uint64 `json:"service_id"`
	ServiceName string `json:"service_name"`
	Quantity    uint32 `json:"quantity"`
	Options     []struct {
		OptionID   uint64  `json:"option_id"`
		OptionName string  `json:"option_name"`
		Price      float64 `json:"price"`
	} `json:"options"`
}

// ServiceTireDetail is one wheel-position tire row of a booking.
type ServiceTireDetail struct {
	Position string `json:"position"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Size     string `json:"size"`
	DOT      string `json:"dot"`
}

// BookingDetail aggregates a booking with its customer, vehicle, service
// items and tire rows for display.
type BookingDetail struct {
	ID            uint64              `json:"id"`
	CustomerID    uint64              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	VehicleID     uint64              `json:"vehicle_id"`
	LicensePlate  string              `json:"license_plate"`
	Province      string              `json:"license_province"`
	VehicleBrand  string              `json:"vehicle_brand"`
	VehicleModel  string              `json:"vehicle_model"`
	BookingDate   string              `json:"booking_date"`
	ServiceDate   string              `json:"service_date"`
	ServiceTime   string              `json:"service_time"`
	Status        string              `json:"status"`
	StatusEn      string              `json:"status_en"`
	Note          string              `json:"note"`
	Items         []BookingItemDetail `json:"items"`
	Tires         []ServiceTireDetail `json:"tires"`
}

const bookingDetailQuery = `SELECT b.booking_id, b.customer_id,
	       CONCAT(c.first_name, ' ', c.last_name), c.phone,
	       b.vehicle_id, v.license_plate, v.license_province, v.brand_name, v.model_name,
	       b.booking_date, b.service_date, b.service_time, b.status, b.note
	FROM bookings b
	JOIN customers c ON c.customer_id = b.customer_id
	JOIN vehicles v ON v.vehicle_id = b.vehicle_id`

func scanBookingDetail(row interface{ Scan(...interface{}) error }) (BookingDetail, error) {
	var d BookingDetail
	var phone, province, vBrand, vModel, note sql.NullString
	var bookingDate, serviceDate time.Time
	err := row.Scan(&d.ID, &d.CustomerID, &d.CustomerName, &phone,
		&d.VehicleID, &d.LicensePlate, &province, &vBrand, &vModel,
		&bookingDate, &serviceDate, &d.ServiceTime, &d.Status, &note)
	if err != nil {
		return d, err
	}
	d.BookingDate = bookingDate.UTC().Format("2006-01-02 15:04:05")
	d.ServiceDate = serviceDate.Format("2006-01-02")
	d.CustomerPhone = phone.String
	d.Province = province.String
	d.VehicleBrand = vBrand.String
	d.VehicleModel = vModel.String
	d.Note = note.String
	d.ServiceTime = model.NormalizeSlotTime(d.ServiceTime)
	d.StatusEn = model.BookingStatus(d.Status).English()
	return d, nil
}

// GetDetail loads one booking together with its customer, vehicle, items,
// item options and tire rows. Returns sql.ErrNoRows when the booking does
// not exist.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	det, err := scanBookingDetail(r.DB.QueryRowContext(ctx, bookingDetailQuery+` WHERE b.booking_id = ?`, id))
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, []uint64{det.ID})
	if err != nil {
		return nil, err
	}
	det.Items = items[det.ID]
	if det.Items == nil {
		det.Items = []BookingItemDetail{}
	}
	tires, err := r.loadTires(ctx, []uint64{det.ID})
	if err != nil {
		return nil, err
	}
	det.Tires = tires[det.ID]
	if det.Tires == nil {
		det.Tires = []ServiceTireDetail{}
	}
	return &det, nil
}

func (r *BookingRepo) loadItems(ctx context.Context, bookingIDs []uint64) (map[uint64][]BookingItemDetail, error) {
	out := make(map[uint64][]BookingItemDetail)
	if len(bookingIDs) == 0 {
		return out, nil
	}
	ids := make([]interface{}, 0, len(bookingIDs))
	placeholders := make([]string, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	in := strings.Join(placeholders, ",")
	itemQ := `SELECT bi.booking_id, bi.item_id, bi.service_id, s.service_name, bi.quantity
	          FROM booking_items bi
	          JOIN services s ON s.service_id = bi.service_id
	          WHERE bi.booking_id IN (` + in + `)
	          ORDER BY bi.item_id`
	rows, err := r.DB.QueryContext(ctx, itemQ, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	itemIndex := make(map[uint64]*BookingItemDetail)
	order := make(map[uint64][]uint64)
	for rows.Next() {
		var bookingID uint64
		var it BookingItemDetail
		if err := rows.Scan(&bookingID, &it.ItemID, &it.ServiceID, &it.ServiceName, &it.Quantity); err != nil {
			return nil, err
		}
		it.Options = []struct {
			OptionID   uint64  `json:"option_id"`
			OptionName string  `json:"option_name"`
			Price      float64 `json:"price"`
		}{}
		itemIndex[it.ItemID] = &it
		order[bookingID] = append(order[bookingID], it.ItemID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(itemIndex) > 0 {
		optQ := `SELECT bio.item_id, bio.option_id, so.option_name, so.option_price
		         FROM booking_item_options bio
		         JOIN booking_items bi ON bi.item_id = bio.item_id
		         JOIN service_options so ON so.option_id = bio.option_id
		         WHERE bi.booking_id IN (` + in + `)
		         ORDER BY bio.id`
		orows, err := r.DB.QueryContext(ctx, optQ, ids...)
		if err != nil {
			return nil, err
		}
		defer orows.Close()
		for orows.Next() {
			var itemID uint64
			var opt struct {
				OptionID   uint64  `json:"option_id"`
				OptionName string  `json:"option_name"`
				Price      float64 `json:"price"`
			}
			if err := orows.Scan(&itemID, &opt.OptionID, &opt.OptionName, &opt.Price); err != nil {
				return nil, err
			}
			if it, ok := itemIndex[itemID]; ok {
				it.Options = append(it.Options, opt)
			}
		}
		if err := orows.Err(); err != nil {
			return nil, err
		}
	}
	for bookingID, itemIDs := range order {
		for _, itemID := range itemIDs {
			out[bookingID] = append(out[bookingID], *itemIndex[itemID])
		}
	}
	return out, nil
}

func (r *BookingRepo) loadTires(ctx context.Context, bookingIDs []uint64) (map[uint64][]ServiceTireDetail, error) {
	out := make(map[uint64][]ServiceTireDetail)
	if len(bookingIDs) == 0 {
		return out, nil
	}
	ids := make([]interface{}, 0, len(bookingIDs))
	placeholders := make([]string, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT booking_id, position, brand, model, size, dot
	      FROM service_tires
	      WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY booking_id, FIELD(position, 'front_left', 'front_right', 'rear_left', 'rear_right')`
	rows, err := r.DB.QueryContext(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID uint64
		var t ServiceTireDetail
		var brand, mdl, size, dot sql.NullString
		if err := rows.Scan(&bookingID, &t.Position, &brand, &mdl, &size, &dot); err != nil {
			return nil, err
		}
		t.Brand = brand.String
		t.Model = mdl.String
		t.Size = size.String
		t.DOT = dot.String
		out[bookingID] = append(out[bookingID], t)
	}
	return out, rows.Err()
}

// ListByCustomer returns a customer's bookings, newest first, with items
// and tires populated.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.customer_id = ? ORDER BY b.booking_id DESC`
	rows, err := r.DB.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachChildren(ctx, details)
}

func (r *BookingRepo) attachChildren(ctx context.Context, details []BookingDetail) ([]BookingDetail, error) {
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]uint64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	tires, err := r.loadTires(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].Items = items[details[i].ID]
		if details[i].Items == nil {
			details[i].Items = []BookingItemDetail{}
		}
		details[i].Tires = tires[details[i].ID]
		if details[i].Tires == nil {
			details[i].Tires = []ServiceTireDetail{}
		}
	}
	return details, nil
}

// BookingFilter narrows admin booking listings. Zero values mean no
// filtering on that dimension. Page numbers start at 1.
type BookingFilter struct {
	Status   string
	DateFrom string
	DateTo   string
	Search   string
	Page     int
	PerPage  int
}

// ListForAdmin returns a filtered, paginated page of bookings plus the
// total matching count. Children are populated per page, not per total.
func (r *BookingRepo) ListForAdmin(ctx context.Context, f BookingFilter) ([]BookingDetail, int, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		where = append(where, "b.service_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "b.service_date <= ?")
		args = append(args, f.DateTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(CONCAT(c.first_name, ' ', c.last_name) LIKE ? OR v.license_plate LIKE ? OR c.phone LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}
	countQ := `SELECT COUNT(*)
	           FROM bookings b
	           JOIN customers c ON c.customer_id = b.customer_id
	           JOIN vehicles v ON v.vehicle_id = b.vehicle_id` + cond
	var total int
	if err := r.DB.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	q := bookingDetailQuery + cond + ` ORDER BY b.booking_id DESC LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), f.PerPage, (f.Page-1)*f.PerPage)
	rows, err := r.DB.QueryContext(ctx, q, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	details, err = r.attachChildren(ctx, details)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}
