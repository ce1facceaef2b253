package handler

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

func newWorkflowHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewVehicleRepo(db),
		repository.NewServiceRepo(db),
		repository.NewBrandRepo(db),
		repository.NewTireModelRepo(db),
	)
	return h, mock
}

func vehicleRows(id, customerID uint64, color string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"vehicle_id", "customer_id", "vehicle_type_id", "engine_type_name",
		"license_plate", "license_province", "brand_name", "model_name", "color", "production_year", "created_at"}).
		AddRow(id, customerID, nil, "สันดาป", "กข 1234", "เชียงใหม่", "Toyota", "Vios", color, 2020, time.Now())
}

// A create against a slot already at capacity must fail inside the
// transaction, before any row is written.
func TestCreateBookingRejectsFullSlot(t *testing.T) {
	h, mock := newWorkflowHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("2026-09-15", "10:00", string(model.StatusCancelled), uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(model.SlotCapacity))
	mock.ExpectRollback()

	form := bookingForm{
		ServiceDate: "2026-09-15",
		ServiceTime: "10:00",
		Vehicle:     vehicleForm{LicensePlate: "กข 1234", LicenseProvince: "เชียงใหม่"},
		Services:    []serviceSelection{{ServiceID: 2}},
	}
	require.NoError(t, form.normalize())

	id, err := h.createBooking(context.Background(), 9, &form)
	require.ErrorIs(t, err, repository.ErrSlotFull)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A booking with no selected services is still valid: the header and the
// four wheel-position rows are written, booking_items stays empty.
func TestCreateBookingWithoutServicesWritesTireRows(t *testing.T) {
	h, mock := newWorkflowHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("2026-09-15", "10:00", string(model.StatusCancelled), uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
	mock.ExpectQuery("FROM vehicles").
		WithArgs(uint64(9), "กข 1234", "เชียงใหม่").
		WillReturnRows(vehicleRows(12, 9, "ขาว"))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(12), "2026-09-15", "10:00", string(model.StatusPending), nil).
		WillReturnResult(sqlmock.NewResult(71, 1))
	mock.ExpectExec("INSERT INTO service_tires").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	form := bookingForm{
		ServiceDate: "2026-09-15",
		ServiceTime: "10:00",
		Vehicle:     vehicleForm{LicensePlate: "กข 1234", LicenseProvince: "เชียงใหม่"},
	}
	require.NoError(t, form.normalize())

	id, err := h.createBooking(context.Background(), 9, &form)
	require.NoError(t, err)
	assert.Equal(t, uint64(71), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An edit replaces the whole booking: the reused vehicle's descriptor
// fields are rewritten from the form, the header is updated and the
// dependent rows are deleted before the submitted form is re-inserted.
func TestReplaceBookingRewritesVehicleAndDependentRows(t *testing.T) {
	h, mock := newWorkflowHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE booking_id = \\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "customer_id", "vehicle_id", "booking_date",
			"service_date", "service_time", "status", "note"}).
			AddRow(42, 9, 12, time.Now(), time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
				"10:00:00", string(model.StatusPending), nil))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("2026-09-20", "14:00", string(model.StatusCancelled), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery("FROM vehicles").
		WithArgs(uint64(9), "กข 1234", "เชียงใหม่").
		WillReturnRows(vehicleRows(12, 9, "ขาว"))
	mock.ExpectExec("UPDATE vehicles").
		WithArgs("สันดาป", "กข 1234", "เชียงใหม่", "Toyota", "Vios", "ดำ", 2020, uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(uint64(12), "2026-09-20", "14:00", string(model.StatusPending), nil, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE bio FROM booking_item_options").
		WithArgs(uint64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booking_items").
		WithArgs(uint64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM service_tires").
		WithArgs(uint64(42)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectQuery("SELECT 1 FROM services").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("INSERT INTO booking_items").
		WithArgs(uint64(42), uint64(3), 1).
		WillReturnResult(sqlmock.NewResult(501, 1))
	mock.ExpectExec("INSERT INTO service_tires").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	form := bookingForm{
		ServiceDate: "2026-09-20",
		ServiceTime: "14:00",
		Vehicle: vehicleForm{
			LicensePlate:    "กข 1234",
			LicenseProvince: "เชียงใหม่",
			Color:           "ดำ",
		},
		Services: []serviceSelection{{ServiceID: 3}},
	}
	require.NoError(t, form.normalize())

	require.NoError(t, h.replaceBooking(context.Background(), 42, 9, &form))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A customer may not move someone else's booking.
func TestReplaceBookingRejectsForeignCustomer(t *testing.T) {
	h, mock := newWorkflowHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE booking_id = \\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "customer_id", "vehicle_id", "booking_date",
			"service_date", "service_time", "status", "note"}).
			AddRow(42, 9, 12, time.Now(), time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
				"10:00:00", string(model.StatusPending), nil))
	mock.ExpectRollback()

	form := bookingForm{
		ServiceDate: "2026-09-20",
		ServiceTime: "14:00",
		Vehicle:     vehicleForm{LicensePlate: "กข 1234", LicenseProvince: "เชียงใหม่"},
	}
	require.NoError(t, form.normalize())

	err := h.replaceBooking(context.Background(), 42, 77, &form)
	require.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
