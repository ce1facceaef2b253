package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tireweb/tire-shop-api/internal/model"
)

func newMockTx(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *sql.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return db, mock, tx
}

func TestBookingCreateTxPopulatesID(t *testing.T) {
	_, mock, tx := newMockTx(t)
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(5), uint64(9), "2026-09-15", "10:00", string(model.StatusPending), "note").
		WillReturnResult(sqlmock.NewResult(77, 1))

	repo := &BookingRepo{}
	b := model.Booking{
		CustomerID:  5,
		VehicleID:   9,
		ServiceDate: "2026-09-15",
		ServiceTime: "10:00",
		Status:      model.StatusPending,
		Note:        "note",
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &b))
	assert.Equal(t, uint64(77), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountBySlotTxExcludesCancelledAndSelf(t *testing.T) {
	_, mock, tx := newMockTx(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("2026-09-15", "10:00", string(model.StatusCancelled), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(2))

	repo := &BookingRepo{}
	n, err := repo.CountBySlotTx(context.Background(), tx, "2026-09-15", "10:00", 12)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateServiceTiresTxBulkInsert(t *testing.T) {
	_, mock, tx := newMockTx(t)
	// one placeholder group per wheel position
	mock.ExpectExec(`INSERT INTO service_tires .+VALUES \(\?, \?, \?, \?, \?, \?\),\(\?, \?, \?, \?, \?, \?\),\(\?, \?, \?, \?, \?, \?\),\(\?, \?, \?, \?, \?, \?\)`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	tires := make([]model.ServiceTire, 0, 4)
	for _, pos := range model.TirePositions {
		tires = append(tires, model.ServiceTire{BookingID: 3, Position: pos})
	}
	repo := &BookingRepo{}
	require.NoError(t, repo.CreateServiceTiresTx(context.Background(), tx, tires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateServiceTiresTxEmptySliceNoQuery(t *testing.T) {
	_, mock, tx := newMockTx(t)
	repo := &BookingRepo{}
	require.NoError(t, repo.CreateServiceTiresTx(context.Background(), tx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadeTxOrderAndMissing(t *testing.T) {
	_, mock, tx := newMockTx(t)
	mock.ExpectExec("DELETE FROM service_tires").
		WithArgs(uint64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE bio FROM booking_item_options").
		WithArgs(uint64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM booking_items").
		WithArgs(uint64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(uint64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &BookingRepo{}
	err := repo.DeleteCascadeTx(context.Background(), tx, 8)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(string(model.StatusCompleted), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	repo := &BookingRepo{DB: db}
	err = repo.UpdateStatus(context.Background(), 99, model.StatusCompleted)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountsByDateNormalizesSlotKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"service_time", "COUNT(*)"}).
		AddRow("09:00:00", 2).
		AddRow("9:0:0", 1).
		AddRow("13:00:00", 1)
	mock.ExpectQuery("SELECT service_time, COUNT").
		WithArgs("2026-09-15", string(model.StatusCancelled)).
		WillReturnRows(rows)

	repo := &BookingRepo{DB: db}
	counts, err := repo.CountsByDate(context.Background(), "2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, 3, counts["09:00"], "both TIME shapes collapse into one key")
	assert.Equal(t, 1, counts["13:00"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
