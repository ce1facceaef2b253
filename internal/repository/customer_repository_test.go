package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectCascadeSteps(mock sqlmock.Sqlmock, customerID uint64) {
	for _, pattern := range []string{
		"DELETE st FROM service_tires",
		"DELETE bio FROM booking_item_options",
		"DELETE bi FROM booking_items",
		"DELETE FROM bookings",
		"DELETE sri FROM service_record_items",
		"DELETE sr FROM service_records",
		"DELETE FROM vehicles",
		"DELETE FROM customers",
	} {
		mock.ExpectExec(pattern).WithArgs(customerID).WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestCustomerDeleteCascadeWithLinkedUser(t *testing.T) {
	_, mock, tx := newMockTx(t)

	mock.ExpectQuery("SELECT user_id FROM customers").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(21)))
	expectCascadeSteps(mock, 4)
	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(uint64(21)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(uint64(21)).WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &CustomerRepo{}
	require.NoError(t, repo.DeleteCascadeTx(context.Background(), tx, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerDeleteCascadeWalkInKeepsUsersUntouched(t *testing.T) {
	_, mock, tx := newMockTx(t)

	mock.ExpectQuery("SELECT user_id FROM customers").
		WithArgs(uint64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil))
	expectCascadeSteps(mock, 6)

	repo := &CustomerRepo{}
	require.NoError(t, repo.DeleteCascadeTx(context.Background(), tx, 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerDeleteCascadeMissingCustomer(t *testing.T) {
	_, mock, tx := newMockTx(t)

	mock.ExpectQuery("SELECT user_id FROM customers").
		WithArgs(uint64(123)).
		WillReturnError(sql.ErrNoRows)

	repo := &CustomerRepo{}
	err := repo.DeleteCascadeTx(context.Background(), tx, 123)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
