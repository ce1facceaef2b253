package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateNormalizesUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("somchai", sqlmock.AnyArg(), "Somchai J.", "customer").
		WillReturnResult(sqlmock.NewResult(11, 1))

	repo := &UserRepo{DB: db}
	id, err := repo.Create(context.Background(), "  SomChai ", "pass1234", "Somchai J.", "customer", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'somchai' for key 'users.username'"))

	repo := &UserRepo{DB: db}
	_, err = repo.Create(context.Background(), "somchai", "pass1234", "", "customer", 4)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
