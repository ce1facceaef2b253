package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenRows(userID uint64, expiresAt time.Time, revokedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, expiresAt, revokedAt)
}

func TestValidateRefreshActiveToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WithArgs("abc123").
		WillReturnRows(tokenRows(7, time.Now().Add(time.Hour), nil))

	repo := NewTokenRepo(db)
	uid, err := repo.ValidateRefresh(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRevokedOrExpired(t *testing.T) {
	cases := map[string]struct {
		expiresAt time.Time
		revokedAt interface{}
	}{
		"revoked": {time.Now().Add(time.Hour), time.Now().Add(-time.Minute)},
		"expired": {time.Now().Add(-time.Minute), nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
				WithArgs("abc123").
				WillReturnRows(tokenRows(7, tc.expiresAt, tc.revokedAt))

			repo := NewTokenRepo(db)
			_, err = repo.ValidateRefresh(context.Background(), "abc123")
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRevokeByHashLeavesRevokedRowsAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.RevokeByHash(context.Background(), "abc123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
