package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tireweb/tire-shop-api/internal/config"
	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
	"github.com/tireweb/tire-shop-api/internal/utils"
)

func newProfileHandler(t *testing.T) (*ProfileHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{BcryptCost: bcrypt.MinCost}
	h := NewProfileHandler(cfg,
		repository.NewUserRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewTokenRepo(db))
	return h, mock
}

func profileContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7)) // as the jwt middleware stores it
	c.Set("role", model.RoleCustomer)
	return c, rec
}

func customerRows(avatar string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"customer_id", "user_id", "first_name", "last_name",
		"email", "phone", "gender", "birthdate", "avatar_url", "created_at"}).
		AddRow(3, 7, "สมชาย", "ใจดี", "somchai@example.com", "0812345678", "male", nil, avatar, time.Now())
}

// A profile update that omits avatar_url must not wipe the stored avatar.
func TestUpdateProfileKeepsStoredAvatar(t *testing.T) {
	h, mock := newProfileHandler(t)

	mock.ExpectQuery("FROM customers WHERE user_id").
		WithArgs(uint64(7)).
		WillReturnRows(customerRows("uploads/avatars/old.png"))
	mock.ExpectExec("UPDATE customers").
		WithArgs("สมหญิง", "ใจดี", "somying@example.com", "0812345678", "female", nil,
			"uploads/avatars/old.png", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"first_name":"สมหญิง","last_name":"ใจดี","email":"somying@example.com","phone":"0812345678","gender":"female"}`
	c, rec := profileContext(t, http.MethodPut, body)

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	h, mock := newProfileHandler(t)

	hash, err := utils.HashPassword("old-password", bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users WHERE user_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "password_hash", "name", "role_name", "created_at"}).
			AddRow(7, "somchai", hash, "สมชาย ใจดี", model.RoleCustomer, time.Now()))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	body := `{"current_password":"old-password","new_password":"new-password"}`
	c, rec := profileContext(t, http.MethodPut, body)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	h, mock := newProfileHandler(t)

	hash, err := utils.HashPassword("old-password", bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users WHERE user_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "password_hash", "name", "role_name", "created_at"}).
			AddRow(7, "somchai", hash, "สมชาย ใจดี", model.RoleCustomer, time.Now()))

	body := `{"current_password":"guess","new_password":"new-password"}`
	c, rec := profileContext(t, http.MethodPut, body)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	h, mock := newProfileHandler(t)

	body := `{"current_password":"old-password","new_password":"short"}`
	c, rec := profileContext(t, http.MethodPut, body)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
