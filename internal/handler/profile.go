package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/config"
	"github.com/tireweb/tire-shop-api/internal/repository"
	"github.com/tireweb/tire-shop-api/internal/upload"
	"github.com/tireweb/tire-shop-api/internal/utils"
)

// ProfileHandler serves the logged-in customer's own account: profile
// fields, password and avatar. Everything here resolves the customer
// from the bearer token, never from a path id.
type ProfileHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Customers *repository.CustomerRepo
	Tokens    *repository.TokenRepo
}

func NewProfileHandler(cfg config.Config, u *repository.UserRepo, cu *repository.CustomerRepo, t *repository.TokenRepo) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Customers: cu, Tokens: t}
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfile handles PUT /v1/me/profile. The avatar has its own
// endpoint, so a stored avatar_url survives a profile update that omits
// it.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cu, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Customers.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	cu.ID = cur.ID
	cu.UserID = cur.UserID
	if cu.AvatarURL == "" {
		cu.AvatarURL = cur.AvatarURL
	}
	if err := h.Customers.Update(ctx, &cu); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": customerView(cu)})
}

// ChangePassword handles PUT /v1/me/password. A successful change
// revokes every refresh token the user holds, so other sessions must
// log in again.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke sessions failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadAvatar handles POST /v1/me/avatar with a multipart "file"
// field. The stored path replaces the customer's avatar_url.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cu, err := h.Customers.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	path, err := upload.Store(h.Cfg.UploadDir, "avatars", fh)
	if err != nil {
		if errors.Is(err, upload.ErrExtNotAllowed) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file extension not allowed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
	cu.AvatarURL = strings.TrimSpace(path)
	if err := h.Customers.Update(ctx, &cu); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update avatar failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"avatar_url": cu.AvatarURL}})
}
