package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/config"
	"github.com/tireweb/tire-shop-api/internal/upload"
)

const maxUploadBytes = 5 << 20 // 5 MiB per image

// UploadHandler stores admin-submitted images under the upload root and
// returns the relative path to embed in catalog records.
type UploadHandler struct {
	Cfg *config.Config
}

func NewUploadHandler(cfg *config.Config) *UploadHandler {
	return &UploadHandler{Cfg: cfg}
}

// Store handles POST /v1/admin/uploads/:kind with a multipart "file"
// field.
func (h *UploadHandler) Store(c echo.Context) error {
	kind := c.Param("kind")
	if !upload.ValidKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown upload kind"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	path, err := upload.Store(h.Cfg.UploadDir, kind, fh)
	if err != nil {
		if errors.Is(err, upload.ErrExtNotAllowed) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file extension not allowed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"path": path}})
}
