package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/repository"
)

// AdminCatalogHandler serves brand and tire model management. Deletes are
// blocked with 409 while other catalog rows still reference the target.
type AdminCatalogHandler struct {
	Brands     *repository.BrandRepo
	TireModels *repository.TireModelRepo
}

func NewAdminCatalogHandler(b *repository.BrandRepo, tm *repository.TireModelRepo) *AdminCatalogHandler {
	return &AdminCatalogHandler{Brands: b, TireModels: tm}
}

type nameReq struct {
	Name string `json:"name"`
}

// CreateBrand handles POST /v1/admin/brands.
func (h *AdminCatalogHandler) CreateBrand(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	id, err := h.Brands.Create(ctx, req.Name)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "brand already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": id, "name": strings.TrimSpace(req.Name)}})
}

// UpdateBrand handles PUT /v1/admin/brands/:id.
func (h *AdminCatalogHandler) UpdateBrand(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	var req nameReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Brands.Update(ctx, id, req.Name); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update brand failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": id, "name": strings.TrimSpace(req.Name)}})
}

// DeleteBrand handles DELETE /v1/admin/brands/:id.
func (h *AdminCatalogHandler) DeleteBrand(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Brands.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "brand still has tire models"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete brand failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type tireModelReq struct {
	BrandID uint64 `json:"brand_id"`
	Name    string `json:"name"`
}

// CreateModel handles POST /v1/admin/tire-models.
func (h *AdminCatalogHandler) CreateModel(c echo.Context) error {
	var req tireModelReq
	if err := c.Bind(&req); err != nil || req.BrandID == 0 || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand_id and name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Brands.GetByID(ctx, req.BrandID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown brand"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, err := h.TireModels.Create(ctx, req.BrandID, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create model failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{
		"id": id, "brand_id": req.BrandID, "name": strings.TrimSpace(req.Name),
	}})
}

// UpdateModel handles PUT /v1/admin/tire-models/:id.
func (h *AdminCatalogHandler) UpdateModel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid model id"})
	}
	var req tireModelReq
	if err := c.Bind(&req); err != nil || req.BrandID == 0 || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand_id and name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.TireModels.Update(ctx, id, req.BrandID, req.Name); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "model not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update model failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"id": id, "brand_id": req.BrandID, "name": strings.TrimSpace(req.Name),
	}})
}

// DeleteModel handles DELETE /v1/admin/tire-models/:id.
func (h *AdminCatalogHandler) DeleteModel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid model id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.TireModels.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "model still has tires"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "model not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete model failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
