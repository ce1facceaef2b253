package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

// AdminTireHandler serves back-office tire catalog management.
type AdminTireHandler struct {
	Tires      *repository.TireRepo
	TireModels *repository.TireModelRepo
}

func NewAdminTireHandler(t *repository.TireRepo, tm *repository.TireModelRepo) *AdminTireHandler {
	return &AdminTireHandler{Tires: t, TireModels: tm}
}

type tireReq struct {
	ModelID         uint64  `json:"model_id"`
	Width           int     `json:"width"`
	AspectRatio     int     `json:"aspect_ratio"`
	RimDiameter     int     `json:"rim_diameter"`
	FullSize        string  `json:"full_size"`
	LoadIndex       string  `json:"load_index"`
	HighSpeedRating string  `json:"high_speed_rating"`
	PriceEach       float64 `json:"price_each"`
	PriceSet        float64 `json:"price_set"`
	ProductDate     string  `json:"product_date"`
	ImageURL        string  `json:"image_url"`
}

func (r *tireReq) validate() (model.Tire, string) {
	t := model.Tire{
		ModelID:         r.ModelID,
		Width:           r.Width,
		AspectRatio:     r.AspectRatio,
		RimDiameter:     r.RimDiameter,
		FullSize:        strings.TrimSpace(r.FullSize),
		LoadIndex:       strings.TrimSpace(r.LoadIndex),
		HighSpeedRating: strings.TrimSpace(r.HighSpeedRating),
		PriceEach:       r.PriceEach,
		PriceSet:        r.PriceSet,
		ProductDate:     strings.TrimSpace(r.ProductDate),
		ImageURL:        strings.TrimSpace(r.ImageURL),
	}
	if t.ModelID == 0 {
		return t, "model_id required"
	}
	if t.FullSize == "" {
		return t, "full_size required"
	}
	if t.Width <= 0 || t.AspectRatio <= 0 || t.RimDiameter <= 0 {
		return t, "width, aspect_ratio and rim_diameter must be positive"
	}
	if t.PriceEach < 0 || t.PriceSet < 0 {
		return t, "prices must not be negative"
	}
	return t, ""
}

// Create handles POST /v1/admin/tires.
func (h *AdminTireHandler) Create(c echo.Context) error {
	var req tireReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.TireModels.GetByID(ctx, t.ModelID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tire model"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Tires.Create(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tire failed"})
	}
	det, err := h.Tires.GetByID(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tire failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": det})
}

// Update handles PUT /v1/admin/tires/:id.
func (h *AdminTireHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tire id"})
	}
	var req tireReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Tires.Update(ctx, &t); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tire not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update tire failed"})
	}
	det, err := h.Tires.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tire failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": det})
}

// Delete handles DELETE /v1/admin/tires/:id.
func (h *AdminTireHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tire id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Tires.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tire not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete tire failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
