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

// AdminPromotionHandler serves back-office promotion management.
type AdminPromotionHandler struct {
	Promotions *repository.PromotionRepo
}

func NewAdminPromotionHandler(p *repository.PromotionRepo) *AdminPromotionHandler {
	return &AdminPromotionHandler{Promotions: p}
}

type promotionReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsActive    *bool  `json:"is_active"`
}

func promotionView(p model.Promotion) echo.Map {
	return echo.Map{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"image_url":   p.ImageURL,
		"start_date":  p.StartDate,
		"end_date":    p.EndDate,
		"is_active":   p.IsActive,
	}
}

func promotionViews(promos []model.Promotion) []echo.Map {
	out := make([]echo.Map, 0, len(promos))
	for _, p := range promos {
		out = append(out, promotionView(p))
	}
	return out
}

func (r *promotionReq) validate() (model.Promotion, error) {
	p := model.Promotion{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		ImageURL:    strings.TrimSpace(r.ImageURL),
		StartDate:   strings.TrimSpace(r.StartDate),
		EndDate:     strings.TrimSpace(r.EndDate),
		IsActive:    true,
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if p.Title == "" {
		return p, errTitleRequired
	}
	for _, d := range []string{p.StartDate, p.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return p, errBadDate
		}
	}
	return p, nil
}

var (
	errTitleRequired = echo.NewHTTPError(http.StatusBadRequest, "title required")
	errBadDate       = echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
)

// List handles GET /v1/admin/promotions.
func (h *AdminPromotionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	promos, err := h.Promotions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": promotionViews(promos)})
}

// Create handles POST /v1/admin/promotions.
func (h *AdminPromotionHandler) Create(c echo.Context) error {
	var req promotionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.validate()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Promotions.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create promotion failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": promotionView(p)})
}

// Update handles PUT /v1/admin/promotions/:id.
func (h *AdminPromotionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	var req promotionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.validate()
	if err != nil {
		return err
	}
	p.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Promotions.Update(ctx, &p); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update promotion failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": promotionView(p)})
}

// Delete handles DELETE /v1/admin/promotions/:id.
func (h *AdminPromotionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Promotions.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete promotion failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
