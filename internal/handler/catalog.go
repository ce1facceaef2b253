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

// CatalogHandler serves the public, cacheable catalog endpoints: tire
// search, filter value lists, brands and models, car brands, promotions
// and the service list.
type CatalogHandler struct {
	Tires      *repository.TireRepo
	Brands     *repository.BrandRepo
	TireModels *repository.TireModelRepo
	Promotions *repository.PromotionRepo
	Services   *repository.ServiceRepo
}

func NewCatalogHandler(t *repository.TireRepo, b *repository.BrandRepo, tm *repository.TireModelRepo,
	p *repository.PromotionRepo, s *repository.ServiceRepo) *CatalogHandler {
	return &CatalogHandler{Tires: t, Brands: b, TireModels: tm, Promotions: p, Services: s}
}

// SearchTires handles GET /v1/tires.
func (h *CatalogHandler) SearchTires(c echo.Context) error {
	f := repository.TireFilter{
		BrandID:     queryUint(c, "brand_id"),
		ModelID:     queryUint(c, "model_id"),
		FullSize:    strings.TrimSpace(c.QueryParam("full_size")),
		Width:       queryInt(c, "width", 0),
		AspectRatio: queryInt(c, "aspect_ratio", 0),
		RimDiameter: queryInt(c, "rim_diameter", 0),
		Sort:        c.QueryParam("sort"),
		Page:        queryInt(c, "page", 1),
		PerPage:     queryInt(c, "per_page", 20),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tires, total, err := h.Tires.Search(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    tires,
		"meta": echo.Map{
			"total":    total,
			"page":     f.Page,
			"per_page": f.PerPage,
		},
	})
}

// GetTire handles GET /v1/tires/:id.
func (h *CatalogHandler) GetTire(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tire id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tires.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tire not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// TireSizes handles GET /v1/tires/sizes.
func (h *CatalogHandler) TireSizes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	sizes, err := h.Tires.DistinctSizes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sizes})
}

// TireWidths handles GET /v1/tires/widths.
func (h *CatalogHandler) TireWidths(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	widths, err := h.Tires.DistinctWidths(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": widths})
}

// TireAspects handles GET /v1/tires/aspects.
func (h *CatalogHandler) TireAspects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	aspects, err := h.Tires.DistinctAspects(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": aspects})
}

// TireRims handles GET /v1/tires/rims.
func (h *CatalogHandler) TireRims(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rims, err := h.Tires.DistinctRims(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rims})
}

// ListBrands handles GET /v1/brands.
func (h *CatalogHandler) ListBrands(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	brands, err := h.Brands.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(brands))
	for _, b := range brands {
		out = append(out, echo.Map{"id": b.ID, "name": b.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// ListBrandModels handles GET /v1/brands/:id/models.
func (h *CatalogHandler) ListBrandModels(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	models, err := h.TireModels.ListByBrand(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(models))
	for _, m := range models {
		out = append(out, echo.Map{"id": m.ID, "brand_id": m.BrandID, "name": m.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// ListCarBrands handles GET /v1/car-brands.
func (h *CatalogHandler) ListCarBrands(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	brands, err := h.Brands.ListCarBrands(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(brands))
	for _, b := range brands {
		out = append(out, echo.Map{"id": b.ID, "name": b.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// ListPromotions handles GET /v1/promotions (active window only).
func (h *CatalogHandler) ListPromotions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	promos, err := h.Promotions.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": promotionViews(promos)})
}

// GetPromotion handles GET /v1/promotions/:id.
func (h *CatalogHandler) GetPromotion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	p, err := h.Promotions.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": promotionView(p)})
}

// ListServices handles GET /v1/services, grouped by category.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	services, err := h.Services.ListActiveWithOptions(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	grouped := make(map[string][]repository.ServiceWithOptions)
	order := make([]string, 0)
	for _, s := range services {
		if _, seen := grouped[s.Category]; !seen {
			order = append(order, s.Category)
		}
		grouped[s.Category] = append(grouped[s.Category], s)
	}
	out := make([]echo.Map, 0, len(order))
	for _, cat := range order {
		out = append(out, echo.Map{"category": cat, "services": grouped[cat]})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}
