package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

// PageViewHandler counts public page visits. The endpoint is fire and
// forget for the frontend, so it answers quickly and never blocks on
// anything but the insert itself.
type PageViewHandler struct {
	PageViews *repository.PageViewRepo
}

func NewPageViewHandler(pv *repository.PageViewRepo) *PageViewHandler {
	return &PageViewHandler{PageViews: pv}
}

type pageViewReq struct {
	PageID string `json:"page_id"`
}

// Record handles POST /v1/page-views. The device bucket comes from the
// User-Agent header, not the client payload.
func (h *PageViewHandler) Record(c echo.Context) error {
	var req pageViewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PageID = strings.TrimSpace(req.PageID)
	if req.PageID == "" || len(req.PageID) > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "page_id required"})
	}

	device := model.DeviceTypeFromUserAgent(c.Request().UserAgent())

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.PageViews.Record(ctx, req.PageID, device); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record page view failed"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"success": true})
}
